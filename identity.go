package todos

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAlgorithms are the signing algorithms accepted when none are configured.
var DefaultAlgorithms = []string{"RS256"}

// KeySet resolves token verification keys by key id.
//
// Implementations may fetch keys over the network and cache them; Key is
// called once per verified token, before any signature check.
type KeySet interface {
	// Key returns the public key registered under kid.
	// Returns an error wrapping ErrUnauthorized (or any other error) when the
	// key is unknown or cannot be fetched; the verifier treats both the same.
	Key(ctx context.Context, kid string) (crypto.PublicKey, error)
}

// AuthConfig holds bearer token verification settings.
type AuthConfig struct {
	Issuer     string        `mapstructure:"issuer"`
	Audience   string        `mapstructure:"audience"`
	Algorithms []string      `mapstructure:"algorithms"`
	Leeway     time.Duration `mapstructure:"leeway"`
}

// Identity is the authenticated caller extracted from a verified token.
type Identity struct {
	Subject   string
	Issuer    string
	ExpiresAt time.Time
}

// IdentityVerifier authenticates bearer tokens against a KeySet.
type IdentityVerifier struct {
	keys   KeySet
	parser *jwt.Parser
}

// NewIdentityVerifier creates a verifier that accepts only asymmetric
// algorithms from cfg.Algorithms (DefaultAlgorithms when empty).
func NewIdentityVerifier(cfg AuthConfig, keys KeySet) (*IdentityVerifier, error) {
	if keys == nil {
		return nil, errors.New("new identity verifier: key set is required")
	}

	algs := cfg.Algorithms
	if len(algs) == 0 {
		algs = DefaultAlgorithms
	}
	for _, alg := range algs {
		if !isAsymmetricAlgorithm(alg) {
			return nil, fmt.Errorf("new identity verifier: unsupported algorithm: %s", alg)
		}
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods(algs),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	if cfg.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(cfg.Leeway))
	}

	return &IdentityVerifier{
		keys:   keys,
		parser: jwt.NewParser(opts...),
	}, nil
}

// Verify authenticates an Authorization header value and returns the caller.
//
// Verification runs in two steps: the token header is decoded without trust
// to read its key id, the key is fetched from the KeySet, and then the
// signature and registered claims are checked synchronously against that key.
// Every failure, including key fetch errors, wraps ErrUnauthorized.
func (v *IdentityVerifier) Verify(ctx context.Context, authHeader string) (Identity, error) {
	raw, err := BearerToken(authHeader)
	if err != nil {
		return Identity{}, err
	}

	kid, err := v.keyID(raw)
	if err != nil {
		return Identity{}, err
	}

	key, err := v.keys.Key(ctx, kid)
	if err != nil {
		return Identity{}, fmt.Errorf("verify token: fetch key %q: %w: %w", kid, ErrUnauthorized, err)
	}

	return v.verifyWithKey(raw, key)
}

func (v *IdentityVerifier) keyID(raw string) (string, error) {
	token, _, err := v.parser.ParseUnverified(raw, &jwt.RegisteredClaims{})
	if err != nil {
		return "", fmt.Errorf("verify token: decode: %w: %w", ErrUnauthorized, err)
	}

	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		return "", fmt.Errorf("verify token: missing kid header: %w", ErrUnauthorized)
	}
	return kid, nil
}

func (v *IdentityVerifier) verifyWithKey(raw string, key crypto.PublicKey) (Identity, error) {
	var claims jwt.RegisteredClaims
	_, err := v.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("verify token: %w: %w", ErrUnauthorized, err)
	}

	if claims.Subject == "" {
		return Identity{}, fmt.Errorf("verify token: missing subject: %w", ErrUnauthorized)
	}

	id := Identity{
		Subject: claims.Subject,
		Issuer:  claims.Issuer,
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

// BearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively.
func BearerToken(authHeader string) (string, error) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", fmt.Errorf("missing authorization header: %w", ErrUnauthorized)
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", fmt.Errorf("invalid authorization scheme: %w", ErrUnauthorized)
	}

	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") || strings.Count(token, ".") != 2 {
		return "", fmt.Errorf("malformed bearer token: %w", ErrUnauthorized)
	}

	return token, nil
}

func isAsymmetricAlgorithm(alg string) bool {
	switch alg {
	case "RS256", "RS384", "RS512", "PS256", "PS384", "PS512", "ES256", "ES384", "ES512":
		return true
	default:
		return false
	}
}
