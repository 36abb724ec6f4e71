package keybackend

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/MicahParks/jwkset"
)

// minRSABits is the smallest RSA modulus accepted from a key set.
const minRSABits = 2048

var errUnsupportedKey = errors.New("unsupported key")

// ParseJWKS decodes a JWKS document into a map of key id to public key.
// Keys without a kid, keys not meant for signatures (use != "sig") and keys
// of unsupported types are skipped; malformed supported keys are an error.
func ParseJWKS(data []byte) (map[string]crypto.PublicKey, error) {
	var set jwkset.JWKSMarshal
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse jwks: %w", err)
	}

	jwks := make([]jwkset.JWK, 0, len(set.Keys))
	for _, m := range set.Keys {
		if m.KTY == jwkset.KtyOct {
			continue
		}

		jwk, err := jwkset.NewJWKFromMarshal(m, jwkset.JWKMarshalOptions{}, jwkset.JWKValidateOptions{})
		if errors.Is(err, jwkset.ErrUnsupportedKey) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("parse jwks: key %q: %w", m.KID, err)
		}
		jwks = append(jwks, jwk)
	}

	keys, err := signingKeys(jwks)
	if err != nil {
		return nil, fmt.Errorf("parse jwks: %w", err)
	}
	return keys, nil
}

// MarshalJWKS encodes public keys as a JWKS document of signing keys.
func MarshalJWKS(ctx context.Context, keys map[string]crypto.PublicKey) (json.RawMessage, error) {
	store := jwkset.NewMemoryStorage()

	kids := make([]string, 0, len(keys))
	for kid := range keys {
		kids = append(kids, kid)
	}
	slices.Sort(kids)

	for _, kid := range kids {
		jwk, err := jwkset.NewJWKFromKey(keys[kid], jwkset.JWKOptions{
			Metadata: jwkset.JWKMetadataOptions{KID: kid, USE: jwkset.UseSig},
		})
		if err != nil {
			return nil, fmt.Errorf("marshal jwks: key %q: %w", kid, err)
		}
		if err := store.KeyWrite(ctx, jwk); err != nil {
			return nil, fmt.Errorf("marshal jwks: %w", err)
		}
	}

	return store.JSONPublic(ctx)
}

func signingKeys(jwks []jwkset.JWK) (map[string]crypto.PublicKey, error) {
	keys := make(map[string]crypto.PublicKey, len(jwks))
	for _, jwk := range jwks {
		pub, err := signingKey(jwk)
		if errors.Is(err, errUnsupportedKey) {
			continue
		}
		if err != nil {
			return nil, err
		}
		keys[jwk.Marshal().KID] = pub
	}
	return keys, nil
}

// signingKey returns the public half of a JWK usable for token verification.
// Keys without a kid or marked for encryption report errUnsupportedKey.
func signingKey(jwk jwkset.JWK) (crypto.PublicKey, error) {
	m := jwk.Marshal()
	if m.KID == "" || (m.USE != "" && m.USE != jwkset.UseSig) {
		return nil, errUnsupportedKey
	}

	switch k := jwk.Key().(type) {
	case *rsa.PublicKey:
		return checkRSA(m.KID, k)
	case *rsa.PrivateKey:
		return checkRSA(m.KID, &k.PublicKey)
	case *ecdsa.PublicKey:
		return k, nil
	case *ecdsa.PrivateKey:
		return &k.PublicKey, nil
	default:
		return nil, fmt.Errorf("jwk %s: %w: %T", m.KID, errUnsupportedKey, k)
	}
}

func checkRSA(kid string, pub *rsa.PublicKey) (*rsa.PublicKey, error) {
	if pub.N.BitLen() < minRSABits {
		return nil, fmt.Errorf("jwk %s: rsa modulus too small: %d bits", kid, pub.N.BitLen())
	}
	if pub.E < 3 || pub.E > 1<<31-1 {
		return nil, fmt.Errorf("jwk %s: invalid rsa exponent", kid)
	}
	return pub, nil
}
