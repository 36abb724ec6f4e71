package keybackend

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MicahParks/jwkset"

	"github.com/sagarc03/todos"
)

const (
	// DefaultMinRefreshInterval limits how often an unknown kid triggers a refetch.
	DefaultMinRefreshInterval = 5 * time.Minute

	// DefaultFetchTimeout bounds a single JWKS request.
	DefaultFetchTimeout = 10 * time.Second

	maxJWKSSize = 1 << 20
)

// JWKSKeySet resolves keys from a remote JWKS endpoint.
//
// Keys are cached by kid. A lookup for an unknown kid refetches the document,
// at most once per minimum refresh interval after a successful fetch; lookups
// in between fail fast. A failed fetch leaves the cached keys untouched and
// does not start the interval. Fetches are detached from the caller's context
// and bounded by the fetch timeout instead.
// Safe for concurrent use.
type JWKSKeySet struct {
	url          string
	client       *http.Client
	minRefresh   time.Duration
	fetchTimeout time.Duration
	now          func() time.Time

	store *jwkset.MemoryJWKSet

	fetchMu   sync.Mutex
	mu        sync.RWMutex
	lastFetch time.Time
}

// JWKSOption configures a JWKSKeySet.
type JWKSOption func(*JWKSKeySet)

// WithHTTPClient sets the client used to fetch the key set.
func WithHTTPClient(c *http.Client) JWKSOption {
	return func(s *JWKSKeySet) {
		s.client = c
	}
}

// WithMinRefreshInterval sets the minimum time between two successful fetches.
func WithMinRefreshInterval(d time.Duration) JWKSOption {
	return func(s *JWKSKeySet) {
		s.minRefresh = d
	}
}

// WithFetchTimeout bounds a single fetch of the key set.
func WithFetchTimeout(d time.Duration) JWKSOption {
	return func(s *JWKSKeySet) {
		s.fetchTimeout = d
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) JWKSOption {
	return func(s *JWKSKeySet) {
		s.now = now
	}
}

// NewJWKSKeySet creates a key set backed by the JWKS document at url.
// Nothing is fetched until the first lookup.
func NewJWKSKeySet(url string, opts ...JWKSOption) (*JWKSKeySet, error) {
	if url == "" {
		return nil, fmt.Errorf("new jwks key set: url is required")
	}
	if !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "http://") {
		return nil, fmt.Errorf("new jwks key set: url must be http or https: %s", url)
	}

	s := &JWKSKeySet{
		url:          url,
		client:       http.DefaultClient,
		minRefresh:   DefaultMinRefreshInterval,
		fetchTimeout: DefaultFetchTimeout,
		now:          time.Now,
		store:        jwkset.NewMemoryStorage(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.client = limitResponseSize(s.client, maxJWKSSize)

	return s, nil
}

// JWKSURLFromIssuer returns the conventional key set location of an issuer,
// <issuer>/.well-known/jwks.json.
func JWKSURLFromIssuer(issuer string) string {
	return strings.TrimSuffix(issuer, "/") + "/.well-known/jwks.json"
}

// Key returns the key registered under kid, fetching the key set when the kid
// is not cached and the refresh interval allows it.
func (s *JWKSKeySet) Key(ctx context.Context, kid string) (crypto.PublicKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("key %q: %w: %w", kid, todos.ErrUnauthorized, err)
	}

	key, err := s.cached(ctx, kid)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, ErrKeyNotFound) {
		return nil, err
	}

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}

	return s.cached(ctx, kid)
}

func (s *JWKSKeySet) cached(ctx context.Context, kid string) (crypto.PublicKey, error) {
	jwk, err := s.store.KeyRead(ctx, kid)
	if errors.Is(err, jwkset.ErrKeyNotFound) {
		return nil, fmt.Errorf("key %q: %w: %w", kid, ErrKeyNotFound, todos.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("key %q: %w: %w", kid, todos.ErrUnauthorized, err)
	}

	key, err := signingKey(jwk)
	if errors.Is(err, errUnsupportedKey) {
		return nil, fmt.Errorf("key %q: %w: %w", kid, ErrKeyNotFound, todos.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("key %q: %w: %w", kid, todos.ErrUnauthorized, err)
	}
	return key, nil
}

// refresh fetches the document unless a successful fetch happened within the
// minimum refresh interval. Concurrent callers wait on a single fetch.
func (s *JWKSKeySet) refresh(ctx context.Context) error {
	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	s.mu.RLock()
	last := s.lastFetch
	s.mu.RUnlock()

	if !last.IsZero() && s.now().Sub(last) < s.minRefresh {
		return nil
	}

	// KeyReplaceAll on the shared store only runs once the whole document has
	// been fetched and decoded, so a failed fetch keeps the previous keys.
	_, err := jwkset.NewStorageFromHTTP(s.url, jwkset.HTTPClientStorageOptions{
		Client:      s.client,
		Ctx:         context.WithoutCancel(ctx),
		HTTPTimeout: s.fetchTimeout,
		Storage:     s.store,
	})
	if err != nil {
		slog.WarnContext(ctx, "jwks fetch failed", "url", s.url, "error", err)
		return fmt.Errorf("refresh key set: %w: %w", todos.ErrUnauthorized, err)
	}

	s.mu.Lock()
	s.lastFetch = s.now()
	s.mu.Unlock()

	slog.DebugContext(ctx, "jwks refreshed", "url", s.url)
	return nil
}

// limitResponseSize returns a copy of c whose response bodies stop after n bytes.
func limitResponseSize(c *http.Client, n int64) *http.Client {
	limited := *c
	base := c.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	limited.Transport = limitedTransport{base: base, n: n}
	return &limited
}

type limitedTransport struct {
	base http.RoundTripper
	n    int64
}

func (t limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	resp.Body = limitedBody{Reader: io.LimitReader(resp.Body, t.n), Closer: resp.Body}
	return resp, nil
}

type limitedBody struct {
	io.Reader
	io.Closer
}
