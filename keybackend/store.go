package keybackend

import (
	"errors"
	"time"

	"github.com/sagarc03/todos"
)

// KeysConfig holds configuration for loading token verification keys.
type KeysConfig struct {
	JWKSURL            string        `mapstructure:"jwks_url"`             // Remote JWKS document
	File               string        `mapstructure:"file"`                 // Path to a JWKS JSON file
	MinRefreshInterval time.Duration `mapstructure:"min_refresh_interval"` // Minimum time between remote fetches
	FetchTimeout       time.Duration `mapstructure:"fetch_timeout"`        // Timeout of a single remote fetch
}

// NewKeySet creates a KeySet from the given configuration.
// A configured file takes precedence over a remote JWKS URL.
func NewKeySet(cfg KeysConfig) (todos.KeySet, error) {
	if cfg.File != "" {
		keys, err := LoadKeySetFromFile(cfg.File)
		if err != nil {
			return nil, err
		}
		if len(keys) == 0 {
			return nil, errors.New("new key set: key set file contains no signing keys")
		}
		return NewStaticKeySet(keys), nil
	}

	if cfg.JWKSURL == "" {
		return nil, errors.New("new key set: jwks_url or file is required")
	}

	var opts []JWKSOption
	if cfg.MinRefreshInterval > 0 {
		opts = append(opts, WithMinRefreshInterval(cfg.MinRefreshInterval))
	}
	if cfg.FetchTimeout > 0 {
		opts = append(opts, WithFetchTimeout(cfg.FetchTimeout))
	}

	keySet, err := NewJWKSKeySet(cfg.JWKSURL, opts...)
	if err != nil {
		return nil, err
	}
	return keySet, nil
}
