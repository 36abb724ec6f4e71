// Package keybackend provides KeySet implementations for bearer token verification.
package keybackend

import (
	"context"
	"crypto"
	"fmt"
	"maps"

	"github.com/sagarc03/todos"
)

// StaticKeySet resolves keys from an in-memory map.
// Suitable for key sets loaded from a file at startup.
type StaticKeySet struct {
	keys map[string]crypto.PublicKey
}

// NewStaticKeySet creates a key set from a key id to public key mapping.
func NewStaticKeySet(keys map[string]crypto.PublicKey) *StaticKeySet {
	return &StaticKeySet{keys: maps.Clone(keys)}
}

// Key returns the key registered under kid.
func (s *StaticKeySet) Key(_ context.Context, kid string) (crypto.PublicKey, error) {
	key, found := s.keys[kid]
	if !found {
		return nil, fmt.Errorf("key %q: %w: %w", kid, ErrKeyNotFound, todos.ErrUnauthorized)
	}
	return key, nil
}

// Len returns the number of keys in the set.
func (s *StaticKeySet) Len() int {
	return len(s.keys)
}
