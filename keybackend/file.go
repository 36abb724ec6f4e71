package keybackend

import (
	"crypto"
	"fmt"
	"os"
)

// LoadKeySetFromFile loads verification keys from a JWKS JSON file:
//
//	{
//	  "keys": [
//	    {"kty": "RSA", "kid": "key-1", "use": "sig", "n": "...", "e": "AQAB"}
//	  ]
//	}
//
// Returns a map of key id to public key.
func LoadKeySetFromFile(path string) (map[string]crypto.PublicKey, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is from trusted config file
	if err != nil {
		return nil, fmt.Errorf("read key set file: %w", err)
	}

	keys, err := ParseJWKS(data)
	if err != nil {
		return nil, fmt.Errorf("parse key set file: %w", err)
	}

	return keys, nil
}
