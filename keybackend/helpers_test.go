package keybackend_test

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"os"
	"path/filepath"
	"testing"

	"github.com/sagarc03/todos/keybackend"
	"github.com/stretchr/testify/require"
)

func newRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func jwksJSON(t *testing.T, keys map[string]*rsa.PublicKey) []byte {
	t.Helper()

	pubs := make(map[string]crypto.PublicKey, len(keys))
	for kid, pub := range keys {
		pubs[kid] = pub
	}

	data, err := keybackend.MarshalJWKS(context.Background(), pubs)
	require.NoError(t, err)
	return data
}

// writeTestFile is a test helper that creates a temporary file with the given content
func writeTestFile(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "jwks.json")

	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)

	return path
}
