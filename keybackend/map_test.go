package keybackend_test

import (
	"context"
	"crypto"
	"testing"

	"github.com/sagarc03/todos"
	"github.com/sagarc03/todos/keybackend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticKeySet_Key(t *testing.T) {
	t.Parallel()

	priv := newRSAKey(t)
	set := keybackend.NewStaticKeySet(map[string]crypto.PublicKey{"k1": &priv.PublicKey})

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		key, err := set.Key(context.Background(), "k1")
		require.NoError(t, err)
		assert.Equal(t, &priv.PublicKey, key)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		_, err := set.Key(context.Background(), "other")
		require.Error(t, err)
		assert.ErrorIs(t, err, keybackend.ErrKeyNotFound)
		assert.ErrorIs(t, err, todos.ErrUnauthorized)
	})
}

func TestStaticKeySet_CopiesInput(t *testing.T) {
	t.Parallel()

	priv := newRSAKey(t)
	keys := map[string]crypto.PublicKey{"k1": &priv.PublicKey}
	set := keybackend.NewStaticKeySet(keys)

	delete(keys, "k1")

	assert.Equal(t, 1, set.Len())
}
