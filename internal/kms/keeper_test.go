package kms

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/secrets"
)

// localKeeperURI generates a base64key:// URI for testing.
func localKeeperURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestOpenKeeper(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_LocalSecrets", func(t *testing.T) {
		keeper, err := OpenKeeper(ctx, localKeeperURI(t))
		require.NoError(t, err)
		require.NotNil(t, keeper)
		assert.NoError(t, keeper.Close())
	})

	t.Run("Error_InvalidURI", func(t *testing.T) {
		keeper, err := OpenKeeper(ctx, "invalid://uri")
		assert.Error(t, err)
		assert.Nil(t, keeper)
		assert.Contains(t, err.Error(), "failed to open KMS keeper")
	})
}

func TestKeeper_DecryptBase64(t *testing.T) {
	ctx := context.Background()
	keyURI := localKeeperURI(t)

	keeper, err := OpenKeeper(ctx, keyURI)
	require.NoError(t, err)
	defer keeper.Close()

	rawKeeper, err := secrets.OpenKeeper(ctx, keyURI)
	require.NoError(t, err)
	defer rawKeeper.Close()

	t.Run("Success", func(t *testing.T) {
		ciphertext, err := rawKeeper.Encrypt(ctx, []byte("imap-password"))
		require.NoError(t, err)

		plaintext, err := keeper.DecryptBase64(ctx, base64.StdEncoding.EncodeToString(ciphertext))
		require.NoError(t, err)
		assert.Equal(t, "imap-password", plaintext)
	})

	t.Run("Error_NotBase64", func(t *testing.T) {
		_, err := keeper.DecryptBase64(ctx, "!!! not base64 !!!")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode ciphertext")
	})

	t.Run("Error_WrongKey", func(t *testing.T) {
		otherKeeper, err := OpenKeeper(ctx, localKeeperURI(t))
		require.NoError(t, err)
		defer otherKeeper.Close()

		ciphertext, err := rawKeeper.Encrypt(ctx, []byte("imap-password"))
		require.NoError(t, err)

		_, err = otherKeeper.DecryptBase64(ctx, base64.StdEncoding.EncodeToString(ciphertext))
		assert.Error(t, err)
	})
}
