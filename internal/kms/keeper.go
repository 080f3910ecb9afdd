// Package kms decrypts KMS-encrypted configuration secrets (IMAP and
// storefront credentials) using gocloud.dev/secrets keepers.
package kms

import (
	"context"
	"encoding/base64"

	"gocloud.dev/secrets"

	"github.com/orderdesk/etransfer/internal/errors"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// Keeper decrypts base64-encoded ciphertexts.
type Keeper interface {
	DecryptBase64(ctx context.Context, ciphertext string) (string, error)
	Close() error
}

// kmsKeeper implements Keeper using gocloud.dev/secrets.
type kmsKeeper struct {
	keeper *secrets.Keeper
}

// OpenKeeper opens a keeper for the given key URI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func OpenKeeper(ctx context.Context, keyURI string) (Keeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open KMS keeper")
	}
	return &kmsKeeper{keeper: keeper}, nil
}

// DecryptBase64 decodes the standard-base64 ciphertext and decrypts it,
// returning the plaintext as a string. This is the format credentials are
// stored in under the *_ENCRYPTED environment variables.
func (k *kmsKeeper) DecryptBase64(ctx context.Context, ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", errors.Wrap(err, "failed to decode ciphertext")
	}
	plaintext, err := k.keeper.Decrypt(ctx, raw)
	if err != nil {
		return "", errors.Wrap(err, "failed to decrypt ciphertext")
	}
	return string(plaintext), nil
}

// Close releases the keeper.
func (k *kmsKeeper) Close() error {
	return k.keeper.Close()
}
