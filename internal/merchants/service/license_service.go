// Package service provides license key generation and verification for
// merchant accounts, using secure random keys and Argon2id hashing.
package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/orderdesk/etransfer/internal/errors"
)

// LicenseService generates and verifies merchant license keys.
type LicenseService interface {
	// GenerateKey creates a new license key, returning the plaintext (shown
	// to the merchant exactly once) and its hash (the only stored form).
	GenerateKey() (plainKey string, hashedKey string, err error)

	// VerifyKey performs a constant-time comparison of a presented key
	// against the stored hash.
	VerifyKey(plainKey, hashedKey string) bool
}

// licenseService implements LicenseService using Argon2id hashing.
type licenseService struct {
	hasher *pwdhash.PasswordHasher
}

// NewLicenseService creates a new LicenseService instance.
// Uses the Moderate policy for a balance between security and performance.
func NewLicenseService() LicenseService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &licenseService{hasher: hasher}
}

// GenerateKey creates a cryptographically secure 32-byte random license key.
func (s *licenseService) GenerateKey() (string, string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate license key")
	}

	plainKey := base64.URLEncoding.EncodeToString(randomBytes)
	hashedKey, err := s.hasher.Hash([]byte(plainKey))
	if err != nil {
		return "", "", apperrors.Wrap(err, "failed to hash license key")
	}
	return plainKey, hashedKey, nil
}

// VerifyKey reports whether the plain key matches the stored hash.
func (s *licenseService) VerifyKey(plainKey, hashedKey string) bool {
	ok, err := s.hasher.Verify([]byte(plainKey), hashedKey)
	if err != nil {
		return false
	}
	return ok
}
