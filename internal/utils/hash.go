package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain-text password with bcrypt at the given cost.
// The result embeds its own random salt and is safe to persist.
//
// Parameters:
//
//	password - plain-text password to hash
//	cost     - bcrypt cost factor (use bcrypt.DefaultCost when unsure)
//
// Returns:
//
//	string - the bcrypt hash in its standard encoded form
//	error  - non-nil if hashing fails (e.g. cost out of range)
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}

	return string(hashed), nil
}

// VerifyPassword reports whether password matches the given bcrypt hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashToken hashes an opaque token value for at-rest storage.
//
// The token is pre-hashed with SHA-256 before bcrypt: bcrypt silently
// truncates input past 72 bytes, and both refresh tokens (compact JWTs) and
// reset tokens (64 hex chars) can exceed that limit. The hex-encoded digest
// is always 64 bytes, which fits.
//
// Returns the bcrypt hash of the digest, or an error if hashing fails.
func HashToken(token string, cost int) (string, error) {
	digest := tokenDigest(token)

	hashed, err := bcrypt.GenerateFromPassword(digest, cost)
	if err != nil {
		return "", fmt.Errorf("error hashing token: %w", err)
	}

	return string(hashed), nil
}

// VerifyToken reports whether token matches the given stored hash produced
// by [HashToken].
func VerifyToken(token, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), tokenDigest(token)) == nil
}

// tokenDigest returns the hex-encoded SHA-256 digest of token.
func tokenDigest(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return []byte(hex.EncodeToString(sum[:]))
}

// NewRandomHex returns a cryptographically random hex string of 2*n
// characters (n random bytes). Used for reset tokens and encryption salts.
func NewRandomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error generating random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// NewRandomBytes returns n cryptographically random bytes.
func NewRandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("error generating random bytes: %w", err)
	}

	return buf, nil
}
