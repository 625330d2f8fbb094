package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// GenerateResetToken returns a high-entropy one-time secret for the password
// reset flow. The raw value goes to the user out-of-band; only its sha256
// hash is ever persisted.
func GenerateResetToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashResetToken maps a raw reset secret to its stored form. Issuance and
// consumption both go through this function so the lookup matches.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
