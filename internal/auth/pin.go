package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPINLength = 4
	maxPINLength = 12
)

// ValidatePIN checks that a raw PIN is a non-empty string of digits within
// the accepted length range.
func ValidatePIN(pin string) error {
	if len(pin) < minPINLength || len(pin) > maxPINLength {
		return fmt.Errorf("pin must be %d to %d digits", minPINLength, maxPINLength)
	}
	for _, r := range pin {
		// ASCII digits only; PIN pads have no other keys.
		if r < '0' || r > '9' {
			return fmt.Errorf("pin must contain only digits")
		}
	}
	return nil
}

// HashPIN returns the bcrypt hash of a raw PIN.
func HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}
	return string(hash), nil
}

// VerifyPIN reports whether the raw PIN matches the stored bcrypt hash.
func VerifyPIN(hash, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}

// PINLookupKey computes the SHA-256 hex digest of a raw PIN. Login is by PIN
// alone, so the store needs a deterministic key to find the candidate user;
// the bcrypt hash is still what authenticates. The same key backs the
// uniqueness check at account creation.
func PINLookupKey(pin string) string {
	h := sha256.Sum256([]byte(pin))
	return hex.EncodeToString(h[:])
}
