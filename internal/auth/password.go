package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/ngo-case-service/internal/config"
)

// ErrPasswordMismatch is returned when a login password does not match.
var ErrPasswordMismatch = errors.New("password mismatch")

// PasswordChecker compares a login password with the stored credential.
type PasswordChecker struct {
	mode string
}

// NewPasswordChecker returns a checker for the configured mode.
//
// The plaintext mode compares stored values as-is, which is how existing
// worker rows are stored. bcrypt is opt-in and requires migrated rows.
func NewPasswordChecker(mode string) *PasswordChecker {
	if mode != config.PasswordModeBcrypt {
		mode = config.PasswordModePlaintext
	}
	return &PasswordChecker{mode: mode}
}

// Mode reports the active comparison mode.
func (p *PasswordChecker) Mode() string {
	return p.mode
}

// Compare returns nil when plain matches stored.
func (p *PasswordChecker) Compare(stored, plain string) error {
	if p.mode == config.PasswordModeBcrypt {
		if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)); err != nil {
			return ErrPasswordMismatch
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
