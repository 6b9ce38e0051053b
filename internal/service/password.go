package service

import (
	"unicode"

	"github.com/aurora-digital/identity/internal/constants"
	apperrors "github.com/aurora-digital/identity/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

// dummyPasswordHash is a well-formed cost-12 hash that matches nothing.
// Comparing against it keeps the unknown-email login path as slow as the
// wrong-password path, so response timing does not reveal which accounts
// exist.
const dummyPasswordHash = "$2a$12$C6UzMDM.H6dfI/f/IKcEeOu5LyQ1xGCkqwl6AXBlYNNPs9nRUKGq2"

// ValidatePassword enforces the password policy independently of request
// binding, so the rule holds for every caller of the service layer.
func ValidatePassword(password string) error {
	if len(password) < constants.MinPasswordLength {
		return apperrors.ErrWeakPassword
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return apperrors.ErrWeakPassword
	}
	return nil
}

// hashPassword hashes with bcrypt at the configured cost. Input is
// truncated to bcrypt's 72-byte limit first so that what we store and
// what we later compare agree on the effective password.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncateForBcrypt(password), constants.BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// checkPassword reports whether the password matches the stored hash.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncateForBcrypt(password)) == nil
}

func truncateForBcrypt(password string) []byte {
	b := []byte(password)
	if len(b) > constants.BcryptMaxPasswordBytes {
		b = b[:constants.BcryptMaxPasswordBytes]
	}
	return b
}
