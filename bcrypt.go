package procure

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a password hash with a fresh random salt.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext password matches
// the hashed password. A hash of unrecognized format reports a mismatch
// instead of failing the auth flow.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		if errors.Is(err, bcrypt.ErrHashTooShort) {
			return ErrMismatchedHashAndPassword
		}
		var versionErr bcrypt.HashVersionTooNewError
		if errors.As(err, &versionErr) {
			return ErrMismatchedHashAndPassword
		}
		var prefixErr bcrypt.InvalidHashPrefixError
		if errors.As(err, &prefixErr) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}
