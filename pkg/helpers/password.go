package helpers

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for new hashes. Tests lower it to
// bcrypt.MinCost.
var BcryptCost = bcrypt.DefaultCost

// ErrPasswordTooLong is returned for passwords bcrypt would silently truncate.
var ErrPasswordTooLong = errors.New("password must be at most 72 bytes")

// HashPassword hashes the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	if len(plain) > 72 {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword reports whether plain matches the bcrypt hash.
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
