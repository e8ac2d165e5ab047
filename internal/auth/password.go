package auth

import (
	"errors"
	"fmt"

	userdomain "dues-app-go/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

// BcryptHasher satisfies the user service's PasswordHasher.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", userdomain.ErrWeakPassword
	}
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (h BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return userdomain.ErrInvalidCredentials
	}
	return err
}

func HashPassword(password string) (string, error) {
	return BcryptHasher{}.Hash(password)
}

func CheckPassword(hash, password string) bool {
	return BcryptHasher{}.Compare(hash, password) == nil
}
