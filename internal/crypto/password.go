package crypto

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const DefaultBcryptCost = 10

type passwordHasher struct {
	cost int
}

// NewPasswordHasher returns a bcrypt hasher. A cost of 0 selects DefaultBcryptCost.
func NewPasswordHasher(cost int) *passwordHasher {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	return &passwordHasher{cost: cost}
}

func (p *passwordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare reports whether password matches hash. A malformed hash is an error;
// a plain mismatch is not.
func (p *passwordHasher) Compare(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
