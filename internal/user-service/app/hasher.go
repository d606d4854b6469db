package app

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns a plain password into its stored form.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// BcryptHasher stores passwords as bcrypt hashes. Empty passwords and
// values that already are bcrypt hashes pass through unchanged, so a
// credential read back and saved again keeps its hash.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", nil
	}
	if _, err := bcrypt.Cost([]byte(password)); err == nil {
		return password, nil
	}
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
