package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher is the one-way hashing collaborator used by the admin
// directory. Matches must be constant-time.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Matches(plaintext, hash string) bool
	LooksHashed(value string) bool
}

type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{Cost: bcrypt.DefaultCost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	out, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (h *BcryptHasher) Matches(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// LooksHashed reports whether a value already carries a bcrypt prefix. Admin
// creation flows may receive pre-hashed passwords; hashing those again would
// lock the account out.
func (h *BcryptHasher) LooksHashed(value string) bool {
	return strings.HasPrefix(value, "$2a$") ||
		strings.HasPrefix(value, "$2b$") ||
		strings.HasPrefix(value, "$2y$")
}

var _ PasswordHasher = (*BcryptHasher)(nil)
