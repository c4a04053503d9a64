package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher turns plaintext credentials into stored hashes and
// verifies login attempts against them.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

// BcryptHasher is the bcrypt-backed PasswordHasher.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher builds a hasher with the given bcrypt cost. Costs
// outside the valid bcrypt range fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	return string(hashed), err
}

func (h *BcryptHasher) Compare(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
