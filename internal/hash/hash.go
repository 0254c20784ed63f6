package hash

import "golang.org/x/crypto/bcrypt"

// Hasher is the password hashing capability used by the auth service.
// Implementations must never retain or log the plaintext.
type Hasher interface {
	HashPassword(password string) (string, error)
	CheckPassword(hash, password string) bool
}

type Bcrypt struct {
	Cost int
}

func (b Bcrypt) HashPassword(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashbytes), nil
}

// CheckPassword compares against the stored hash, never the plaintext.
func (b Bcrypt) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
