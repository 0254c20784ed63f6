package repo

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrConflict means a unique field (username or email) is already taken.
	ErrConflict = errors.New("user already exists")
	// ErrNotFound covers both a missing record and a record owned by someone
	// else. The two cases are indistinguishable on purpose.
	ErrNotFound = errors.New("record not found")
)

type Repo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Repo {
	return &Repo{DB: db}
}

// ownedBy conjoins every query it scopes with the caller's identity, so a
// resource id alone can never locate a record.
func ownedBy(ownerID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", ownerID)
	}
}
