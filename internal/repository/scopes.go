package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope is a reusable gorm query fragment.
type Scope = func(db *gorm.DB) *gorm.DB

// ForOwner restricts rows to those owned by userID.
func ForOwner(userID uuid.UUID) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// WithEqual adds column = value when value is non-empty.
func WithEqual(column, value string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if value == "" {
			return db
		}
		return db.Where(column+" = ?", value)
	}
}

// Paginate applies limit/offset when limit is positive.
func Paginate(limit, offset int) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if limit > 0 {
			db = db.Limit(limit)
		}
		if offset > 0 {
			db = db.Offset(offset)
		}
		return db
	}
}

// InStatus is the conditional part of a guarded state transition.
func InStatus(id uuid.UUID, statuses []string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ? AND status IN ?", id, statuses)
	}
}
