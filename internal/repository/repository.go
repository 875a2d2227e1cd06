// Package repository is the gorm-backed persistence layer. Each mutation is a
// single statement, or a single transaction when a staff action must be
// audited together with the change it records.
package repository

import (
	"errors"

	"github.com/amrella/amrella-backend/internal/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// writeActivity appends an audit entry inside tx. A nil entry is a no-op.
func writeActivity(tx *gorm.DB, entry *models.AdminActivityLog) error {
	if entry == nil {
		return nil
	}
	return tx.Create(entry).Error
}
