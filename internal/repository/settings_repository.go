package repository

import (
	"context"
	"errors"

	"github.com/amrella/amrella-backend/internal/models"
	"gorm.io/gorm"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) List(ctx context.Context) ([]models.PlatformSetting, error) {
	var settings []models.PlatformSetting
	err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error
	return settings, err
}

// Upsert creates or overwrites the key, auditing the change.
func (r *SettingsRepository) Upsert(ctx context.Context, setting *models.PlatformSetting, entry *models.AdminActivityLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.PlatformSetting
		err := tx.Where("key = ?", setting.Key).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(setting).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			existing.Value = setting.Value
			existing.Type = setting.Type
			existing.UpdatedBy = setting.UpdatedBy
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			*setting = existing
		}
		return writeActivity(tx, entry)
	})
}

// Delete removes the key. It reports false when the key did not exist.
func (r *SettingsRepository) Delete(ctx context.Context, key string, entry *models.AdminActivityLog) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("key = ?", key).Delete(&models.PlatformSetting{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return writeActivity(tx, entry)
	})
	return deleted, err
}

// CreateIfMissing inserts the setting unless the key already exists.
func (r *SettingsRepository) CreateIfMissing(ctx context.Context, setting *models.PlatformSetting) error {
	var existing models.PlatformSetting
	err := r.db.WithContext(ctx).Where("key = ?", setting.Key).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(setting).Error
}
