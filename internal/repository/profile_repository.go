package repository

import (
	"context"

	"github.com/amrella/amrella-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserFilter drives the back-office user listing.
type UserFilter struct {
	Search string
	Role   string
	Limit  int
	Offset int
}

func (f UserFilter) Scope() Scope {
	return func(db *gorm.DB) *gorm.DB {
		if f.Search != "" {
			pattern := "%" + f.Search + "%"
			db = db.Where("full_name ILIKE ? OR email ILIKE ?", pattern, pattern)
		}
		return WithEqual("role", f.Role)(db)
	}
}

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *ProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (r *ProfileRepository) List(ctx context.Context, filter UserFilter) ([]models.Profile, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Profile{}).Scopes(filter.Scope()).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []models.Profile
	err := r.db.WithContext(ctx).
		Scopes(filter.Scope(), Paginate(filter.Limit, filter.Offset)).
		Order("created_at DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// Update writes changes and the audit entry in one transaction and returns
// the stored row.
func (r *ProfileRepository) Update(ctx context.Context, id uuid.UUID, changes map[string]interface{}, entry *models.AdminActivityLog) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Profile{}).Where("id = ?", id).Updates(changes)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := writeActivity(tx, entry); err != nil {
			return err
		}
		return tx.First(&profile, "id = ?", id).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}
