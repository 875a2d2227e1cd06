package repository

import (
	"context"
	"time"

	"github.com/amrella/amrella-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *ReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &report, nil
}

// List returns reports newest first with reporter, reported user and the
// reported content preloaded.
func (r *ReportRepository) List(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, int64, error) {
	filter := WithEqual("status", string(status))

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Report{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []models.Report
	err := r.db.WithContext(ctx).
		Scopes(filter, Paginate(limit, offset)).
		Preload("Reporter").
		Preload("ReportedUser").
		Preload("ReportedPost").
		Preload("ReportedComment").
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// Transition moves a report to status `to` only if it is currently in one of
// `from`, recording the reviewer and the audit entry in one transaction.
// It reports false when no row matched.
func (r *ReportRepository) Transition(ctx context.Context, id uuid.UUID, from []models.ReportStatus, to models.ReportStatus, reviewer uuid.UUID, entry *models.AdminActivityLog) (bool, error) {
	prior := make([]string, len(from))
	for i, s := range from {
		prior[i] = string(s)
	}

	updated := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Report{}).
			Scopes(InStatus(id, prior)).
			Updates(map[string]interface{}{
				"status":      string(to),
				"reviewed_by": reviewer,
				"updated_at":  time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		updated = true
		return writeActivity(tx, entry)
	})
	if err != nil {
		return false, err
	}
	return updated, nil
}
