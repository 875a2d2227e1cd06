package repository

import (
	"context"
	"fmt"

	"github.com/amrella/amrella-backend/internal/models"
	"gorm.io/gorm"
)

// PlatformCounts are the back-office dashboard figures.
type PlatformCounts struct {
	TotalUsers     int64 `json:"total_users"`
	TotalPosts     int64 `json:"total_posts"`
	TotalGroups    int64 `json:"total_groups"`
	TotalTickets   int64 `json:"total_tickets"`
	PendingReports int64 `json:"pending_reports"`
	VerifiedUsers  int64 `json:"verified_users"`
}

type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) Counts(ctx context.Context) (PlatformCounts, error) {
	var counts PlatformCounts
	queries := []struct {
		name  string
		model interface{}
		scope Scope
		dest  *int64
	}{
		{"profiles", &models.Profile{}, nil, &counts.TotalUsers},
		{"posts", &models.Post{}, nil, &counts.TotalPosts},
		{"groups", &models.Group{}, nil, &counts.TotalGroups},
		{"support_tickets", &models.SupportTicket{}, nil, &counts.TotalTickets},
		{"pending reports", &models.Report{}, WithEqual("status", string(models.ReportPending)), &counts.PendingReports},
		{"verified profiles", &models.Profile{}, func(db *gorm.DB) *gorm.DB { return db.Where("is_verified = ?", true) }, &counts.VerifiedUsers},
	}

	for _, q := range queries {
		tx := r.db.WithContext(ctx).Model(q.model)
		if q.scope != nil {
			tx = tx.Scopes(q.scope)
		}
		if err := tx.Count(q.dest).Error; err != nil {
			return PlatformCounts{}, fmt.Errorf("count %s: %w", q.name, err)
		}
	}
	return counts, nil
}
