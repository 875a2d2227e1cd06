package services

import (
	"context"

	"github.com/amrella/amrella-backend/internal/models"
	"github.com/amrella/amrella-backend/internal/repository"
	"github.com/google/uuid"
)

// Stores are satisfied by the gorm repositories and by the in-memory fakes
// in servicetest.

type ReportStore interface {
	Create(ctx context.Context, report *models.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	List(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, int64, error)
	Transition(ctx context.Context, id uuid.UUID, from []models.ReportStatus, to models.ReportStatus, reviewer uuid.UUID, entry *models.AdminActivityLog) (bool, error)
}

type TicketStore interface {
	Create(ctx context.Context, ticket *models.SupportTicket) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error)
	List(ctx context.Context, filter repository.TicketFilter) ([]models.SupportTicket, int64, error)
	Update(ctx context.Context, id uuid.UUID, changes map[string]interface{}, entry *models.AdminActivityLog) error
	CreateMessage(ctx context.Context, msg *models.TicketMessage) error
	ListMessages(ctx context.Context, ticketID uuid.UUID) ([]models.TicketMessage, error)
}

type ProfileStore interface {
	Create(ctx context.Context, profile *models.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	List(ctx context.Context, filter repository.UserFilter) ([]models.Profile, int64, error)
	Update(ctx context.Context, id uuid.UUID, changes map[string]interface{}, entry *models.AdminActivityLog) (*models.Profile, error)
}

type TokenStore interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	FindActive(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, tokenHash string) error
}

type SettingsStore interface {
	List(ctx context.Context) ([]models.PlatformSetting, error)
	Upsert(ctx context.Context, setting *models.PlatformSetting, entry *models.AdminActivityLog) error
	Delete(ctx context.Context, key string, entry *models.AdminActivityLog) (bool, error)
	CreateIfMissing(ctx context.Context, setting *models.PlatformSetting) error
}

type StatsStore interface {
	Counts(ctx context.Context) (repository.PlatformCounts, error)
}

var (
	_ ReportStore   = (*repository.ReportRepository)(nil)
	_ TicketStore   = (*repository.TicketRepository)(nil)
	_ ProfileStore  = (*repository.ProfileRepository)(nil)
	_ TokenStore    = (*repository.TokenRepository)(nil)
	_ SettingsStore = (*repository.SettingsRepository)(nil)
	_ StatsStore    = (*repository.StatsRepository)(nil)
)
