package repository

import (
	"context"

	"github.com/amrella/amrella-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TicketFilter narrows a ticket listing. A nil OwnerID lists every owner.
type TicketFilter struct {
	OwnerID  *uuid.UUID
	Status   string
	Category string
	Limit    int
	Offset   int
}

// Scope applies owner scoping first, then the optional filters.
func (f TicketFilter) Scope() Scope {
	return func(db *gorm.DB) *gorm.DB {
		if f.OwnerID != nil {
			db = ForOwner(*f.OwnerID)(db)
		}
		db = WithEqual("status", f.Status)(db)
		return WithEqual("category", f.Category)(db)
	}
}

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ctx context.Context, ticket *models.SupportTicket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *TicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("AssignedAdmin").
		First(&ticket, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &ticket, nil
}

func (r *TicketRepository) List(ctx context.Context, filter TicketFilter) ([]models.SupportTicket, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.SupportTicket{}).Scopes(filter.Scope()).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tickets []models.SupportTicket
	err := r.db.WithContext(ctx).
		Scopes(filter.Scope(), Paginate(filter.Limit, filter.Offset)).
		Preload("User").
		Preload("AssignedAdmin").
		Order("created_at DESC").
		Find(&tickets).Error
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

// Update applies changes and the optional audit entry atomically.
func (r *TicketRepository) Update(ctx context.Context, id uuid.UUID, changes map[string]interface{}, entry *models.AdminActivityLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.SupportTicket{}).Where("id = ?", id).Updates(changes)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return writeActivity(tx, entry)
	})
}

func (r *TicketRepository) CreateMessage(ctx context.Context, msg *models.TicketMessage) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Preload("Sender").First(msg, "id = ?", msg.ID).Error
}

// ListMessages returns the whole thread, internal notes included, oldest first.
func (r *TicketRepository) ListMessages(ctx context.Context, ticketID uuid.UUID) ([]models.TicketMessage, error) {
	var messages []models.TicketMessage
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Preload("Sender").
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}
