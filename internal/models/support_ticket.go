package models

import (
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketResolved, TicketClosed:
		return true
	}
	return false
}

type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
	PriorityUrgent TicketPriority = "urgent"
)

func (p TicketPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Suggested ticket categories. The column is free-form.
const (
	CategoryTechnical = "technical"
	CategoryBilling   = "billing"
	CategoryAccount   = "account"
	CategoryContent   = "content"
	CategoryOther     = "other"
)

type SupportTicket struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"size:50;index" json:"category"`
	Priority    TicketPriority `gorm:"size:20;not null;default:'medium'" json:"priority"`
	Status      TicketStatus   `gorm:"size:20;not null;default:'open';index" json:"status"`
	AssignedTo  *uuid.UUID     `gorm:"type:uuid;index" json:"assigned_to"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	User          *Profile `gorm:"foreignKey:UserID" json:"-"`
	AssignedAdmin *Profile `gorm:"foreignKey:AssignedTo" json:"-"`
}

func (SupportTicket) TableName() string {
	return "support_tickets"
}

// TicketMessage is an append-only reply on a ticket thread. Internal
// messages are staff notes and must not be shown to the ticket owner.
type TicketMessage struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TicketID   uuid.UUID `gorm:"type:uuid;not null;index:idx_ticket_messages_thread,priority:1" json:"ticket_id"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	IsInternal bool      `gorm:"not null;default:false" json:"is_internal"`
	CreatedAt  time.Time `gorm:"index:idx_ticket_messages_thread,priority:2" json:"created_at"`

	Sender *Profile `gorm:"foreignKey:SenderID" json:"-"`
}

func (TicketMessage) TableName() string {
	return "support_ticket_messages"
}
