package dto

import (
	"time"

	"github.com/amrella/amrella-backend/internal/models"
	"github.com/google/uuid"
)

type CreateTicketRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=10000"`
	Category    string `json:"category" validate:"max=50"`
	Priority    string `json:"priority" validate:"omitempty,ticket_priority"`
}

// UpdateTicketRequest carries optional changes. Title and description are
// owner edits; status, priority and assignment are staff edits.
type UpdateTicketRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=10000"`
	Status      *string    `json:"status" validate:"omitempty,ticket_status"`
	Priority    *string    `json:"priority" validate:"omitempty,ticket_priority"`
	AssignedTo  *uuid.UUID `json:"assignedTo"`
	Unassign    bool       `json:"unassign"`
}

func (r *UpdateTicketRequest) HasOwnerChanges() bool {
	return r.Title != nil || r.Description != nil
}

func (r *UpdateTicketRequest) HasStaffChanges() bool {
	return r.Status != nil || r.Priority != nil || r.AssignedTo != nil || r.Unassign
}

type PostMessageRequest struct {
	Message    string `json:"message" validate:"required,max=5000"`
	IsInternal bool   `json:"isInternal"`
}

type TicketOwner struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
	Email     string `json:"email"`
}

type TicketResponse struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Priority      string          `json:"priority"`
	Status        string          `json:"status"`
	AssignedTo    *uuid.UUID      `json:"assigned_to"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	User          *TicketOwner    `json:"user,omitempty"`
	AssignedAdmin *ProfileSummary `json:"assigned_admin,omitempty"`
}

func NewTicketResponse(t models.SupportTicket) TicketResponse {
	resp := TicketResponse{
		ID:            t.ID,
		UserID:        t.UserID,
		Title:         t.Title,
		Description:   t.Description,
		Category:      t.Category,
		Priority:      string(t.Priority),
		Status:        string(t.Status),
		AssignedTo:    t.AssignedTo,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		AssignedAdmin: summarize(t.AssignedAdmin),
	}
	if t.User != nil {
		resp.User = &TicketOwner{FullName: t.User.FullName, AvatarURL: t.User.AvatarURL, Email: t.User.Email}
	}
	return resp
}

func NewTicketResponses(tickets []models.SupportTicket) []TicketResponse {
	out := make([]TicketResponse, len(tickets))
	for i, t := range tickets {
		out[i] = NewTicketResponse(t)
	}
	return out
}

type MessageSender struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
	Role      string `json:"role"`
}

type TicketMessageResponse struct {
	ID         uuid.UUID      `json:"id"`
	TicketID   uuid.UUID      `json:"ticket_id"`
	SenderID   uuid.UUID      `json:"sender_id"`
	Message    string         `json:"message"`
	IsInternal bool           `json:"is_internal"`
	CreatedAt  time.Time      `json:"created_at"`
	Sender     *MessageSender `json:"sender,omitempty"`
}

func NewTicketMessageResponse(m models.TicketMessage) TicketMessageResponse {
	resp := TicketMessageResponse{
		ID:         m.ID,
		TicketID:   m.TicketID,
		SenderID:   m.SenderID,
		Message:    m.Message,
		IsInternal: m.IsInternal,
		CreatedAt:  m.CreatedAt,
	}
	if m.Sender != nil {
		resp.Sender = &MessageSender{FullName: m.Sender.FullName, AvatarURL: m.Sender.AvatarURL, Role: string(m.Sender.Role)}
	}
	return resp
}

// NewTicketMessageResponses keeps thread order. Internal notes are dropped
// unless includeInternal is set.
func NewTicketMessageResponses(messages []models.TicketMessage, includeInternal bool) []TicketMessageResponse {
	out := make([]TicketMessageResponse, 0, len(messages))
	for _, m := range messages {
		if m.IsInternal && !includeInternal {
			continue
		}
		out = append(out, NewTicketMessageResponse(m))
	}
	return out
}
