package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amrella/amrella-backend/internal/dto"
	"github.com/amrella/amrella-backend/internal/metrics"
	"github.com/amrella/amrella-backend/internal/models"
	"github.com/amrella/amrella-backend/internal/policy"
	"github.com/amrella/amrella-backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TicketQuery struct {
	Status   string
	Category string
	Limit    int
	Offset   int
}

type SupportService struct {
	tickets  TicketStore
	profiles ProfileStore
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewSupportService(tickets TicketStore, profiles ProfileStore, m *metrics.Metrics) *SupportService {
	return &SupportService{
		tickets:  tickets,
		profiles: profiles,
		metrics:  m,
		now:      time.Now,
	}
}

func (s *SupportService) CreateTicket(ctx context.Context, p *policy.Principal, req *dto.CreateTicketRequest) (*models.SupportTicket, error) {
	if err := authorize(s.metrics, p, policy.CreateTicket); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	priority := models.PriorityMedium
	if req.Priority != "" {
		priority = models.TicketPriority(req.Priority)
		if !priority.Valid() {
			return nil, invalid("invalid priority: must be low, medium, high, or urgent")
		}
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = models.CategoryOther
	}

	ticket := models.SupportTicket{
		ID:          uuid.New(),
		UserID:      p.ID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Category:    category,
		Priority:    priority,
		Status:      models.TicketOpen,
	}
	if err := s.tickets.Create(ctx, &ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	s.metrics.TicketCreated(category, string(priority))
	slog.InfoContext(ctx, "ticket created", "ticket_id", ticket.ID, "user_id", p.ID, "priority", priority)

	created, err := s.tickets.FindByID(ctx, ticket.ID)
	if err != nil {
		slog.WarnContext(ctx, "created ticket reload failed", "ticket_id", ticket.ID, "error", err)
		return &ticket, nil
	}
	return created, nil
}

// ListTickets returns every ticket for staff and only the caller's own
// tickets for everyone else.
func (s *SupportService) ListTickets(ctx context.Context, p *policy.Principal, q TicketQuery) ([]models.SupportTicket, int64, error) {
	if err := authorize(s.metrics, p, policy.ViewOwnTickets); err != nil {
		return nil, 0, err
	}

	limit, offset := ClampPage(q.Limit, q.Offset)
	filter := repository.TicketFilter{
		Status:   q.Status,
		Category: q.Category,
		Limit:    limit,
		Offset:   offset,
	}
	if !policy.Allowed(p, policy.ViewAllTickets) {
		owner := p.ID
		filter.OwnerID = &owner
	}

	tickets, total, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, total, nil
}

func (s *SupportService) GetTicket(ctx context.Context, p *policy.Principal, id uuid.UUID) (*models.SupportTicket, error) {
	if err := authorize(s.metrics, p, policy.ViewOwnTickets); err != nil {
		return nil, err
	}
	return s.loadVisible(ctx, p, id)
}

// UpdateTicket applies owner edits (title, description) and staff edits
// (status, priority, assignment). A closed ticket accepts neither.
func (s *SupportService) UpdateTicket(ctx context.Context, p *policy.Principal, id uuid.UUID, req *dto.UpdateTicketRequest) (*models.SupportTicket, error) {
	if err := authorize(s.metrics, p, policy.ViewOwnTickets); err != nil {
		return nil, err
	}
	if !req.HasOwnerChanges() && !req.HasStaffChanges() {
		return nil, invalid("no changes supplied")
	}
	if req.HasStaffChanges() {
		if err := authorize(s.metrics, p, policy.ManageTickets); err != nil {
			return nil, err
		}
	}

	ticket, err := s.loadVisible(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if req.HasOwnerChanges() && !p.Owns(ticket.UserID) {
		return nil, policy.ErrForbidden
	}
	if ticket.Status == models.TicketClosed {
		return nil, ErrTicketClosed
	}

	changes := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, invalid("title cannot be empty")
		}
		changes["title"] = title
	}
	if req.Description != nil {
		changes["description"] = strings.TrimSpace(*req.Description)
	}

	staff := map[string]interface{}{}
	if req.Status != nil {
		status := models.TicketStatus(*req.Status)
		if !status.Valid() {
			return nil, invalid("invalid status: must be open, in_progress, resolved, or closed")
		}
		staff["status"] = string(status)
	}
	if req.Priority != nil {
		priority := models.TicketPriority(*req.Priority)
		if !priority.Valid() {
			return nil, invalid("invalid priority: must be low, medium, high, or urgent")
		}
		staff["priority"] = string(priority)
	}
	switch {
	case req.Unassign:
		staff["assigned_to"] = nil
	case req.AssignedTo != nil:
		if err := s.checkAssignee(ctx, *req.AssignedTo); err != nil {
			return nil, err
		}
		staff["assigned_to"] = *req.AssignedTo
	}

	var entry *models.AdminActivityLog
	if len(staff) > 0 {
		raw, err := json.Marshal(staff)
		if err != nil {
			return nil, fmt.Errorf("failed to encode activity details: %w", err)
		}
		entry = &models.AdminActivityLog{
			ID:         uuid.New(),
			AdminID:    p.ID,
			Action:     models.ActivityTicketUpdated,
			TargetType: "ticket",
			TargetID:   id.String(),
			Details:    datatypes.JSON(raw),
		}
		for k, v := range staff {
			changes[k] = v
		}
	}

	if err := s.tickets.Update(ctx, id, changes, entry); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}
	slog.InfoContext(ctx, "ticket updated", "ticket_id", id, "user_id", p.ID, "staff_change", entry != nil)

	return s.loadVisible(ctx, p, id)
}

// PostMessage appends to the ticket thread. Internal notes are staff only.
func (s *SupportService) PostMessage(ctx context.Context, p *policy.Principal, ticketID uuid.UUID, req *dto.PostMessageRequest) (*models.TicketMessage, error) {
	if err := authorize(s.metrics, p, policy.MessageOwnTicket); err != nil {
		return nil, err
	}
	if req.IsInternal {
		if err := authorize(s.metrics, p, policy.RespondAsStaff); err != nil {
			return nil, err
		}
	}

	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, invalid("message is required")
	}

	ticket, err := s.loadVisible(ctx, p, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == models.TicketClosed {
		return nil, ErrTicketClosed
	}

	msg := models.TicketMessage{
		ID:         uuid.New(),
		TicketID:   ticket.ID,
		SenderID:   p.ID,
		Message:    text,
		IsInternal: req.IsInternal,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.tickets.CreateMessage(ctx, &msg); err != nil {
		return nil, fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.TicketMessagePosted(msg.IsInternal)
	slog.InfoContext(ctx, "ticket message posted", "ticket_id", ticket.ID, "sender_id", p.ID, "internal", msg.IsInternal)
	return &msg, nil
}

// ListMessages returns the full thread oldest first, internal notes
// included. Callers decide what to show non-staff.
func (s *SupportService) ListMessages(ctx context.Context, p *policy.Principal, ticketID uuid.UUID) ([]models.TicketMessage, error) {
	if err := authorize(s.metrics, p, policy.MessageOwnTicket); err != nil {
		return nil, err
	}
	if _, err := s.loadVisible(ctx, p, ticketID); err != nil {
		return nil, err
	}

	messages, err := s.tickets.ListMessages(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// loadVisible fetches a ticket the principal owns or may see as staff.
func (s *SupportService) loadVisible(ctx context.Context, p *policy.Principal, id uuid.UUID) (*models.SupportTicket, error) {
	ticket, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}
	if !p.Owns(ticket.UserID) && !policy.Allowed(p, policy.ViewAllTickets) {
		return nil, policy.ErrForbidden
	}
	return ticket, nil
}

func (s *SupportService) checkAssignee(ctx context.Context, id uuid.UUID) error {
	assignee, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalid("assignee not found")
		}
		return fmt.Errorf("failed to load assignee: %w", err)
	}
	if !assignee.Role.IsStaff() {
		return invalid("assignee must be a staff member")
	}
	return nil
}
