package servicetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/amrella/amrella-backend/internal/models"
	"github.com/amrella/amrella-backend/internal/repository"
	"github.com/google/uuid"
)

type TicketStore struct {
	Calls
	Activity

	Err error
	// FindErr fails FindByID only.
	FindErr error

	// LastFilter is the filter passed to the most recent List call.
	LastFilter repository.TicketFilter

	mu       sync.Mutex
	tickets  map[uuid.UUID]models.SupportTicket
	messages []models.TicketMessage
}

func NewTicketStore(seed ...models.SupportTicket) *TicketStore {
	s := &TicketStore{tickets: map[uuid.UUID]models.SupportTicket{}}
	for _, t := range seed {
		s.tickets[t.ID] = t
	}
	return s
}

func (s *TicketStore) Create(ctx context.Context, ticket *models.SupportTicket) error {
	s.record("Create")
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	now := time.Now().UTC()
	ticket.CreatedAt, ticket.UpdatedAt = now, now
	s.tickets[ticket.ID] = *ticket
	return nil
}

func (s *TicketStore) FindByID(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error) {
	s.record("FindByID")
	if s.Err != nil {
		return nil, s.Err
	}
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (s *TicketStore) List(ctx context.Context, filter repository.TicketFilter) ([]models.SupportTicket, int64, error) {
	s.record("List")
	if s.Err != nil {
		return nil, 0, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastFilter = filter
	var matched []models.SupportTicket
	for _, t := range s.tickets {
		if filter.OwnerID != nil && t.UserID != *filter.OwnerID {
			continue
		}
		if filter.Status != "" && string(t.Status) != filter.Status {
			continue
		}
		if filter.Category != "" && t.Category != filter.Category {
			continue
		}
		matched = append(matched, t)
	}
	newestFirst(matched, func(t models.SupportTicket) int64 { return t.CreatedAt.UnixNano() })
	return page(matched, filter.Limit, filter.Offset), int64(len(matched)), nil
}

// Update understands the columns the support service writes.
func (s *TicketStore) Update(ctx context.Context, id uuid.UUID, changes map[string]interface{}, entry *models.AdminActivityLog) error {
	s.record("Update")
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return repository.ErrNotFound
	}
	for column, value := range changes {
		switch column {
		case "title":
			t.Title = value.(string)
		case "description":
			t.Description = value.(string)
		case "status":
			t.Status = models.TicketStatus(value.(string))
		case "priority":
			t.Priority = models.TicketPriority(value.(string))
		case "assigned_to":
			if value == nil {
				t.AssignedTo = nil
			} else {
				assignee := value.(uuid.UUID)
				t.AssignedTo = &assignee
			}
		default:
			return fmt.Errorf("servicetest: unexpected ticket column %q", column)
		}
	}
	t.UpdatedAt = time.Now().UTC()
	s.tickets[id] = t
	s.add(entry)
	return nil
}

func (s *TicketStore) CreateMessage(ctx context.Context, msg *models.TicketMessage) error {
	s.record("CreateMessage")
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	s.messages = append(s.messages, *msg)
	return nil
}

func (s *TicketStore) ListMessages(ctx context.Context, ticketID uuid.UUID) ([]models.TicketMessage, error) {
	s.record("ListMessages")
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var thread []models.TicketMessage
	for _, m := range s.messages {
		if m.TicketID == ticketID {
			thread = append(thread, m)
		}
	}
	sort.SliceStable(thread, func(i, j int) bool { return thread[i].CreatedAt.Before(thread[j].CreatedAt) })
	return thread, nil
}

func (s *TicketStore) Get(id uuid.UUID) (models.SupportTicket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	return t, ok
}
