package servicetest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/amrella/amrella-backend/internal/models"
	"github.com/amrella/amrella-backend/internal/repository"
	"github.com/google/uuid"
)

type ProfileStore struct {
	Calls
	Activity

	Err error

	mu       sync.Mutex
	profiles map[uuid.UUID]models.Profile
}

func NewProfileStore(seed ...models.Profile) *ProfileStore {
	s := &ProfileStore{profiles: map[uuid.UUID]models.Profile{}}
	for _, p := range seed {
		s.profiles[p.ID] = p
	}
	return s
}

func (s *ProfileStore) Create(ctx context.Context, profile *models.Profile) error {
	s.record("Create")
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.profiles {
		if existing.Email == profile.Email {
			return fmt.Errorf("servicetest: duplicate email %s", profile.Email)
		}
	}
	now := time.Now().UTC()
	profile.CreatedAt, profile.UpdatedAt = now, now
	s.profiles[profile.ID] = *profile
	return nil
}

func (s *ProfileStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	s.record("FindByID")
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (s *ProfileStore) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	s.record("FindByEmail")
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.Email == email {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *ProfileStore) List(ctx context.Context, filter repository.UserFilter) ([]models.Profile, int64, error) {
	s.record("List")
	if s.Err != nil {
		return nil, 0, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	search := strings.ToLower(filter.Search)
	var matched []models.Profile
	for _, p := range s.profiles {
		if filter.Role != "" && string(p.Role) != filter.Role {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.FullName), search) &&
			!strings.Contains(strings.ToLower(p.Email), search) {
			continue
		}
		matched = append(matched, p)
	}
	newestFirst(matched, func(p models.Profile) int64 { return p.CreatedAt.UnixNano() })
	return page(matched, filter.Limit, filter.Offset), int64(len(matched)), nil
}

func (s *ProfileStore) Update(ctx context.Context, id uuid.UUID, changes map[string]interface{}, entry *models.AdminActivityLog) (*models.Profile, error) {
	s.record("Update")
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for column, value := range changes {
		switch column {
		case "role":
			p.Role = models.Role(value.(string))
		case "is_verified":
			p.IsVerified = value.(bool)
		case "verification_type":
			p.VerificationType = value.(string)
		default:
			return nil, fmt.Errorf("servicetest: unexpected profile column %q", column)
		}
	}
	p.UpdatedAt = time.Now().UTC()
	s.profiles[id] = p
	s.add(entry)
	return &p, nil
}

// SetRole changes a role directly, as another admin's request would.
func (s *ProfileStore) SetRole(id uuid.UUID, role models.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.profiles[id]
	p.Role = role
	s.profiles[id] = p
}
