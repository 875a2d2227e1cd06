package servicetest

import (
	"context"
	"sync"
	"time"

	"github.com/amrella/amrella-backend/internal/models"
	"github.com/amrella/amrella-backend/internal/repository"
	"github.com/google/uuid"
)

type ReportStore struct {
	Calls
	Activity

	// Err, when set, is returned by every method.
	Err error

	mu      sync.Mutex
	reports map[uuid.UUID]models.Report
}

func NewReportStore(seed ...models.Report) *ReportStore {
	s := &ReportStore{reports: map[uuid.UUID]models.Report{}}
	for _, r := range seed {
		s.reports[r.ID] = r
	}
	return s
}

func (s *ReportStore) Create(ctx context.Context, report *models.Report) error {
	s.record("Create")
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	now := time.Now().UTC()
	report.CreatedAt, report.UpdatedAt = now, now
	s.reports[report.ID] = *report
	return nil
}

func (s *ReportStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	s.record("FindByID")
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (s *ReportStore) List(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, int64, error) {
	s.record("List")
	if s.Err != nil {
		return nil, 0, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []models.Report
	for _, r := range s.reports {
		if status == "" || r.Status == status {
			matched = append(matched, r)
		}
	}
	newestFirst(matched, func(r models.Report) int64 { return r.CreatedAt.UnixNano() })
	return page(matched, limit, offset), int64(len(matched)), nil
}

// Transition mirrors the conditional update: it only applies when the
// current status is one of from.
func (s *ReportStore) Transition(ctx context.Context, id uuid.UUID, from []models.ReportStatus, to models.ReportStatus, reviewer uuid.UUID, entry *models.AdminActivityLog) (bool, error) {
	s.record("Transition")
	if s.Err != nil {
		return false, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, st := range from {
		if r.Status == st {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}
	r.Status = to
	r.ReviewedBy = &reviewer
	r.UpdatedAt = time.Now().UTC()
	s.reports[id] = r
	s.add(entry)
	return true, nil
}

// Get returns the stored report without counting a call.
func (s *ReportStore) Get(id uuid.UUID) (models.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	return r, ok
}
