package servicetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/amrella/amrella-backend/internal/models"
	"github.com/amrella/amrella-backend/internal/repository"
	"github.com/google/uuid"
)

type SettingsStore struct {
	Calls
	Activity

	Err error

	mu       sync.Mutex
	settings map[string]models.PlatformSetting
}

func NewSettingsStore(seed ...models.PlatformSetting) *SettingsStore {
	s := &SettingsStore{settings: map[string]models.PlatformSetting{}}
	for _, setting := range seed {
		s.settings[setting.Key] = setting
	}
	return s
}

func (s *SettingsStore) List(ctx context.Context) ([]models.PlatformSetting, error) {
	s.record("List")
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PlatformSetting, 0, len(s.settings))
	for _, setting := range s.settings {
		out = append(out, setting)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *SettingsStore) Upsert(ctx context.Context, setting *models.PlatformSetting, entry *models.AdminActivityLog) error {
	s.record("Upsert")
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.settings[setting.Key]; ok {
		setting.ID = existing.ID
		setting.CreatedAt = existing.CreatedAt
	} else {
		setting.ID = uuid.New()
		setting.CreatedAt = time.Now().UTC()
	}
	setting.UpdatedAt = time.Now().UTC()
	s.settings[setting.Key] = *setting
	s.add(entry)
	return nil
}

func (s *SettingsStore) Delete(ctx context.Context, key string, entry *models.AdminActivityLog) (bool, error) {
	s.record("Delete")
	if s.Err != nil {
		return false, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.settings[key]; !ok {
		return false, nil
	}
	delete(s.settings, key)
	s.add(entry)
	return true, nil
}

func (s *SettingsStore) CreateIfMissing(ctx context.Context, setting *models.PlatformSetting) error {
	s.record("CreateIfMissing")
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.settings[setting.Key]; !ok {
		s.settings[setting.Key] = *setting
	}
	return nil
}

func (s *SettingsStore) Get(key string) (models.PlatformSetting, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	setting, ok := s.settings[key]
	return setting, ok
}

type StatsStore struct {
	Calls

	Result repository.PlatformCounts
	Err    error
}

func (s *StatsStore) Counts(ctx context.Context) (repository.PlatformCounts, error) {
	s.record("Counts")
	return s.Result, s.Err
}

type TokenStore struct {
	Calls

	mu     sync.Mutex
	tokens map[string]models.RefreshToken
}

func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: map[string]models.RefreshToken{}}
}

func (s *TokenStore) Create(ctx context.Context, token *models.RefreshToken) error {
	s.record("Create")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.TokenHash] = *token
	return nil
}

func (s *TokenStore) FindActive(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	s.record("FindActive")
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[tokenHash]
	if !ok || t.Revoked {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (s *TokenStore) Revoke(ctx context.Context, tokenHash string) error {
	s.record("Revoke")
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tokens[tokenHash]; ok {
		t.Revoked = true
		s.tokens[tokenHash] = t
	}
	return nil
}
