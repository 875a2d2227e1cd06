package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amrella/amrella-backend/internal/dto"
	"github.com/amrella/amrella-backend/internal/metrics"
	"github.com/amrella/amrella-backend/internal/models"
	"github.com/amrella/amrella-backend/internal/policy"
	"github.com/amrella/amrella-backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var ErrUserNotFound = errors.New("user not found")

type AdminService struct {
	profiles ProfileStore
	stats    StatsStore
	metrics  *metrics.Metrics
}

func NewAdminService(profiles ProfileStore, stats StatsStore, m *metrics.Metrics) *AdminService {
	return &AdminService{profiles: profiles, stats: stats, metrics: m}
}

func (s *AdminService) ListUsers(ctx context.Context, p *policy.Principal, q dto.UserListQuery) ([]models.Profile, dto.Pagination, error) {
	if err := authorize(s.metrics, p, policy.ManageUsers); err != nil {
		return nil, dto.Pagination{}, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit, _ := ClampPage(q.Limit, 0)
	if q.Role != "" && !models.Role(q.Role).Valid() {
		return nil, dto.Pagination{}, invalid("invalid role filter: %s", q.Role)
	}

	users, total, err := s.profiles.List(ctx, repository.UserFilter{
		Search: strings.TrimSpace(q.Search),
		Role:   q.Role,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, dto.Pagination{}, fmt.Errorf("failed to list users: %w", err)
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return users, dto.Pagination{Page: page, Limit: limit, Total: total, Pages: pages}, nil
}

// UpdateUser changes role and verification fields. Granting or revoking a
// staff role, or editing a super admin, needs ManageStaffRoles.
func (s *AdminService) UpdateUser(ctx context.Context, p *policy.Principal, userID uuid.UUID, updates dto.UserUpdates) (*models.Profile, error) {
	if err := authorize(s.metrics, p, policy.ManageUsers); err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	var role models.Role
	if updates.Role != nil {
		role = models.Role(*updates.Role)
		if !role.Valid() {
			return nil, invalid("invalid role: must be user, admin, or super_admin")
		}
		changes["role"] = string(role)
	}
	if updates.IsVerified != nil {
		changes["is_verified"] = *updates.IsVerified
	}
	if updates.VerificationType != nil {
		changes["verification_type"] = strings.TrimSpace(*updates.VerificationType)
	}
	if len(changes) == 0 {
		return nil, invalid("no changes supplied")
	}

	target, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	touchesStaff := target.Role == models.RoleSuperAdmin ||
		(updates.Role != nil && role != target.Role && (role.IsStaff() || target.Role.IsStaff()))
	if touchesStaff {
		if err := authorize(s.metrics, p, policy.ManageStaffRoles); err != nil {
			return nil, err
		}
	}

	raw, err := json.Marshal(changes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode activity details: %w", err)
	}
	entry := &models.AdminActivityLog{
		ID:         uuid.New(),
		AdminID:    p.ID,
		Action:     models.ActivityUserUpdated,
		TargetType: "user",
		TargetID:   userID.String(),
		Details:    datatypes.JSON(raw),
	}

	updated, err := s.profiles.Update(ctx, userID, changes, entry)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	slog.InfoContext(ctx, "user updated", "user_id", userID, "admin_id", p.ID)
	return updated, nil
}

func (s *AdminService) Stats(ctx context.Context, p *policy.Principal) (repository.PlatformCounts, error) {
	if err := authorize(s.metrics, p, policy.ViewStats); err != nil {
		return repository.PlatformCounts{}, err
	}
	counts, err := s.stats.Counts(ctx)
	if err != nil {
		return repository.PlatformCounts{}, fmt.Errorf("failed to count platform stats: %w", err)
	}
	return counts, nil
}
