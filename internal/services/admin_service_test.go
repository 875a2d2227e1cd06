package services

import (
	"testing"
	"time"

	"github.com/amrella/amrella-backend/internal/dto"
	"github.com/amrella/amrella-backend/internal/models"
	"github.com/amrella/amrella-backend/internal/policy"
	"github.com/amrella/amrella-backend/internal/repository"
	"github.com/amrella/amrella-backend/internal/services/servicetest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProfiles(n int) []models.Profile {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Profile, n)
	for i := range out {
		out[i] = models.Profile{
			ID:        uuid.New(),
			Email:     "member" + string(rune('a'+i)) + "@amrella.io",
			FullName:  "Member " + string(rune('A'+i)),
			Role:      models.RoleUser,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return out
}

func TestListUsers_Pagination(t *testing.T) {
	profiles := servicetest.NewProfileStore(seedProfiles(5)...)
	svc := NewAdminService(profiles, &servicetest.StatsStore{}, nil)

	users, pg, err := svc.ListUsers(ctx, principal(models.RoleAdmin), dto.UserListQuery{Page: 2, Limit: 2})

	require.NoError(t, err)
	assert.Equal(t, dto.Pagination{Page: 2, Limit: 2, Total: 5, Pages: 3}, pg)
	require.Len(t, users, 2)
	assert.Equal(t, "Member C", users[0].FullName)
}

func TestListUsers_SearchAndRole(t *testing.T) {
	seed := seedProfiles(3)
	seed[1].Role = models.RoleAdmin
	svc := NewAdminService(servicetest.NewProfileStore(seed...), &servicetest.StatsStore{}, nil)
	admin := principal(models.RoleAdmin)

	users, pg, err := svc.ListUsers(ctx, admin, dto.UserListQuery{Search: "member a"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), pg.Total)
	assert.Equal(t, seed[0].ID, users[0].ID)

	users, _, err = svc.ListUsers(ctx, admin, dto.UserListQuery{Role: "admin"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, seed[1].ID, users[0].ID)

	_, _, err = svc.ListUsers(ctx, admin, dto.UserListQuery{Role: "owner"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUpdateUser_VerifiesAndLogs(t *testing.T) {
	seed := seedProfiles(1)
	profiles := servicetest.NewProfileStore(seed...)
	svc := NewAdminService(profiles, &servicetest.StatsStore{}, nil)
	admin := principal(models.RoleAdmin)

	updated, err := svc.UpdateUser(ctx, admin, seed[0].ID, dto.UserUpdates{
		IsVerified:       ptr(true),
		VerificationType: ptr("creator"),
	})

	require.NoError(t, err)
	assert.True(t, updated.IsVerified)
	assert.Equal(t, "creator", updated.VerificationType)
	entries := profiles.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActivityUserUpdated, entries[0].Action)
	assert.Equal(t, seed[0].ID.String(), entries[0].TargetID)
}

func TestUpdateUser_StaffRolesNeedSuperAdmin(t *testing.T) {
	seed := seedProfiles(2)
	seed[1].Role = models.RoleSuperAdmin
	profiles := servicetest.NewProfileStore(seed...)
	svc := NewAdminService(profiles, &servicetest.StatsStore{}, nil)
	admin := principal(models.RoleAdmin)
	root := principal(models.RoleSuperAdmin)

	_, err := svc.UpdateUser(ctx, admin, seed[0].ID, dto.UserUpdates{Role: ptr("admin")})
	assert.ErrorIs(t, err, policy.ErrForbidden)

	_, err = svc.UpdateUser(ctx, admin, seed[1].ID, dto.UserUpdates{IsVerified: ptr(true)})
	assert.ErrorIs(t, err, policy.ErrForbidden)
	assert.Zero(t, profiles.Count("Update"))

	updated, err := svc.UpdateUser(ctx, root, seed[0].ID, dto.UserUpdates{Role: ptr("admin")})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
}

func TestUpdateUser_Errors(t *testing.T) {
	svc := NewAdminService(servicetest.NewProfileStore(), &servicetest.StatsStore{}, nil)
	admin := principal(models.RoleAdmin)

	_, err := svc.UpdateUser(ctx, admin, uuid.New(), dto.UserUpdates{IsVerified: ptr(false)})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.UpdateUser(ctx, admin, uuid.New(), dto.UserUpdates{})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.UpdateUser(ctx, principal(models.RoleUser), uuid.New(), dto.UserUpdates{IsVerified: ptr(true)})
	assert.ErrorIs(t, err, policy.ErrForbidden)
}

func TestStats(t *testing.T) {
	stats := &servicetest.StatsStore{Result: repository.PlatformCounts{TotalUsers: 12, PendingReports: 3}}
	svc := NewAdminService(servicetest.NewProfileStore(), stats, nil)

	counts, err := svc.Stats(ctx, principal(models.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, int64(12), counts.TotalUsers)
	assert.Equal(t, int64(3), counts.PendingReports)

	_, err = svc.Stats(ctx, principal(models.RoleUser))
	assert.ErrorIs(t, err, policy.ErrForbidden)
	assert.Equal(t, 1, stats.Count("Counts"))
}
