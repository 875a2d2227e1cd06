package services

import (
	"testing"
	"time"

	"github.com/amrella/amrella-backend/internal/config"
	"github.com/amrella/amrella-backend/internal/dto"
	"github.com/amrella/amrella-backend/internal/models"
	"github.com/amrella/amrella-backend/internal/policy"
	"github.com/amrella/amrella-backend/internal/services/servicetest"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *servicetest.ProfileStore, *servicetest.TokenStore) {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
		SuperAdminEmails: []string{"Root@Amrella.io"},
	}
	profiles := servicetest.NewProfileStore()
	tokens := servicetest.NewTokenStore()
	return NewAuthService(profiles, tokens, nil, cfg), profiles, tokens
}

func TestRegister_TokenCarriesNoRole(t *testing.T) {
	svc, _, _ := newAuthService(t)

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Email: "Ada@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, "user", resp.User.Role)
	assert.Equal(t, "ada", resp.User.FullName)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.String(), claims["sub"])
	assert.NotContains(t, claims, "role")
}

func TestRegister_BootstrapsSuperAdmin(t *testing.T) {
	svc, _, _ := newAuthService(t)

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Email: "root@amrella.io", Password: "password123"})

	require.NoError(t, err)
	assert.Equal(t, "super_admin", resp.User.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)
	req := &dto.RegisterRequest{Email: "bob@example.com", Password: "password123"}

	_, err := svc.Register(ctx, req)
	require.NoError(t, err)
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_Closed(t *testing.T) {
	svc, profiles, _ := newAuthService(t)
	store := servicetest.NewSettingsStore(models.PlatformSetting{Key: "registration_open", Value: "false", Type: models.SettingBool})
	svc.gate = NewSettingsService(store, nil)

	_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "late@example.com", Password: "password123"})

	assert.ErrorIs(t, err, ErrRegistrationClosed)
	assert.Zero(t, profiles.Count("Create"))
}

func TestLogin(t *testing.T) {
	svc, _, _ := newAuthService(t)
	_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "carol@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "carol@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: " CAROL@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc, _, tokens := newAuthService(t)
	first, err := svc.Register(ctx, &dto.RegisterRequest{Email: "dan@example.com", Password: "password123"})
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: first.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, svc.Logout(ctx, &dto.LogoutRequest{RefreshToken: second.RefreshToken}))
	_, err = svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: second.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, 2, tokens.Count("Create"))
}

func TestRefresh_Expired(t *testing.T) {
	svc, _, _ := newAuthService(t)
	resp, err := svc.Register(ctx, &dto.RegisterRequest{Email: "eve@example.com", Password: "password123"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: resp.RefreshToken})

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolvePrincipal_ReadsCurrentRole(t *testing.T) {
	svc, profiles, _ := newAuthService(t)
	resp, err := svc.Register(ctx, &dto.RegisterRequest{Email: "fay@example.com", Password: "password123"})
	require.NoError(t, err)

	p, err := svc.ResolvePrincipal(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, p.Role)

	profiles.SetRole(resp.User.ID, models.RoleAdmin)
	p, err = svc.ResolvePrincipal(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.True(t, p.IsStaff())

	_, err = svc.ResolvePrincipal(ctx, uuid.New())
	assert.ErrorIs(t, err, policy.ErrUnauthenticated)
}
