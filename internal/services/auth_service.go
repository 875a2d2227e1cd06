package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amrella/amrella-backend/internal/config"
	"github.com/amrella/amrella-backend/internal/dto"
	"github.com/amrella/amrella-backend/internal/models"
	"github.com/amrella/amrella-backend/internal/policy"
	"github.com/amrella/amrella-backend/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrRegistrationClosed = errors.New("registration is currently closed")
)

// RegistrationGate reports whether new accounts may be created.
type RegistrationGate interface {
	RegistrationOpen(ctx context.Context) bool
}

type AuthService struct {
	profiles    ProfileStore
	tokens      TokenStore
	gate        RegistrationGate
	cfg         *config.Config
	superAdmins map[string]bool
	now         func() time.Time
}

func NewAuthService(profiles ProfileStore, tokens TokenStore, gate RegistrationGate, cfg *config.Config) *AuthService {
	superAdmins := make(map[string]bool, len(cfg.SuperAdminEmails))
	for _, email := range cfg.SuperAdminEmails {
		superAdmins[normalizeEmail(email)] = true
	}
	return &AuthService{
		profiles:    profiles,
		tokens:      tokens,
		gate:        gate,
		cfg:         cfg,
		superAdmins: superAdmins,
		now:         time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || len(req.Password) < 8 {
		return nil, invalid("email required and password must be at least 8 characters")
	}
	if s.gate != nil && !s.gate.RegistrationOpen(ctx) {
		return nil, ErrRegistrationClosed
	}

	if _, err := s.profiles.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := models.RoleUser
	if s.superAdmins[email] {
		role = models.RoleSuperAdmin
	}
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		fullName = strings.Split(email, "@")[0]
	}

	profile := models.Profile{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
		FullName: fullName,
		Role:     role,
	}
	if err := s.profiles.Create(ctx, &profile); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if role == models.RoleSuperAdmin {
		slog.InfoContext(ctx, "bootstrapped super admin", "user_id", profile.ID, "email", email)
	}

	return s.generateTokenPair(ctx, &profile)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	profile, err := s.profiles.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.generateTokenPair(ctx, profile)
}

// Refresh rotates the refresh token. The presented token is revoked whether
// or not it was still valid.
func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	stored, err := s.tokens.FindActive(ctx, tokenHash)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if err := s.tokens.Revoke(ctx, tokenHash); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if s.now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	profile, err := s.profiles.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return s.generateTokenPair(ctx, profile)
}

func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	if req.RefreshToken == "" {
		return nil
	}
	return s.tokens.Revoke(ctx, hashToken(req.RefreshToken))
}

// ResolvePrincipal loads the caller's current role. It is called once per
// request so role changes apply immediately.
func (s *AuthService) ResolvePrincipal(ctx context.Context, userID uuid.UUID) (*policy.Principal, error) {
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, policy.ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &policy.Principal{ID: profile.ID, Email: profile.Email, Role: profile.Role}, nil
}

func (s *AuthService) Me(ctx context.Context, p *policy.Principal) (*models.Profile, error) {
	if p == nil {
		return nil, policy.ErrUnauthenticated
	}
	profile, err := s.profiles.FindByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, profile *models.Profile) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(profile)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, profile)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         NewUserResponse(profile),
	}, nil
}

// generateAccessToken never embeds the role.
func (s *AuthService) generateAccessToken(profile *models.Profile) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   profile.ID.String(),
		"email": profile.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(ctx context.Context, profile *models.Profile) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)
	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    profile.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: s.now().Add(s.cfg.JWTRefreshExpiry),
	}
	if err := s.tokens.Create(ctx, &record); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func NewUserResponse(profile *models.Profile) dto.UserResponse {
	return dto.UserResponse{
		ID:         profile.ID,
		Email:      profile.Email,
		FullName:   profile.FullName,
		AvatarURL:  profile.AvatarURL,
		Role:       string(profile.Role),
		IsVerified: profile.IsVerified,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
