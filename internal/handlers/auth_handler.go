package handlers

import (
	"time"

	"github.com/amrella/amrella-backend/internal/config"
	"github.com/amrella/amrella-backend/internal/dto"
	"github.com/amrella/amrella-backend/internal/middleware"
	"github.com/amrella/amrella-backend/internal/services"
	"github.com/amrella/amrella-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
	validate    *validation.Validator
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, validate *validation.Validator, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, validate: validate, cfg: cfg}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	h.setSession(c, resp.AccessToken)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	h.setSession(c, resp.AccessToken)
	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	resp, err := h.authService.Refresh(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	h.setSession(c, resp.AccessToken)
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, errBadBody)
		}
	}

	if err := h.authService.Logout(c.UserContext(), &req); err != nil {
		return respondError(c, err)
	}

	c.ClearCookie(h.cfg.SessionCookie)
	return c.JSON(dto.SuccessResponse{Success: true})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	profile, err := h.authService.Me(c.UserContext(), middleware.Principal(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": services.NewUserResponse(profile)})
}

func (h *AuthHandler) setSession(c *fiber.Ctx, accessToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.SessionCookie,
		Value:    accessToken,
		Path:     "/",
		Expires:  time.Now().Add(h.cfg.JWTAccessExpiry),
		HTTPOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
