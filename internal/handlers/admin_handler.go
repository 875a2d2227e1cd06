package handlers

import (
	"github.com/amrella/amrella-backend/internal/dto"
	"github.com/amrella/amrella-backend/internal/middleware"
	"github.com/amrella/amrella-backend/internal/services"
	"github.com/amrella/amrella-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	admin    *services.AdminService
	settings *services.SettingsService
	validate *validation.Validator
}

func NewAdminHandler(admin *services.AdminService, settings *services.SettingsService, validate *validation.Validator) *AdminHandler {
	return &AdminHandler{admin: admin, settings: settings, validate: validate}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, pagination, err := h.admin.ListUsers(c.UserContext(), middleware.Principal(c), dto.UserListQuery{
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 20),
		Search: c.Query("search"),
		Role:   c.Query("role"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"users": users, "pagination": pagination})
}

func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.admin.UpdateUser(c.UserContext(), middleware.Principal(c), req.UserID, req.Updates)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.admin.Stats(c.UserContext(), middleware.Principal(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"stats": stats})
}

func (h *AdminHandler) ListSettings(c *fiber.Ctx) error {
	settings, err := h.settings.ListSettings(c.UserContext(), middleware.Principal(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"settings": settings})
}

func (h *AdminHandler) SetSetting(c *fiber.Ctx) error {
	var req dto.SetSettingRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	setting, err := h.settings.SetSetting(c.UserContext(), middleware.Principal(c), c.Params("key"), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"setting": setting})
}

func (h *AdminHandler) DeleteSetting(c *fiber.Ctx) error {
	if err := h.settings.DeleteSetting(c.UserContext(), middleware.Principal(c), c.Params("key")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}
