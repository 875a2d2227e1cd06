package handlers

import (
	"github.com/amrella/amrella-backend/internal/dto"
	"github.com/amrella/amrella-backend/internal/middleware"
	"github.com/amrella/amrella-backend/internal/services"
	"github.com/amrella/amrella-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type ModerationHandler struct {
	service  *services.ModerationService
	validate *validation.Validator
}

func NewModerationHandler(service *services.ModerationService, validate *validation.Validator) *ModerationHandler {
	return &ModerationHandler{service: service, validate: validate}
}

// SubmitReport handles POST /api/reports.
func (h *ModerationHandler) SubmitReport(c *fiber.Ctx) error {
	var req dto.CreateReportRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	report, err := h.service.SubmitReport(c.UserContext(), middleware.Principal(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"report": dto.NewReportResponse(*report)})
}

// ListReports handles GET /api/reports and GET /api/admin/reports.
func (h *ModerationHandler) ListReports(c *fiber.Ctx) error {
	limit, offset := services.ClampPage(c.QueryInt("limit", 20), c.QueryInt("offset", 0))

	reports, total, err := h.service.ListReports(c.UserContext(), middleware.Principal(c), c.Query("status"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"reports": dto.NewReportResponses(reports),
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// TransitionReport handles PATCH /api/admin/reports.
func (h *ModerationHandler) TransitionReport(c *fiber.Ctx) error {
	var req dto.TransitionReportRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	if err := h.service.TransitionReport(c.UserContext(), middleware.Principal(c), req.ReportID, req.Status, req.Action); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}
