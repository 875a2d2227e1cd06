package handlers

import (
	"github.com/amrella/amrella-backend/internal/dto"
	"github.com/amrella/amrella-backend/internal/middleware"
	"github.com/amrella/amrella-backend/internal/services"
	"github.com/amrella/amrella-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type SupportHandler struct {
	service  *services.SupportService
	validate *validation.Validator
}

func NewSupportHandler(service *services.SupportService, validate *validation.Validator) *SupportHandler {
	return &SupportHandler{service: service, validate: validate}
}

func (h *SupportHandler) ListTickets(c *fiber.Ctx) error {
	tickets, total, err := h.service.ListTickets(c.UserContext(), middleware.Principal(c), services.TicketQuery{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Limit:    c.QueryInt("limit", 20),
		Offset:   c.QueryInt("offset", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"tickets": dto.NewTicketResponses(tickets), "total": total})
}

func (h *SupportHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), middleware.Principal(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ticket": dto.NewTicketResponse(*ticket)})
}

func (h *SupportHandler) GetTicket(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	ticket, err := h.service.GetTicket(c.UserContext(), middleware.Principal(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"ticket": dto.NewTicketResponse(*ticket)})
}

func (h *SupportHandler) UpdateTicket(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.UpdateTicketRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	ticket, err := h.service.UpdateTicket(c.UserContext(), middleware.Principal(c), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"ticket": dto.NewTicketResponse(*ticket)})
}

// ListMessages hides internal notes from callers who are not staff.
func (h *SupportHandler) ListMessages(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	p := middleware.Principal(c)
	messages, err := h.service.ListMessages(c.UserContext(), p, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"messages": dto.NewTicketMessageResponses(messages, p.IsStaff())})
}

func (h *SupportHandler) PostMessage(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.PostMessageRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	msg, err := h.service.PostMessage(c.UserContext(), middleware.Principal(c), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": dto.NewTicketMessageResponse(*msg)})
}
