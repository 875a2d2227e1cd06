package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amrella/amrella-backend/internal/dto"
	"github.com/amrella/amrella-backend/internal/models"
	"github.com/amrella/amrella-backend/internal/policy"
	"github.com/amrella/amrella-backend/internal/services"
	"github.com/amrella/amrella-backend/internal/services/servicetest"
	"github.com/amrella/amrella-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	app      *fiber.App
	reports  *servicetest.ReportStore
	tickets  *servicetest.TicketStore
	profiles *servicetest.ProfileStore
	settings *servicetest.SettingsStore
	users    map[string]*policy.Principal
}

// newEnv wires real services over in-memory stores. The X-Test-User header
// selects the principal, standing in for the session middleware.
func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		reports:  servicetest.NewReportStore(),
		tickets:  servicetest.NewTicketStore(),
		settings: servicetest.NewSettingsStore(),
		users: map[string]*policy.Principal{
			"owner": {ID: uuid.New(), Role: models.RoleUser},
			"other": {ID: uuid.New(), Role: models.RoleUser},
			"admin": {ID: uuid.New(), Role: models.RoleAdmin},
			"root":  {ID: uuid.New(), Role: models.RoleSuperAdmin},
		},
	}
	var seed []models.Profile
	for _, p := range e.users {
		seed = append(seed, models.Profile{ID: p.ID, Email: p.ID.String() + "@amrella.io", Role: p.Role})
	}
	e.profiles = servicetest.NewProfileStore(seed...)

	validate := validation.New()
	moderation := NewModerationHandler(services.NewModerationService(e.reports, nil), validate)
	support := NewSupportHandler(services.NewSupportService(e.tickets, e.profiles, nil), validate)
	admin := NewAdminHandler(
		services.NewAdminService(e.profiles, &servicetest.StatsStore{Err: errors.New("stats db down")}, nil),
		services.NewSettingsService(e.settings, nil),
		validate,
	)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if p, ok := e.users[c.Get("X-Test-User")]; ok {
			c.SetUserContext(policy.NewContext(c.UserContext(), p))
		}
		return c.Next()
	})
	app.Post("/api/reports", moderation.SubmitReport)
	app.Get("/api/admin/reports", moderation.ListReports)
	app.Patch("/api/admin/reports", moderation.TransitionReport)
	app.Get("/api/support/tickets", support.ListTickets)
	app.Post("/api/support/tickets", support.CreateTicket)
	app.Get("/api/support/tickets/:id", support.GetTicket)
	app.Patch("/api/support/tickets/:id", support.UpdateTicket)
	app.Get("/api/support/tickets/:id/messages", support.ListMessages)
	app.Post("/api/support/tickets/:id/messages", support.PostMessage)
	app.Get("/api/admin/stats", admin.Stats)
	app.Patch("/api/admin/users", admin.UpdateUser)
	app.Put("/api/admin/settings/:key", admin.SetSetting)
	e.app = app
	return e
}

func (e *env) call(t *testing.T, method, path, user string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	resp, err := e.app.Test(req, int((5 * time.Second).Milliseconds()))
	require.NoError(t, err)

	out := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestReportLifecycle(t *testing.T) {
	e := newEnv(t)
	target := e.users["other"].ID

	status, body := e.call(t, http.MethodPost, "/api/reports", "owner", map[string]interface{}{
		"reportedUserId": target, "reason": "spam", "description": "link spam",
	})
	require.Equal(t, fiber.StatusCreated, status)
	report := body["report"].(map[string]interface{})
	assert.Equal(t, "pending", report["status"])
	id := report["id"].(string)

	status, _ = e.call(t, http.MethodGet, "/api/admin/reports", "owner", nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = e.call(t, http.MethodGet, "/api/admin/reports", "admin", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(1), body["total"])

	status, body = e.call(t, http.MethodPatch, "/api/admin/reports", "admin", map[string]interface{}{
		"reportId": id, "status": "resolved", "action": "content_removed",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])

	status, body = e.call(t, http.MethodPatch, "/api/admin/reports", "root", map[string]interface{}{
		"reportId": id, "status": "dismissed",
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, true, body["error"])

	status, _ = e.call(t, http.MethodPatch, "/api/admin/reports", "admin", map[string]interface{}{
		"reportId": uuid.New(), "status": "resolved",
	})
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestListReports_EchoesClampedPage(t *testing.T) {
	e := newEnv(t)

	status, body := e.call(t, http.MethodGet, "/api/admin/reports?limit=500&offset=-3", "admin", nil)

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(100), body["limit"])
	assert.Equal(t, float64(0), body["offset"])
}

func TestSubmitReport_RejectsBadInput(t *testing.T) {
	e := newEnv(t)

	status, body := e.call(t, http.MethodPost, "/api/reports", "owner", map[string]interface{}{"reason": "boring"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	fields := body["fields"].(map[string]interface{})
	assert.Contains(t, fields, "reportedUserId")
	assert.Contains(t, fields, "reason")

	status, _ = e.call(t, http.MethodPost, "/api/reports", "", map[string]interface{}{
		"reportedUserId": uuid.New(), "reason": "spam",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Zero(t, e.reports.Total())
}

func TestTicketThread_HidesInternalNotesFromOwner(t *testing.T) {
	e := newEnv(t)

	status, body := e.call(t, http.MethodPost, "/api/support/tickets", "owner", map[string]interface{}{
		"title": "Payment failed", "category": "billing",
	})
	require.Equal(t, fiber.StatusCreated, status)
	ticket := body["ticket"].(map[string]interface{})
	assert.Equal(t, "open", ticket["status"])
	assert.Equal(t, "medium", ticket["priority"])
	path := "/api/support/tickets/" + ticket["id"].(string)

	status, _ = e.call(t, http.MethodPost, path+"/messages", "owner", map[string]interface{}{"message": "Card declined twice"})
	require.Equal(t, fiber.StatusCreated, status)
	status, _ = e.call(t, http.MethodPost, path+"/messages", "owner", map[string]interface{}{"message": "note", "isInternal": true})
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = e.call(t, http.MethodPost, path+"/messages", "admin", map[string]interface{}{"message": "Refund issued upstream", "isInternal": true})
	require.Equal(t, fiber.StatusCreated, status)

	_, body = e.call(t, http.MethodGet, path+"/messages", "owner", nil)
	assert.Len(t, body["messages"], 1)
	_, body = e.call(t, http.MethodGet, path+"/messages", "admin", nil)
	assert.Len(t, body["messages"], 2)

	status, _ = e.call(t, http.MethodGet, path, "other", nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = e.call(t, http.MethodGet, "/api/support/tickets/not-a-uuid", "owner", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestUpdateTicket_StatusCodes(t *testing.T) {
	e := newEnv(t)
	_, body := e.call(t, http.MethodPost, "/api/support/tickets", "owner", map[string]interface{}{"title": "Locked out"})
	path := "/api/support/tickets/" + body["ticket"].(map[string]interface{})["id"].(string)

	status, _ := e.call(t, http.MethodPatch, path, "owner", map[string]interface{}{"status": "resolved"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = e.call(t, http.MethodPatch, path, "admin", map[string]interface{}{"status": "closed", "assignedTo": e.users["admin"].ID})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "closed", body["ticket"].(map[string]interface{})["status"])

	status, _ = e.call(t, http.MethodPatch, path, "admin", map[string]interface{}{"status": "open"})
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = e.call(t, http.MethodPatch, path, "admin", map[string]interface{}{"priority": "someday"})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestListTickets_OwnOnly(t *testing.T) {
	e := newEnv(t)
	e.call(t, http.MethodPost, "/api/support/tickets", "owner", map[string]interface{}{"title": "Mine"})
	e.call(t, http.MethodPost, "/api/support/tickets", "other", map[string]interface{}{"title": "Theirs"})

	_, body := e.call(t, http.MethodGet, "/api/support/tickets", "owner", nil)
	assert.Equal(t, float64(1), body["total"])
	_, body = e.call(t, http.MethodGet, "/api/support/tickets", "admin", nil)
	assert.Equal(t, float64(2), body["total"])
}

func TestAdminEndpoints(t *testing.T) {
	e := newEnv(t)

	status, body := e.call(t, http.MethodGet, "/api/admin/stats", "admin", nil)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", body["message"])

	status, _ = e.call(t, http.MethodPatch, "/api/admin/users", "admin", map[string]interface{}{
		"userId": e.users["owner"].ID, "updates": map[string]interface{}{"role": "admin"},
	})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = e.call(t, http.MethodPatch, "/api/admin/users", "root", map[string]interface{}{
		"userId": e.users["owner"].ID, "updates": map[string]interface{}{"role": "admin"},
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "admin", body["user"].(map[string]interface{})["role"])

	status, _ = e.call(t, http.MethodPut, "/api/admin/settings/maintenance_mode", "admin", dto.SetSettingRequest{Value: "true", Type: "bool"})
	assert.Equal(t, fiber.StatusForbidden, status)
	status, body = e.call(t, http.MethodPut, "/api/admin/settings/maintenance_mode", "root", dto.SetSettingRequest{Value: "true", Type: "bool"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["setting"].(map[string]interface{})["value"])
}
