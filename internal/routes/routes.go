package routes

import (
	"time"

	"github.com/amrella/amrella-backend/internal/config"
	"github.com/amrella/amrella-backend/internal/handlers"
	"github.com/amrella/amrella-backend/internal/metrics"
	"github.com/amrella/amrella-backend/internal/middleware"
	"github.com/amrella/amrella-backend/internal/policy"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Health     *handlers.HealthHandler
	Legal      *handlers.LegalHandler
	Moderation *handlers.ModerationHandler
	Support    *handlers.SupportHandler
	Admin      *handlers.AdminHandler
}

func Setup(
	app *fiber.App,
	cfg *config.Config,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	resolver middleware.PrincipalResolver,
	h Handlers,
) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)
	api.Get("/legal/privacy", h.Legal.PrivacyPolicy)
	api.Get("/legal/terms", h.Legal.TermsOfService)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/api/auth/logout"
		},
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)

	// Session middleware is attached per route so public routes and 404s
	// never see it.
	jwt := middleware.JWTProtected(cfg)
	principal := middleware.LoadPrincipal(resolver)
	session := func(chain ...fiber.Handler) []fiber.Handler {
		return append([]fiber.Handler{jwt, principal}, chain...)
	}
	staff := func(action policy.Action, handler fiber.Handler) []fiber.Handler {
		return session(middleware.Require(action, m), handler)
	}

	api.Post("/auth/logout", session(h.Auth.Logout)...)
	api.Get("/me", session(h.Auth.Me)...)

	api.Post("/reports", session(h.Moderation.SubmitReport)...)
	api.Get("/reports", staff(policy.ViewReports, h.Moderation.ListReports)...)

	support := api.Group("/support")
	support.Get("/tickets", session(h.Support.ListTickets)...)
	support.Post("/tickets", session(h.Support.CreateTicket)...)
	support.Get("/tickets/:id", session(h.Support.GetTicket)...)
	support.Patch("/tickets/:id", session(h.Support.UpdateTicket)...)
	support.Get("/tickets/:id/messages", session(h.Support.ListMessages)...)
	support.Post("/tickets/:id/messages", session(h.Support.PostMessage)...)

	admin := api.Group("/admin")
	admin.Get("/reports", staff(policy.ViewReports, h.Moderation.ListReports)...)
	admin.Patch("/reports", staff(policy.ModerateReports, h.Moderation.TransitionReport)...)
	admin.Get("/users", staff(policy.ManageUsers, h.Admin.ListUsers)...)
	admin.Patch("/users", staff(policy.ManageUsers, h.Admin.UpdateUser)...)
	admin.Get("/stats", staff(policy.ViewStats, h.Admin.Stats)...)
	admin.Get("/settings", staff(policy.ViewSettings, h.Admin.ListSettings)...)
	admin.Put("/settings/:key", staff(policy.ManageSettings, h.Admin.SetSetting)...)
	admin.Delete("/settings/:key", staff(policy.ManageSettings, h.Admin.DeleteSetting)...)
}
