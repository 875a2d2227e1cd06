package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "amrella"

// Metrics holds Prometheus collectors for the API. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	RequestCounter    *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	ReportsSubmitted  *prometheus.CounterVec
	ReportTransitions *prometheus.CounterVec
	TicketsCreated    *prometheus.CounterVec
	TicketMessages    *prometheus.CounterVec
	PolicyDenials     *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		ReportsSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "moderation",
				Name:      "reports_submitted_total",
				Help:      "Reports submitted, by reason",
			},
			[]string{"reason"},
		),
		ReportTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "moderation",
				Name:      "report_transitions_total",
				Help:      "Report status transitions, by outcome",
			},
			[]string{"status", "outcome"},
		),
		TicketsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "support",
				Name:      "tickets_created_total",
				Help:      "Support tickets created, by category and priority",
			},
			[]string{"category", "priority"},
		),
		TicketMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "support",
				Name:      "ticket_messages_total",
				Help:      "Support ticket messages posted",
			},
			[]string{"internal"},
		),
		PolicyDenials: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "policy",
				Name:      "denials_total",
				Help:      "Access policy denials, by action and kind",
			},
			[]string{"action", "kind"},
		),
	}
}

func (m *Metrics) ReportSubmitted(reason string) {
	if m == nil {
		return
	}
	m.ReportsSubmitted.WithLabelValues(reason).Inc()
}

func (m *Metrics) ReportTransitioned(status, outcome string) {
	if m == nil {
		return
	}
	m.ReportTransitions.WithLabelValues(status, outcome).Inc()
}

func (m *Metrics) TicketCreated(category, priority string) {
	if m == nil {
		return
	}
	m.TicketsCreated.WithLabelValues(category, priority).Inc()
}

func (m *Metrics) TicketMessagePosted(internal bool) {
	if m == nil {
		return
	}
	m.TicketMessages.WithLabelValues(strconv.FormatBool(internal)).Inc()
}

func (m *Metrics) PolicyDenied(action, kind string) {
	if m == nil {
		return
	}
	m.PolicyDenials.WithLabelValues(action, kind).Inc()
}

// Middleware records request count and latency per matched route.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}
		m.RequestCounter.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
