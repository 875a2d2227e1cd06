package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/amrella/amrella-backend/internal/metrics"
	"github.com/amrella/amrella-backend/internal/policy"
)

var (
	ErrReportNotFound      = errors.New("report not found")
	ErrReportStateConflict = errors.New("report has already been moved past this status")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrTicketClosed        = errors.New("ticket is closed")
	ErrSettingNotFound     = errors.New("setting not found")
)

// ValidationError is returned for input the caller can fix.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// authorize runs the access policy and records denials.
func authorize(m *metrics.Metrics, p *policy.Principal, action policy.Action) error {
	err := policy.CanPerform(p, action)
	if err == nil {
		return nil
	}
	kind := "forbidden"
	if errors.Is(err, policy.ErrUnauthenticated) {
		kind = "unauthenticated"
	}
	m.PolicyDenied(string(action), kind)
	attrs := []any{"action", action, "kind", kind}
	if p != nil {
		attrs = append(attrs, "user_id", p.ID, "role", p.Role)
	}
	slog.Debug("policy denied", attrs...)
	return err
}

// ClampPage applies the default and maximum page size used by every list.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
