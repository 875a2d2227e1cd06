// Package policy decides which principal may perform which action.
//
// Decisions are computed from the role the caller has right now. Callers must
// resolve the principal per request and never cache a decision.
package policy

import (
	"errors"

	"github.com/amrella/amrella-backend/internal/models"
	"github.com/google/uuid"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient permissions")
)

// Principal is the authenticated caller. A nil *Principal is anonymous.
type Principal struct {
	ID    uuid.UUID
	Email string
	Role  models.Role
}

// IsStaff is false for the anonymous principal.
func (p *Principal) IsStaff() bool {
	return p != nil && p.Role.IsStaff()
}

func (p *Principal) IsSuperAdmin() bool {
	return p != nil && p.Role == models.RoleSuperAdmin
}

// Owns reports whether the principal is the given user.
func (p *Principal) Owns(userID uuid.UUID) bool {
	return p != nil && p.ID == userID
}

type Action string

const (
	SubmitReport     Action = "report:submit"
	ViewReports      Action = "report:view"
	ModerateReports  Action = "report:moderate"
	CreateTicket     Action = "ticket:create"
	ViewOwnTickets   Action = "ticket:view_own"
	MessageOwnTicket Action = "ticket:message_own"
	ViewAllTickets   Action = "ticket:view_all"
	ManageTickets    Action = "ticket:manage"
	RespondAsStaff   Action = "ticket:respond_staff"
	ManageUsers      Action = "user:manage"
	ManageStaffRoles Action = "user:manage_staff"
	ViewStats        Action = "stats:view"
	ViewSettings     Action = "settings:view"
	ManageSettings   Action = "settings:manage"
)

type tier int

const (
	tierAuthenticated tier = iota
	tierStaff
	tierSuperAdmin
)

var requirements = map[Action]tier{
	SubmitReport:     tierAuthenticated,
	CreateTicket:     tierAuthenticated,
	ViewOwnTickets:   tierAuthenticated,
	MessageOwnTicket: tierAuthenticated,

	ViewReports:     tierStaff,
	ModerateReports: tierStaff,
	ViewAllTickets:  tierStaff,
	ManageTickets:   tierStaff,
	RespondAsStaff:  tierStaff,
	ManageUsers:     tierStaff,
	ViewStats:       tierStaff,
	ViewSettings:    tierStaff,

	ManageStaffRoles: tierSuperAdmin,
	ManageSettings:   tierSuperAdmin,
}

// CanPerform returns nil when p may perform a, ErrUnauthenticated for the
// anonymous principal and ErrForbidden otherwise. Unknown actions are denied.
func CanPerform(p *Principal, a Action) error {
	if p == nil {
		return ErrUnauthenticated
	}
	required, ok := requirements[a]
	if !ok {
		return ErrForbidden
	}
	switch required {
	case tierAuthenticated:
		return nil
	case tierStaff:
		if p.IsStaff() {
			return nil
		}
	case tierSuperAdmin:
		if p.IsSuperAdmin() {
			return nil
		}
	}
	return ErrForbidden
}

// Allowed is CanPerform as a boolean.
func Allowed(p *Principal, a Action) bool {
	return CanPerform(p, a) == nil
}
