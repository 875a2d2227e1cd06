// Package validation wraps go-playground/validator with the platform's
// enumeration rules and readable error messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/amrella/amrella-backend/internal/models"
	"github.com/go-playground/validator/v10"
)

// Error lists the offending fields keyed by their JSON name.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+" "+msg)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.Role(fl.Field().String()).Valid()
	})
	v.RegisterValidation("report_reason", func(fl validator.FieldLevel) bool {
		return models.ReportReason(fl.Field().String()).Valid()
	})
	v.RegisterValidation("ticket_priority", func(fl validator.FieldLevel) bool {
		return models.TicketPriority(fl.Field().String()).Valid()
	})
	v.RegisterValidation("ticket_status", func(fl validator.FieldLevel) bool {
		return models.TicketStatus(fl.Field().String()).Valid()
	})
	v.RegisterValidation("setting_type", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case models.SettingString, models.SettingBool, models.SettingInt, models.SettingJSON:
			return true
		}
		return false
	})

	return &Validator{validate: v}
}

// Struct validates s and returns *Error when a rule fails.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "role":
		return "must be one of: user, admin, super_admin"
	case "report_reason":
		return "must be one of: spam, harassment, inappropriate, copyright, other"
	case "ticket_priority":
		return "must be one of: low, medium, high, urgent"
	case "ticket_status":
		return "must be one of: open, in_progress, resolved, closed"
	case "setting_type":
		return "must be one of: string, bool, int, json"
	}
	return "is invalid"
}
