package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpdateUserRequest struct {
	UserID  uuid.UUID   `json:"userId" validate:"required"`
	Updates UserUpdates `json:"updates"`
}

// UserUpdates lists the only profile fields the back-office may change.
type UserUpdates struct {
	Role             *string `json:"role" validate:"omitempty,role"`
	IsVerified       *bool   `json:"is_verified"`
	VerificationType *string `json:"verification_type" validate:"omitempty,max=50"`
}

type UserListQuery struct {
	Page   int
	Limit  int
	Search string
	Role   string
}

type SetSettingRequest struct {
	Value string `json:"value" validate:"max=10000"`
	Type  string `json:"type" validate:"omitempty,setting_type"`
}

type SettingResponse struct {
	Key       string      `json:"key"`
	Value     interface{} `json:"value"`
	Type      string      `json:"type"`
	UpdatedBy *uuid.UUID  `json:"updated_by,omitempty"`
	UpdatedAt time.Time   `json:"updated_at"`
}
