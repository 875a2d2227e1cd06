package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role belongs to the back-office tiers.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Profile is the platform account. Its Role is the only source of
// authorization; tokens never carry it.
type Profile struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email            string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password         string    `gorm:"not null" json:"-"`
	FullName         string    `gorm:"size:255" json:"full_name"`
	AvatarURL        string    `gorm:"size:1024" json:"avatar_url"`
	Role             Role      `gorm:"size:20;not null;default:'user';index" json:"role"`
	IsVerified       bool      `gorm:"not null;default:false;index" json:"is_verified"`
	VerificationType string    `gorm:"size:50" json:"verification_type,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
