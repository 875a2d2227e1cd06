package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Setting value types.
const (
	SettingString = "string"
	SettingBool   = "bool"
	SettingInt    = "int"
	SettingJSON   = "json"
)

// PlatformSetting stores one platform-wide key. Value is kept as text and
// decoded according to Type.
type PlatformSetting struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Key       string     `gorm:"size:100;not null;uniqueIndex" json:"key"`
	Value     string     `gorm:"type:text;not null" json:"value"`
	Type      string     `gorm:"size:20;default:'string'" json:"type"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid" json:"updated_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (s *PlatformSetting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (PlatformSetting) TableName() string {
	return "platform_settings"
}
