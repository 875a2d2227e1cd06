package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Activity tags written by the back-office.
const (
	ActivityReportReviewed = "report_reviewed"
	ActivityUserUpdated    = "user_updated"
	ActivityTicketUpdated  = "ticket_updated"
	ActivitySettingUpdated = "setting_updated"
	ActivitySettingDeleted = "setting_deleted"
)

// AdminActivityLog is an audit trail of staff actions. Nothing in the API reads it back.
type AdminActivityLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AdminID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"admin_id"`
	Action     string         `gorm:"size:100;not null;index" json:"action"`
	TargetType string         `gorm:"size:50;not null" json:"target_type"`
	TargetID   string         `gorm:"size:255;not null;index" json:"target_id"`
	Details    datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"details"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (AdminActivityLog) TableName() string {
	return "admin_activity_logs"
}
