package models

import (
	"time"

	"github.com/google/uuid"
)

type ReportReason string

const (
	ReasonSpam          ReportReason = "spam"
	ReasonHarassment    ReportReason = "harassment"
	ReasonInappropriate ReportReason = "inappropriate"
	ReasonCopyright     ReportReason = "copyright"
	ReasonOther         ReportReason = "other"
)

func (r ReportReason) Valid() bool {
	switch r {
	case ReasonSpam, ReasonHarassment, ReasonInappropriate, ReasonCopyright, ReasonOther:
		return true
	}
	return false
}

type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportReviewed  ReportStatus = "reviewed"
	ReportResolved  ReportStatus = "resolved"
	ReportDismissed ReportStatus = "dismissed"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportPending, ReportReviewed, ReportResolved, ReportDismissed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s ReportStatus) Terminal() bool {
	return s == ReportResolved || s == ReportDismissed
}

// Report is a complaint about a user, optionally narrowed to one of their
// posts or comments. At most one of ReportedPostID and ReportedCommentID is set.
type Report struct {
	ID                uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReporterID        uuid.UUID    `gorm:"type:uuid;not null;index" json:"reporter_id"`
	ReportedUserID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"reported_user_id"`
	ReportedPostID    *uuid.UUID   `gorm:"type:uuid;index" json:"reported_post_id"`
	ReportedCommentID *uuid.UUID   `gorm:"type:uuid;index" json:"reported_comment_id"`
	Reason            ReportReason `gorm:"not null;size:50" json:"reason"`
	Description       string       `gorm:"type:text" json:"description"`
	Status            ReportStatus `gorm:"not null;default:'pending';size:50;index" json:"status"`
	ReviewedBy        *uuid.UUID   `gorm:"type:uuid" json:"reviewed_by"`
	CreatedAt         time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`

	Reporter        *Profile `gorm:"foreignKey:ReporterID" json:"-"`
	ReportedUser    *Profile `gorm:"foreignKey:ReportedUserID" json:"-"`
	ReportedPost    *Post    `gorm:"foreignKey:ReportedPostID" json:"-"`
	ReportedComment *Comment `gorm:"foreignKey:ReportedCommentID" json:"-"`
}
