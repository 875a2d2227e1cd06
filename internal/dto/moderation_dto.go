package dto

import (
	"time"

	"github.com/amrella/amrella-backend/internal/models"
	"github.com/google/uuid"
)

// CreateReportRequest has no status field: new reports are always pending.
type CreateReportRequest struct {
	ReportedUserID    *uuid.UUID `json:"reportedUserId" validate:"required"`
	ReportedPostID    *uuid.UUID `json:"reportedPostId"`
	ReportedCommentID *uuid.UUID `json:"reportedCommentId"`
	Reason            string     `json:"reason" validate:"required,report_reason"`
	Description       string     `json:"description" validate:"max=2000"`
}

type TransitionReportRequest struct {
	ReportID uuid.UUID `json:"reportId" validate:"required"`
	Status   string    `json:"status" validate:"required,oneof=reviewed resolved dismissed"`
	Action   string    `json:"action" validate:"max=100"`
}

type ProfileSummary struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

type ContentSnippet struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ReportResponse struct {
	ID                uuid.UUID       `json:"id"`
	ReporterID        uuid.UUID       `json:"reporter_id"`
	ReportedUserID    uuid.UUID       `json:"reported_user_id"`
	ReportedPostID    *uuid.UUID      `json:"reported_post_id"`
	ReportedCommentID *uuid.UUID      `json:"reported_comment_id"`
	Reason            string          `json:"reason"`
	Description       string          `json:"description"`
	Status            string          `json:"status"`
	ReviewedBy        *uuid.UUID      `json:"reviewed_by"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Reporter          *ProfileSummary `json:"reporter,omitempty"`
	ReportedUser      *ProfileSummary `json:"reported_user,omitempty"`
	ReportedPost      *ContentSnippet `json:"reported_post,omitempty"`
	ReportedComment   *ContentSnippet `json:"reported_comment,omitempty"`
}

func NewReportResponse(r models.Report) ReportResponse {
	resp := ReportResponse{
		ID:                r.ID,
		ReporterID:        r.ReporterID,
		ReportedUserID:    r.ReportedUserID,
		ReportedPostID:    r.ReportedPostID,
		ReportedCommentID: r.ReportedCommentID,
		Reason:            string(r.Reason),
		Description:       r.Description,
		Status:            string(r.Status),
		ReviewedBy:        r.ReviewedBy,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		Reporter:          summarize(r.Reporter),
		ReportedUser:      summarize(r.ReportedUser),
	}
	if r.ReportedPost != nil {
		resp.ReportedPost = &ContentSnippet{Content: r.ReportedPost.Content, CreatedAt: r.ReportedPost.CreatedAt}
	}
	if r.ReportedComment != nil {
		resp.ReportedComment = &ContentSnippet{Content: r.ReportedComment.Content, CreatedAt: r.ReportedComment.CreatedAt}
	}
	return resp
}

func NewReportResponses(reports []models.Report) []ReportResponse {
	out := make([]ReportResponse, len(reports))
	for i, r := range reports {
		out[i] = NewReportResponse(r)
	}
	return out
}

func summarize(p *models.Profile) *ProfileSummary {
	if p == nil {
		return nil
	}
	return &ProfileSummary{FullName: p.FullName, AvatarURL: p.AvatarURL}
}
