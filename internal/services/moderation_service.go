package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amrella/amrella-backend/internal/dto"
	"github.com/amrella/amrella-backend/internal/metrics"
	"github.com/amrella/amrella-backend/internal/models"
	"github.com/amrella/amrella-backend/internal/policy"
	"github.com/amrella/amrella-backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// predecessors lists, for each target status, the statuses a report may be
// moved out of. Pending is never a target.
var predecessors = map[models.ReportStatus][]models.ReportStatus{
	models.ReportReviewed:  {models.ReportPending},
	models.ReportResolved:  {models.ReportPending, models.ReportReviewed},
	models.ReportDismissed: {models.ReportPending, models.ReportReviewed},
}

type ModerationService struct {
	reports ReportStore
	metrics *metrics.Metrics
}

func NewModerationService(reports ReportStore, m *metrics.Metrics) *ModerationService {
	return &ModerationService{reports: reports, metrics: m}
}

func (s *ModerationService) SubmitReport(ctx context.Context, p *policy.Principal, req *dto.CreateReportRequest) (*models.Report, error) {
	if err := authorize(s.metrics, p, policy.SubmitReport); err != nil {
		return nil, err
	}

	reason := models.ReportReason(req.Reason)
	if !reason.Valid() {
		return nil, invalid("invalid reason: must be spam, harassment, inappropriate, copyright, or other")
	}
	if req.ReportedUserID == nil || *req.ReportedUserID == uuid.Nil {
		return nil, invalid("reportedUserId is required")
	}
	if req.ReportedPostID != nil && req.ReportedCommentID != nil {
		return nil, invalid("a report may target a post or a comment, not both")
	}

	report := models.Report{
		ID:                uuid.New(),
		ReporterID:        p.ID,
		ReportedUserID:    *req.ReportedUserID,
		ReportedPostID:    req.ReportedPostID,
		ReportedCommentID: req.ReportedCommentID,
		Reason:            reason,
		Description:       strings.TrimSpace(req.Description),
		Status:            models.ReportPending,
	}
	if err := s.reports.Create(ctx, &report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	s.metrics.ReportSubmitted(string(reason))
	slog.InfoContext(ctx, "report submitted", "report_id", report.ID, "reporter_id", p.ID, "reason", reason)
	return &report, nil
}

// ListReports returns one page of reports in the given status, newest first.
// An empty status means pending; "all" disables the filter.
func (s *ModerationService) ListReports(ctx context.Context, p *policy.Principal, status string, limit, offset int) ([]models.Report, int64, error) {
	if err := authorize(s.metrics, p, policy.ViewReports); err != nil {
		return nil, 0, err
	}

	filter := models.ReportStatus(status)
	switch {
	case status == "":
		filter = models.ReportPending
	case status == "all":
		filter = ""
	case !filter.Valid():
		return nil, 0, invalid("invalid status filter: %s", status)
	}

	limit, offset = ClampPage(limit, offset)
	reports, total, err := s.reports.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, total, nil
}

// TransitionReport moves a report forward. It fails with
// ErrReportStateConflict if another reviewer got there first.
func (s *ModerationService) TransitionReport(ctx context.Context, p *policy.Principal, reportID uuid.UUID, status, action string) error {
	if err := authorize(s.metrics, p, policy.ModerateReports); err != nil {
		return err
	}

	to := models.ReportStatus(status)
	from, ok := predecessors[to]
	if !ok {
		return invalid("invalid status: must be reviewed, resolved, or dismissed")
	}

	details := map[string]interface{}{"status": to}
	if action != "" {
		details["action"] = action
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode activity details: %w", err)
	}
	entry := &models.AdminActivityLog{
		ID:         uuid.New(),
		AdminID:    p.ID,
		Action:     models.ActivityReportReviewed,
		TargetType: "report",
		TargetID:   reportID.String(),
		Details:    datatypes.JSON(raw),
	}

	updated, err := s.reports.Transition(ctx, reportID, from, to, p.ID, entry)
	if err != nil {
		s.metrics.ReportTransitioned(status, "error")
		return fmt.Errorf("failed to update report: %w", err)
	}
	if !updated {
		if _, err := s.reports.FindByID(ctx, reportID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.metrics.ReportTransitioned(status, "not_found")
				return ErrReportNotFound
			}
			return fmt.Errorf("failed to load report: %w", err)
		}
		s.metrics.ReportTransitioned(status, "conflict")
		return ErrReportStateConflict
	}

	s.metrics.ReportTransitioned(status, "ok")
	slog.InfoContext(ctx, "report transitioned", "report_id", reportID, "status", to, "reviewer_id", p.ID)
	return nil
}
