package services

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/amrella/amrella-backend/internal/dto"
	"github.com/amrella/amrella-backend/internal/metrics"
	"github.com/amrella/amrella-backend/internal/models"
	"github.com/amrella/amrella-backend/internal/policy"
	"github.com/amrella/amrella-backend/internal/services/servicetest"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingReport() models.Report {
	return models.Report{
		ID:             uuid.New(),
		ReporterID:     uuid.New(),
		ReportedUserID: uuid.New(),
		Reason:         models.ReasonSpam,
		Status:         models.ReportPending,
	}
}

func TestSubmitReport_AlwaysPending(t *testing.T) {
	store := servicetest.NewReportStore()
	svc := NewModerationService(store, nil)
	user := principal(models.RoleUser)
	target := uuid.New()

	report, err := svc.SubmitReport(ctx, user, &dto.CreateReportRequest{
		ReportedUserID: &target,
		Reason:         "harassment",
		Description:    "  rude replies  ",
	})

	require.NoError(t, err)
	assert.Equal(t, models.ReportPending, report.Status)
	assert.Equal(t, user.ID, report.ReporterID)
	assert.Equal(t, "rude replies", report.Description)
	assert.Nil(t, report.ReviewedBy)
	stored, ok := store.Get(report.ID)
	require.True(t, ok)
	assert.Equal(t, models.ReportPending, stored.Status)
}

func TestSubmitReport_Validation(t *testing.T) {
	target := uuid.New()
	post := uuid.New()
	comment := uuid.New()

	tests := []struct {
		name string
		req  dto.CreateReportRequest
	}{
		{"unknown reason", dto.CreateReportRequest{ReportedUserID: &target, Reason: "boring"}},
		{"missing user", dto.CreateReportRequest{Reason: "spam"}},
		{"post and comment", dto.CreateReportRequest{ReportedUserID: &target, ReportedPostID: &post, ReportedCommentID: &comment, Reason: "spam"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := servicetest.NewReportStore()
			svc := NewModerationService(store, nil)

			_, err := svc.SubmitReport(ctx, principal(models.RoleUser), &tt.req)

			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
			assert.Zero(t, store.Count("Create"))
		})
	}
}

func TestSubmitReport_SelfReportAllowed(t *testing.T) {
	svc := NewModerationService(servicetest.NewReportStore(), nil)
	user := principal(models.RoleUser)

	report, err := svc.SubmitReport(ctx, user, &dto.CreateReportRequest{ReportedUserID: &user.ID, Reason: "other"})

	require.NoError(t, err)
	assert.Equal(t, user.ID, report.ReportedUserID)
}

func TestModeration_AnonymousNeverReachesStore(t *testing.T) {
	store := servicetest.NewReportStore(pendingReport())
	svc := NewModerationService(store, nil)
	target := uuid.New()

	_, err := svc.SubmitReport(ctx, nil, &dto.CreateReportRequest{ReportedUserID: &target, Reason: "spam"})
	assert.ErrorIs(t, err, policy.ErrUnauthenticated)

	_, _, err = svc.ListReports(ctx, nil, "", 20, 0)
	assert.ErrorIs(t, err, policy.ErrUnauthenticated)

	err = svc.TransitionReport(ctx, nil, uuid.New(), "resolved", "")
	assert.ErrorIs(t, err, policy.ErrUnauthenticated)

	assert.Zero(t, store.Total())
}

func TestModeration_UserForbidden(t *testing.T) {
	report := pendingReport()
	store := servicetest.NewReportStore(report)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := NewModerationService(store, m)
	user := principal(models.RoleUser)

	_, _, err := svc.ListReports(ctx, user, "pending", 20, 0)
	assert.ErrorIs(t, err, policy.ErrForbidden)

	err = svc.TransitionReport(ctx, user, report.ID, "dismissed", "")
	assert.ErrorIs(t, err, policy.ErrForbidden)

	assert.Zero(t, store.Total())
	stored, _ := store.Get(report.ID)
	assert.Equal(t, models.ReportPending, stored.Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PolicyDenials.WithLabelValues(string(policy.ModerateReports), "forbidden")))
}

func TestListReports_DefaultsToPending(t *testing.T) {
	pending := pendingReport()
	resolved := pendingReport()
	resolved.Status = models.ReportResolved
	store := servicetest.NewReportStore(pending, resolved)
	svc := NewModerationService(store, nil)
	admin := principal(models.RoleAdmin)

	reports, total, err := svc.ListReports(ctx, admin, "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, pending.ID, reports[0].ID)

	_, total, err = svc.ListReports(ctx, admin, "all", 500, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, _, err = svc.ListReports(ctx, admin, "archived", 20, 0)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestTransitionReport_RecordsReviewerAndActivity(t *testing.T) {
	report := pendingReport()
	store := servicetest.NewReportStore(report)
	svc := NewModerationService(store, nil)
	admin := principal(models.RoleAdmin)

	err := svc.TransitionReport(ctx, admin, report.ID, "resolved", "content_removed")
	require.NoError(t, err)

	stored, _ := store.Get(report.ID)
	assert.Equal(t, models.ReportResolved, stored.Status)
	require.NotNil(t, stored.ReviewedBy)
	assert.Equal(t, admin.ID, *stored.ReviewedBy)

	entries := store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActivityReportReviewed, entries[0].Action)
	assert.Equal(t, "report", entries[0].TargetType)
	assert.Equal(t, report.ID.String(), entries[0].TargetID)
	var details map[string]string
	require.NoError(t, json.Unmarshal(entries[0].Details, &details))
	assert.Equal(t, map[string]string{"status": "resolved", "action": "content_removed"}, details)
}

func TestTransitionReport_SecondReviewerConflicts(t *testing.T) {
	report := pendingReport()
	store := servicetest.NewReportStore(report)
	svc := NewModerationService(store, nil)
	adminA := principal(models.RoleAdmin)
	adminB := principal(models.RoleSuperAdmin)

	require.NoError(t, svc.TransitionReport(ctx, adminA, report.ID, "resolved", ""))
	err := svc.TransitionReport(ctx, adminB, report.ID, "dismissed", "")

	assert.ErrorIs(t, err, ErrReportStateConflict)
	stored, _ := store.Get(report.ID)
	assert.Equal(t, models.ReportResolved, stored.Status)
	assert.Equal(t, adminA.ID, *stored.ReviewedBy)
	assert.Len(t, store.Entries(), 1)
}

func TestTransitionReport_ReviewedCanStillBeClosed(t *testing.T) {
	report := pendingReport()
	store := servicetest.NewReportStore(report)
	svc := NewModerationService(store, nil)
	admin := principal(models.RoleAdmin)

	require.NoError(t, svc.TransitionReport(ctx, admin, report.ID, "reviewed", ""))
	require.NoError(t, svc.TransitionReport(ctx, admin, report.ID, "dismissed", ""))
	assert.ErrorIs(t, svc.TransitionReport(ctx, admin, report.ID, "reviewed", ""), ErrReportStateConflict)
}

func TestTransitionReport_Errors(t *testing.T) {
	store := servicetest.NewReportStore()
	svc := NewModerationService(store, nil)
	admin := principal(models.RoleAdmin)

	err := svc.TransitionReport(ctx, admin, uuid.New(), "resolved", "")
	assert.ErrorIs(t, err, ErrReportNotFound)

	err = svc.TransitionReport(ctx, admin, uuid.New(), "pending", "")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	store.Err = errors.New("connection reset")
	err = svc.TransitionReport(ctx, admin, uuid.New(), "resolved", "")
	assert.ErrorIs(t, err, store.Err)
	assert.NotErrorIs(t, err, ErrReportNotFound)
}

func TestTransitionReport_RoleChangeAppliesImmediately(t *testing.T) {
	report := pendingReport()
	store := servicetest.NewReportStore(report)
	svc := NewModerationService(store, nil)
	p := principal(models.RoleAdmin)

	p.Role = models.RoleUser
	assert.ErrorIs(t, svc.TransitionReport(ctx, p, report.ID, "resolved", ""), policy.ErrForbidden)

	p.Role = models.RoleAdmin
	assert.NoError(t, svc.TransitionReport(ctx, p, report.ID, "resolved", ""))
}
