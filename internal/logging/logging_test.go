package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestContextHandler_AddsRequestAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))
	ctx := WithRequest(context.Background(), Request{TraceID: "req-1", Method: "PATCH", Path: "/api/admin/reports"})

	log.InfoContext(ctx, "report transitioned", "status", "resolved")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["trace_id"])
	assert.Equal(t, "PATCH", line["method"])
	assert.Equal(t, "/api/admin/reports", line["path"])
	assert.Equal(t, "resolved", line["status"])
}

func TestContextHandler_NoRequest(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))

	log.Info("boot")

	assert.NotContains(t, buf.String(), "trace_id")
}

func TestMultiHandler_RespectsLevels(t *testing.T) {
	var info, errs bytes.Buffer
	log := slog.New(NewMultiHandler(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	))

	log.Info("hello")
	log.Error("boom")

	assert.Contains(t, info.String(), "hello")
	assert.Contains(t, info.String(), "boom")
	assert.NotContains(t, errs.String(), "hello")
	assert.Contains(t, errs.String(), "boom")
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestMultiHandler_FailureDoesNotStopOthers(t *testing.T) {
	stdoutErr := errors.New("stdout closed")
	var sink bytes.Buffer
	h := NewMultiHandler(
		slog.NewJSONHandler(failingWriter{err: stdoutErr}, nil),
		nil,
		slog.NewJSONHandler(&sink, nil),
	)

	err := h.WithAttrs([]slog.Attr{slog.String("svc", "api")}).
		Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelError, "db down", 0))

	require.Error(t, err)
	assert.ErrorIs(t, err, stdoutErr)
	assert.Contains(t, sink.String(), "db down")
	assert.Contains(t, sink.String(), `"svc":"api"`)
}

func TestPGHandler_MapsColumns(t *testing.T) {
	h := &PGHandler{sink: &pgSink{}}
	log := slog.New(NewContextHandler(h)).With("user_id", "u-1")
	ctx := WithRequest(context.Background(), Request{TraceID: "req-9", Method: "GET", Path: "/api/reports"})

	log.WarnContext(ctx, "ignored")
	log.ErrorContext(ctx, "list failed", "error", "timeout", "latency_ms", 12.6, "report_status", "pending")

	require.Len(t, h.sink.buffer, 1)
	entry := h.sink.buffer[0]
	assert.Equal(t, "list failed", entry.Message)
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "req-9", entry.TraceID)
	assert.Equal(t, "GET", entry.Method)
	assert.Equal(t, "/api/reports", entry.Path)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "u-1", *entry.UserID)
	assert.Equal(t, "timeout", entry.Error)
	assert.Equal(t, 13, entry.LatencyMs)
	assert.JSONEq(t, `{"report_status":"pending"}`, string(entry.Extra))
}

func TestPurgeBefore(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	cutoff := time.Now().AddDate(0, 0, -30)
	mock.ExpectExec(`DELETE FROM "system_logs" WHERE timestamp < \$1`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 4))

	deleted, err := PurgeBefore(db, cutoff)

	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
