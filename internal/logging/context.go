package logging

import (
	"context"
	"log/slog"
)

// Request identifies the HTTP request a log line belongs to.
type Request struct {
	TraceID string
	Method  string
	Path    string
}

type requestKey struct{}

func WithRequest(ctx context.Context, req Request) context.Context {
	return context.WithValue(ctx, requestKey{}, req)
}

func RequestFrom(ctx context.Context) (Request, bool) {
	if ctx == nil {
		return Request{}, false
	}
	req, ok := ctx.Value(requestKey{}).(Request)
	return req, ok
}

// ContextHandler adds trace_id, method and path from the context to every
// record logged with a *Context method.
type ContextHandler struct {
	next slog.Handler
}

func NewContextHandler(next slog.Handler) *ContextHandler {
	return &ContextHandler{next: next}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	if req, ok := RequestFrom(ctx); ok {
		record.AddAttrs(
			slog.String("trace_id", req.TraceID),
			slog.String("method", req.Method),
			slog.String("path", req.Path),
		)
	}
	return h.next.Handle(ctx, record)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(name)}
}
