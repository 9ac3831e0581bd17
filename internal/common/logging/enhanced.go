package logging

import (
	"context"
	"log/slog"

	"github.com/khmm12/reachability-checker/internal/common/tracing"
)

var _ slog.Handler = (*EnhancedHandler)(nil)

// EnhancedHandler stamps every record with the run it belongs to.
type EnhancedHandler struct {
	w slog.Handler
}

func NewEnhancedHandler(handler slog.Handler) *EnhancedHandler {
	return &EnhancedHandler{w: handler}
}

func (h *EnhancedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.w.Enabled(ctx, level)
}

func (h *EnhancedHandler) Handle(ctx context.Context, r slog.Record) error {
	if runID := tracing.GetRunID(ctx); runID != "" {
		r.Add(slog.String("run_id", runID))
	}

	return h.w.Handle(ctx, r)
}

func (h *EnhancedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EnhancedHandler{w: h.w.WithAttrs(attrs)}
}

func (h *EnhancedHandler) WithGroup(name string) slog.Handler {
	return &EnhancedHandler{w: h.w.WithGroup(name)}
}
