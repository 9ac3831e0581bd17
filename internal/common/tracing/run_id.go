package tracing

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

var runIDCtxKey = ctxKey{}

// WithRunID tags ctx with a fresh run identifier unless it already carries one.
func WithRunID(ctx context.Context) context.Context {
	if _, ok := ctx.Value(runIDCtxKey).(string); ok {
		return ctx
	}

	return context.WithValue(ctx, runIDCtxKey, NewRunID())
}

func GetRunID(ctx context.Context) string {
	runID, ok := ctx.Value(runIDCtxKey).(string)
	if !ok {
		return ""
	}

	return runID
}

func NewRunID() string {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v.String()
}
