package logger

import (
	"context"

	"github.com/google/uuid"
)

const traceField = "trace_id"

type traceKey struct{}

// WithTraceID returns a copy of ctx carrying traceID. An empty traceID is
// replaced by a fresh UUID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		traceID = uuid.NewString()
	}
	return context.WithValue(ctx, traceKey{}, traceID)
}

// GetTraceID returns the trace ID stored in ctx, or "" when there is none.
func GetTraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}
