package taskpilot

import (
	"context"

	"github.com/taskpilot/taskpilot-go/internal/httpapi"
)

// WithRequestID attaches a caller-chosen request ID to ctx. Requests issued
// under that context carry it as X-Request-ID instead of a generated uuid,
// which lets callers correlate client calls with service-side traces.
func WithRequestID(ctx context.Context, id string) context.Context {
	return httpapi.ContextWithRequestID(ctx, id)
}
