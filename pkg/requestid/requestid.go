package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey struct{}

// Generate returns a fresh request ID.
func Generate() string {
	return uuid.NewString()
}

// ToContext returns a child context carrying the request ID.
func ToContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKey{}, requestID)
}

// FromContext returns the request ID carried by ctx, or "" when absent.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// FromRequest returns the request ID carried by the request context.
func FromRequest(r *http.Request) string {
	return FromContext(r.Context())
}
