package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
	"github.com/google/uuid"
)

// ContextKey is the type of keys this package stores in a request context.
type ContextKey string

const (
	// PrincipalContextKey holds the authenticated domain.PublicUser.
	PrincipalContextKey ContextKey = "principal"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of random bytes in a trace ID.
	TraceIDLength = 16
)

// SetTraceID adds a fresh trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context, or "".
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// WithPrincipal returns a copy of ctx carrying the authenticated user.
func WithPrincipal(ctx context.Context, user domain.PublicUser) context.Context {
	return context.WithValue(ctx, PrincipalContextKey, user)
}

// PrincipalFromContext returns the authenticated user stored by the auth
// middleware.
func PrincipalFromContext(ctx context.Context) (domain.PublicUser, bool) {
	user, ok := ctx.Value(PrincipalContextKey).(domain.PublicUser)
	if !ok || user.ID == uuid.Nil {
		return domain.PublicUser{}, false
	}
	return user, true
}

// generateTraceID returns 32 hex characters. If the system random source
// fails it falls back to a random UUID, which is still unique per request.
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if _, err := rand.Read(b); err != nil {
		return strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return hex.EncodeToString(b)
}
