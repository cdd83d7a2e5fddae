package middleware

import (
	"log/slog"
	"net/http"

	"github.com/Shreytangani17/Task-Mangement-System/internal/api/shared"
	"github.com/Shreytangani17/Task-Mangement-System/internal/platform/logger"
)

// Trace adds a trace ID to the request context and a request-scoped logger
// carrying it. Apply it before any middleware that logs.
func Trace(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			traceID := shared.GetTraceID(ctx)

			log := base.With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, log)
			w.Header().Set("X-Trace-ID", traceID)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
