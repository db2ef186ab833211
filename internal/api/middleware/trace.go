package middleware

import (
	"log/slog"
	"net/http"

	"github.com/brightpath/progress-api/internal/api/shared"
	"github.com/brightpath/progress-api/internal/platform/logger"
)

// TraceMiddleware assigns each request a trace ID and attaches a logger
// carrying it to the context. Stores and services pick that logger up via
// logger.FromContextOrDefault, so every log line below the handler
// correlates back to the request. Apply it before any handler that logs.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())

		reqLog := slog.Default().With(slog.String("trace_id", shared.GetTraceID(ctx)))
		ctx = logger.WithLogger(ctx, reqLog)

		reqLog.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
