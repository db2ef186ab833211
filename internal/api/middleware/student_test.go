package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath/progress-api/internal/api/shared"
	"github.com/brightpath/progress-api/internal/platform/logger"
)

func TestStudentContextValidHeader(t *testing.T) {
	t.Parallel()
	studentID := uuid.New()

	var captured uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := shared.GetStudentID(r.Context())
		require.True(t, ok)
		captured = id
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	req.Header.Set(StudentIDHeader, studentID.String())
	rec := httptest.NewRecorder()

	StudentContext(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, studentID, captured)
}

func TestStudentContextMissingHeader(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	rec := httptest.NewRecorder()

	StudentContext(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStudentContextMalformedHeader(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	req.Header.Set(StudentIDHeader, "not-a-uuid")
	rec := httptest.NewRecorder()

	StudentContext(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTraceMiddlewareSetsTraceID(t *testing.T) {
	t.Parallel()

	var traceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	TraceMiddleware(next).ServeHTTP(rec, req)

	assert.Len(t, traceID, 32, "trace IDs are 16 random bytes hex encoded")
}

func TestTraceMiddlewareAttachesContextLogger(t *testing.T) {
	t.Parallel()

	var contextLogger *slog.Logger
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contextLogger = logger.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	TraceMiddleware(next).ServeHTTP(rec, req)

	require.NotNil(t, contextLogger)
	assert.NotEqual(t, slog.Default(), contextLogger,
		"request logger carries the trace ID attribute")
}
