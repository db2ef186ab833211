package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/brightpath/progress-api/internal/api/shared"
)

// StudentIDHeader carries the authenticated student's ID, set by the
// auth gateway in front of this service.
const StudentIDHeader = "X-Student-ID"

// StudentContext extracts the student ID from the request header and stores
// it in the context. Requests without a valid student ID are rejected before
// reaching any handler.
func StudentContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(StudentIDHeader)
		if raw == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Missing student identity")
			return
		}

		studentID, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid student identity")
			return
		}

		ctx := shared.SetStudentID(r.Context(), studentID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
