package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/brightpath/progress-api/internal/domain"
	"github.com/brightpath/progress-api/internal/service/review"
	"github.com/brightpath/progress-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidQuality),
		errors.Is(err, review.ErrInvalidQuality),
		errors.Is(err, review.ErrInvalidLimit),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrLessonNotFound):
		return "Lesson not found"

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrReviewItemNotFound):
		return "Review item not found"

	case errors.Is(err, store.ErrStudentMetricsNotFound):
		return "No progress recorded for this student"

	case errors.Is(err, store.ErrCompletionNotFound):
		return "Completion not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, domain.ErrInvalidQuality),
		errors.Is(err, review.ErrInvalidQuality):
		return "Review quality must be between 0 and 5"

	case errors.Is(err, review.ErrInvalidLimit):
		return "Limit must be greater than 0"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		// Validation messages are built from field names only, safe to expose.
		return err.Error()

	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError converts validator errors into a client-safe message
// naming the offending fields without echoing submitted values.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request"
	}

	if len(verrs) == 0 {
		return "Invalid request"
	}

	msg := "Invalid request: "
	for i, fe := range verrs {
		if i > 0 {
			msg += ", "
		}
		msg += fe.Field() + " failed " + fe.Tag() + " validation"
	}
	return msg
}
