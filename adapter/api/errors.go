package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
)

// APIError represents an API error.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common API errors
var (
	ErrBadRequest = &APIError{
		Status:  http.StatusBadRequest,
		Code:    "bad_request",
		Message: "Invalid request",
	}
	ErrUnauthenticated = &APIError{
		Status:  http.StatusUnauthorized,
		Code:    "unauthenticated",
		Message: "X-User-ID header must carry a user ID",
	}
	ErrForbidden = &APIError{
		Status:  http.StatusForbidden,
		Code:    "forbidden",
		Message: "Not authorized for this owner",
	}
	ErrInternalServer = &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "Internal server error",
	}
)

func badRequest(format string, args ...any) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    ErrBadRequest.Code,
		Message: fmt.Sprintf(format, args...),
	}
}

// toAPIError maps domain failures onto HTTP statuses. Unknown errors are
// reported as internal errors without leaking their text.
func toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var rangeErr *domain.OutOfRangeError
	var goalErr *domain.InvalidGoalError
	switch {
	case errors.Is(err, domain.ErrNotAuthorized):
		return ErrForbidden
	case errors.As(err, &rangeErr):
		return &APIError{Status: http.StatusUnprocessableEntity, Code: "date_out_of_range", Message: err.Error()}
	case errors.Is(err, domain.ErrDailyEntryLimit):
		return &APIError{Status: http.StatusConflict, Code: "daily_entry_limit", Message: err.Error()}
	case errors.Is(err, domain.ErrDurationOutOfRange),
		errors.Is(err, domain.ErrNoteTooLong),
		errors.Is(err, domain.ErrGoalOutOfBounds),
		errors.Is(err, domain.ErrSelfLink),
		errors.As(err, &goalErr):
		return &APIError{Status: http.StatusUnprocessableEntity, Code: "validation_failed", Message: err.Error()}
	case errors.Is(err, domain.ErrEmptyOwner):
		return badRequest("%s", err.Error())
	default:
		return ErrInternalServer
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, err *APIError) {
	writeJSON(w, err.Status, map[string]string{
		"error":   err.Code,
		"message": err.Message,
	})
}
