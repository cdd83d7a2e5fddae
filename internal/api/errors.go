package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Shreytangani17/Task-Mangement-System/internal/api/shared"
	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
	"github.com/Shreytangani17/Task-Mangement-System/internal/service"
	"github.com/Shreytangani17/Task-Mangement-System/internal/service/auth"
	"github.com/Shreytangani17/Task-Mangement-System/internal/store"
	"github.com/go-playground/validator/v10"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing the errors themselves.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Dependency outages
	case errors.Is(err, auth.ErrStoreUnavailable):
		return http.StatusServiceUnavailable

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	// Validation is checked before not-found: a request naming a missing
	// assignee is a bad request, not a missing resource.
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, service.ErrSamePassword),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case store.IsNotFoundError(err):
		return http.StatusNotFound

	case store.IsDuplicateError(err):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err that never
// includes internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, auth.ErrStoreUnavailable):
		return "Authentication service temporarily unavailable"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"
	case errors.Is(err, service.ErrWrongPassword):
		return "Current password is incorrect"
	case errors.Is(err, service.ErrSamePassword):
		return "New password must differ from the current password"
	case errors.Is(err, service.ErrNotOwned):
		return "You do not have access to this task"
	case errors.As(err, &validationErr):
		return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
	case errors.Is(err, domain.ErrValidation), errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, store.ErrNotificationNotFound):
		return "Notification not found"
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the mapped status and safe message for err. A
// non-empty message replaces the safe one for non-5xx responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" || status >= http.StatusInternalServerError {
		message = GetSafeErrorMessage(err)
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// SanitizeValidationError turns validator errors into a message naming the
// first failing field without echoing the submitted value.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Validation error"
	}
	first := fieldErrs[0]
	return fmt.Sprintf("Invalid %s: %s", strings.ToLower(first.Field()), validationTagMessage(first.Tag()))
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "uuid":
		return "invalid identifier"
	default:
		return "validation failed"
	}
}
