package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the application error carried across service boundaries.
// Reason is a short machine-readable string ("no-seats", "own-ride")
// that callers and clients can switch on; Message is human-readable.
type Error struct {
	Code    string `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Reasons used by the reservation engine and the registries.
const (
	ReasonOwnRide          = "own-ride"
	ReasonRideNotBookable  = "ride-not-bookable"
	ReasonRideDeparted     = "ride-departed"
	ReasonAlreadyBooked    = "already-booked"
	ReasonNoSeats          = "no-seats"
	ReasonAlreadyCancelled = "already-cancelled"
	ReasonEmailTaken       = "email-taken"
	ReasonPlateTaken       = "plate-taken"
)

// Constructors, one per taxonomy entry.

// NotFound reports that a referenced entity does not exist.
func NotFound(message string) *Error {
	return &Error{
		Code:    "NOT_FOUND",
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// Forbidden reports that the principal is authenticated but not
// authorized for the target entity.
func Forbidden(message string) *Error {
	return &Error{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
	}
}

// Unauthorized reports a missing or failed authentication.
func Unauthorized(message string) *Error {
	return &Error{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

// InvalidArgument reports malformed or out-of-range input.
func InvalidArgument(message string) *Error {
	return &Error{
		Code:    "INVALID_ARGUMENT",
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// InvalidState reports an operation not permitted in the entity's
// current lifecycle state.
func InvalidState(reason, message string) *Error {
	return &Error{
		Code:    "INVALID_STATE",
		Reason:  reason,
		Message: message,
		Status:  http.StatusConflict,
	}
}

// Conflict reports a concurrent-safety rejection. Safe to retry after
// re-reading state; the engine itself never retries.
func Conflict(reason, message string) *Error {
	return &Error{
		Code:    "CONFLICT",
		Reason:  reason,
		Message: message,
		Status:  http.StatusConflict,
	}
}

// Internal wraps an unclassified store or infrastructure failure.
func Internal(message string, err error) *Error {
	return &Error{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Is checks whether err is an *Error
func Is(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// From converts any error into an *Error for rendering. Unclassified
// errors come back as INTERNAL_ERROR with the cause attached.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("an unexpected error occurred", err)
}

// HasReason reports whether err carries the given machine-readable reason.
func HasReason(err error, reason string) bool {
	var e *Error
	return errors.As(err, &e) && e.Reason == reason
}

// Wrap adds context to an error without changing its classification.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
