package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"
)

type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindDuplicateBooking  Kind = "DUPLICATE_BOOKING"
	KindTimeConflict      Kind = "TIME_CONFLICT"
	KindScheduleFull      Kind = "SCHEDULE_FULL"
	KindQuotaExceeded     Kind = "QUOTA_EXCEEDED"
	KindInvalidDuration   Kind = "INVALID_DURATION"
	KindTrainerConflict   Kind = "TRAINER_CONFLICT"
	KindHasActiveBookings Kind = "HAS_ACTIVE_BOOKINGS"
	KindForbidden         Kind = "FORBIDDEN"
	KindAlreadyCancelled  Kind = "ALREADY_CANCELLED"
	KindUnauthorized      Kind = "UNAUTHORIZED"
	KindValidation        Kind = "VALIDATION_FAILED"
	KindConflict          Kind = "CONFLICT"
	KindInternal          Kind = "INTERNAL_ERROR"
)

// Postgres SQLSTATE codes we classify.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind and message so wrapped copies of a sentinel still compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func New(kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message}
}

func Wrap(err error, kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message, Err: err}
}

func NotFound(resource string) *Error {
	return New(KindNotFound, http.StatusNotFound, resource+" not found.")
}

func BadRequest(kind Kind, message string) *Error {
	return New(kind, http.StatusBadRequest, message)
}

func Validation(message string) *Error {
	return New(KindValidation, http.StatusBadRequest, message)
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, http.StatusForbidden, message)
}

func Conflict(message string) *Error {
	return New(KindConflict, http.StatusConflict, message)
}

func Internal(message string, err error) *Error {
	return Wrap(err, KindInternal, http.StatusInternalServerError, message)
}

// As returns err as an *Error, turning anything unrecognised into an internal error.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}

func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation
}
