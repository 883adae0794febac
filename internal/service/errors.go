package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure. The HTTP layer maps each kind to one status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalidState
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidState:
		return "invalid_state"
	}
	return "internal"
}

// Error is the typed outcome every service operation fails with.
type Error struct {
	Kind    Kind
	Message string // user-facing
	Err     error  // underlying cause, never shown to clients in production
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches by kind and message. A target without a message matches any
// error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Message == "" || e.Message == t.Message)
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validationf builds a validation error with a formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// internalError wraps an unexpected failure (usually from the store).
func internalError(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf reports the kind of err. Errors that are not *Error are internal.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// Kind-only targets for errors.Is.
var (
	ErrValidation      = &Error{Kind: KindValidation}
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated}
	ErrForbidden       = &Error{Kind: KindForbidden}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrInvalidState    = &Error{Kind: KindInvalidState}
	ErrInternal        = &Error{Kind: KindInternal}
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = newError(KindConflict, "user with this email or username already exists")
	ErrAuthenticationFailed = newError(KindUnauthenticated, "invalid email or password")
	ErrInvalidToken         = newError(KindUnauthenticated, "invalid or expired token")
	ErrWrongPassword        = newError(KindUnauthenticated, "current password is incorrect")
	ErrUserNotFound         = newError(KindNotFound, "user not found")
	ErrTrainerOnlyFields    = newError(KindValidation, "specialization, experience, certificates and social links are available to trainers only")

	ErrCourseNotFound     = newError(KindNotFound, "course not found")
	ErrCourseAccessDenied = newError(KindForbidden, "you do not own this course")
	ErrCourseNotPublished = newError(KindInvalidState, "course is not published yet")
	ErrAlreadyEnrolled    = newError(KindConflict, "you are already enrolled in this course")
	ErrAlreadyReviewed    = newError(KindConflict, "you have already reviewed this course")
	ErrEnrollmentNotFound = newError(KindNotFound, "you are not enrolled in this course")
	ErrStatsAccessDenied  = newError(KindForbidden, "no rights to view statistics of this course")
	ErrCapabilityDenied   = newError(KindForbidden, "your role does not allow this action")

	ErrWorkoutNotFound = newError(KindNotFound, "workout not found")
	ErrMealNotFound    = newError(KindNotFound, "meal not found")

	ErrMediaDisabled      = newError(KindInvalidState, "media storage is not configured")
	ErrUploadNotFound     = newError(KindNotFound, "upload not found")
	ErrUploadAccessDenied = newError(KindForbidden, "access denied to this upload")
	ErrObjectNotUploaded  = newError(KindValidation, "object has not been uploaded")
	ErrUploadExists       = newError(KindConflict, "upload already confirmed")
)
