package application

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these to HTTP status codes with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrConflict            = errors.New("conflict")
	ErrInsufficientBalance = errors.New("insufficient token balance")
	ErrNotEnrolled         = errors.New("not enrolled")
	ErrUnavailable         = errors.New("service unavailable")
	ErrInvalidInput        = errors.New("invalid input")
)

// Error is a client-facing message tagged with one of the kinds above.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

var (
	ErrInvalidCredentials = newError(ErrInvalidInput, "invalid credentials")
	ErrInvalidRole        = newError(ErrInvalidInput, "role must be teacher or student")
	ErrPasswordTooLong    = newError(ErrInvalidInput, "password must be at most 72 bytes")
	ErrUserNotFound       = newError(ErrNotFound, "user not found")
	ErrStudentNotFound    = newError(ErrNotFound, "student not found")
	ErrCourseNotFound     = newError(ErrNotFound, "course not found")
	ErrNoFeaturedCourse   = newError(ErrNotFound, "no featured course found")
	ErrEmailTaken         = newError(ErrConflict, "user already exists")
	ErrAlreadyEnrolled    = newError(ErrConflict, "already enrolled")
	ErrNotAuthorized      = newError(ErrForbidden, "user not authorized")
	ErrNotTeacher         = newError(ErrForbidden, "teacher role required")
	ErrMustEnroll         = newError(ErrForbidden, "user must be enrolled to comment")
	ErrNotCommentAuthor   = newError(ErrForbidden, "user not authorized to delete comments")
)

// unavailable wraps a store failure so callers can classify it without
// losing the cause for logs.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}
