package services

import (
	"errors"
	"fmt"

	"github.com/taskforge/task-manager-api/internal/metrics"
	"gorm.io/gorm"
)

// Error kinds. Handlers map each kind to one HTTP status.
var (
	ErrValidation      = errors.New("validation error")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnavailable     = errors.New("service unavailable")
)

// Error is a failure the client is allowed to see. Msg is returned verbatim.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Kind }

var (
	ErrTaskNotFound    = &Error{Kind: ErrNotFound, Msg: "Task not found."}
	ErrCommentNotFound = &Error{Kind: ErrNotFound, Msg: "Task comment not found."}

	// ErrUserNotFound is a validation error: users are looked up by query parameter.
	ErrUserNotFound = &Error{Kind: ErrValidation, Msg: "User not found."}

	ErrInvalidCredentials = &Error{Kind: ErrUnauthenticated, Msg: "Invalid username or password."}
	ErrInvalidToken       = &Error{Kind: ErrUnauthenticated, Msg: "Invalid or expired token."}

	ErrAIServiceNotConfigured = &Error{Kind: ErrUnavailable, Msg: "Task drafting is not configured."}
)

func validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// forbidden records the refusal and returns a Forbidden error.
func forbidden(action, msg string) error {
	metrics.AuthorizationDeniedTotal.WithLabelValues(action).Inc()
	return &Error{Kind: ErrForbidden, Msg: msg}
}

// lookupError turns a missing row into notFound and wraps anything else.
func lookupError(err error, notFound error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return fmt.Errorf("failed to find %s: %w", what, err)
}
