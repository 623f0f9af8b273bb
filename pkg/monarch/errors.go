package monarch

import (
	"errors"
	"fmt"
	"strings"

	internalTypes "github.com/eshaffer321/monarch-mcp/internal/types"
)

// Sentinels shared with the transport so callers can use errors.Is without
// importing internal packages.
var (
	ErrNotAuthenticated = internalTypes.ErrNotAuthenticated
	ErrMFARequired      = internalTypes.ErrMFARequired
	ErrLoginFailed      = internalTypes.ErrLoginFailed
	ErrRateLimited      = internalTypes.ErrRateLimited
	ErrTimeout          = internalTypes.ErrTimeout
	ErrNotFound         = internalTypes.ErrNotFound
	ErrServerError      = internalTypes.ErrServerError

	// ErrInvalidRequest is returned before any call is made when required
	// arguments are missing.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrRefreshTimeout is returned by RefreshAndWait when syncs are still
	// running at the deadline.
	ErrRefreshTimeout = errors.New("refresh timeout")
)

// GraphQLErrors is returned when a response carries a top level errors array.
type GraphQLErrors = internalTypes.GraphQLErrors

// Error is a mutation payload error.
type Error struct {
	Code        string        `json:"code"`
	Message     string        `json:"message"`
	FieldErrors []*FieldError `json:"fieldErrors,omitempty"`
	Err         error         `json:"-"`
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.FieldErrors) > 0 {
		parts := make([]string, 0, len(e.FieldErrors))
		for _, fe := range e.FieldErrors {
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, strings.Join(fe.Messages, ", ")))
		}
		if msg == "" {
			msg = strings.Join(parts, "; ")
		} else {
			msg = msg + " (" + strings.Join(parts, "; ") + ")"
		}
	}
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// payloadError converts the first mutation payload error, if any.
func payloadError(errs []*PayloadError) error {
	if len(errs) == 0 || errs[0] == nil {
		return nil
	}
	return &Error{Code: errs[0].Code, Message: errs[0].Message, FieldErrors: errs[0].FieldErrors}
}

// IsAuthError reports whether err means the token is missing or rejected.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, ErrMFARequired) ||
		errors.Is(err, ErrLoginFailed)
}
