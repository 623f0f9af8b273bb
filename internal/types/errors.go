package types

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned when a request is made without a token
	// or the API rejects the token.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrMFARequired is returned by login when the account has MFA enabled
	// and no code or secret was supplied.
	ErrMFARequired = errors.New("multi-factor authentication required")

	// ErrLoginFailed is returned when the login endpoint rejects credentials.
	ErrLoginFailed = errors.New("login failed")

	ErrRateLimited = errors.New("rate limited")
	ErrTimeout     = errors.New("request timeout")
	ErrNotFound    = errors.New("resource not found")
	ErrServerError = errors.New("server error")
)

// Error is an HTTP level failure with the status that produced it.
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Err        error  `json:"-"`
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return fmt.Sprintf("error: %s", e.Code)
	}
}

// Unwrap exposes the sentinel the status mapped to.
func (e *Error) Unwrap() error { return e.Err }

// GraphQLError is one entry of a GraphQL "errors" array.
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// GraphQLErrors wraps a non-empty "errors" array from a 200 response.
type GraphQLErrors struct {
	Errors []*GraphQLError `json:"errors"`
}

func (e *GraphQLErrors) Error() string {
	if len(e.Errors) == 0 {
		return "GraphQL error"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Message
	}
	return fmt.Sprintf("%s (and %d more)", e.Errors[0].Message, len(e.Errors)-1)
}
