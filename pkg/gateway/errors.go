package gateway

import (
	"errors"
	"fmt"
)

// Error is a non-2xx response or a transport failure on any gateway call.
type Error struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("gateway %s failed (status %d): %s", e.Op, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("gateway %s failed (status %d)", e.Op, e.StatusCode)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AuthError reports an invalid or expired credential.
type AuthError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway %s: credential rejected (status %d)", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("gateway %s: credential rejected: %s", e.Op, e.Message)
}

// IsAuthError reports whether err carries an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
