package errors

import (
	"errors"
	"fmt"
)

// Common error types for the LABit client
var (
	// Session errors
	ErrNoRefreshToken  = errors.New("no refresh token")
	ErrRefreshFailed   = errors.New("token refresh failed")
	ErrSessionEnded    = errors.New("session ended")
	ErrSessionNotFound = errors.New("session not found")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Request errors
	ErrInvalidBaseURL = errors.New("invalid base URL")
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidBody    = errors.New("invalid response body")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
