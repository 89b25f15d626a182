package apperrors

import (
	"errors"
)

var (
	// Login / registration failures.
	// ErrInvalidCredentials is generic on purpose: it must not tell which of
	// email or password was wrong
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrEmailAlreadyRegistered = errors.New("email already registered")

	ErrUserNotFound    = errors.New("user not found")
	ErrAccountNotFound = errors.New("account not found or deactivated")

	// Refresh session failures
	ErrSessionNotFound  = errors.New("refresh session not found")
	ErrSessionExpired   = errors.New("refresh session expired")
	ErrInvalidTokenType = errors.New("token is not a refresh token")
)
