package domain

import (
	"errors"
)

var (
	// Repository-level conditions.
	ErrUserNotFound    = errors.New("user not found")
	ErrUniqueViolation = errors.New("unique constraint violated")

	// Core-level conditions surfaced to the route layer.
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInternal               = errors.New("internal error")

	// Token codec results. Callers collapse both into ErrAuthenticationRequired.
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token is expired")
)
