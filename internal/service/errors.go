package service

import "errors"

// Common service errors
var (
	// ErrEstimateNotFound is returned when no history entry has the given id
	ErrEstimateNotFound = errors.New("estimate not found")

	// ErrInvalidStatus is returned when an unknown status value is requested
	ErrInvalidStatus = errors.New("invalid estimate status")

	// ErrEmailTaken is returned when signing up with an email that already has an account
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned on a failed login
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")
)
