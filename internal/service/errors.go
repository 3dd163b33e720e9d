package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrInvalidCredentials covers both "no such account" and "wrong
	// password" on login, so responses cannot be used to probe which emails
	// are registered.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrAccountNotFound        = errors.New("account not found")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	// ErrRegistrationIncomplete is returned when the account row vanished
	// between creation and finalization (the sweeper got there first).
	ErrRegistrationIncomplete = errors.New("registration could not be completed")
)
