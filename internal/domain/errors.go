package domain

import "errors"

// Domain errors. Handlers dispatch on these with errors.Is and map them to
// HTTP statuses; services never return raw storage errors for expected
// failure paths.
var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is not active")
	ErrUnauthorized       = errors.New("super admin privileges required")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyInitialized = errors.New("super admin already exists")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrValidation         = errors.New("invalid input")
)
