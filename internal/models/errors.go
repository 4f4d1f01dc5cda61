package models

import "errors"

// Sentinel errors recognized at the HTTP boundary. Repositories and services
// wrap these with fmt.Errorf("...: %w", ...) so handlers can map them to
// status codes with errors.Is.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	ErrSweetNotFound  = errors.New("sweet not found")
	ErrDuplicateSweet = errors.New("sweet with this name and category already exists")
	ErrOutOfStock     = errors.New("out of stock")
	ErrMissingQuery   = errors.New("search query required")
	ErrInvalidAmount  = errors.New("valid quantity required")
)
