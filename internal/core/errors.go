package core

import "errors"

// Service errors mapped to HTTP statuses by the api package.
var (
	ErrItemNotFound    = errors.New("item not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrForbidden       = errors.New("only the poster can modify this item")
	ErrValidation      = errors.New("validation failed")
	ErrEmailTaken      = errors.New("email address is already registered")
	ErrAuthUnavailable = errors.New("authentication unavailable")
)
