package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrActorMissing            = errors.New("authenticated user is required")
)
