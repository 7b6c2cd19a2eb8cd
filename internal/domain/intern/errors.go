package intern

import "errors"

var (
	ErrInternNotFound    = errors.New("intern not found")
	ErrInternInactive    = errors.New("intern is not active")
	ErrInternEmailExists = errors.New("an active intern with this email already exists")
)
