// Package idgen issues record identifiers.
package idgen

import "github.com/google/uuid"

// New returns a time-ordered UUIDv7 string.
func New() string {
	return uuid.Must(uuid.NewV7()).String()
}
