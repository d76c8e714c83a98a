package domain

import "github.com/google/uuid"

// NewID returns a random 128-bit identifier in canonical uuid form.
func NewID() string {
	return uuid.New().String()
}
