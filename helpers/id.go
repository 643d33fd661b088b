package helpers

import "github.com/google/uuid"

// NewID generates a random identifier for rows and tokens
func NewID() string {
	return uuid.NewString()
}

// IsID reports whether s looks like an identifier made by NewID
func IsID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
