package api

import "github.com/google/uuid"

// NewID returns a random UUIDv4 string for drafts and sessions.
func NewID() string {
	return uuid.NewString()
}

// ShortID trims an id to its first 8 characters for display.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
