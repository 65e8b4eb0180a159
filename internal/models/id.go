package models

import "github.com/google/uuid"

// NewID returns a time-ordered identifier: a UUIDv7 carries a millisecond
// timestamp followed by random bits, and the generator keeps ids monotonic
// within the process, so concurrent creations never collide.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
