package data

import "github.com/google/uuid"

// NewVersionID returns the storage identity for one record instance: a
// random v4 UUID, independent of record content. Every accepted record gets
// exactly one, at creation time.
func NewVersionID() string {
	return uuid.NewString()
}
