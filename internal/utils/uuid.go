package utils

import "github.com/google/uuid"

// NewUUID returns a time-ordered (v7) UUID string, falling back to a random
// v4 UUID if v7 generation fails. v7 keeps primary-key inserts roughly
// append-ordered in the database.
func NewUUID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
