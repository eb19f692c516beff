package utils

import "github.com/google/uuid"

// UUIDGenerator issues time-ordered record IDs for the vault stores.
type UUIDGenerator struct{}

func NewUUIDGenerator() UUIDGenerator {
	return UUIDGenerator{}
}

// Generate returns a UUIDv7. It falls back to a random v4 when the clock
// cannot be read.
func (UUIDGenerator) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
