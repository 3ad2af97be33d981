package util

import (
	"github.com/google/uuid"
)

// NewID returns a random identifier suitable for rooms and connected players
func NewID() string {
	return uuid.New().String()
}
