// Package id generates opaque user identifiers.
package id

import (
	"strings"

	"github.com/google/uuid"
)

// userIDLength is the number of hex characters in a user ID.
// Short enough to live comfortably in a URL or header, long enough
// that collisions are not a practical concern at festival scale.
const userIDLength = 16

// NewUserID returns a new opaque user ID: a random UUID with the
// dashes stripped, truncated to 16 hex characters.
func NewUserID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return raw[:userIDLength]
}
