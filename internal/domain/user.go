package domain

import "time"

// User is a festival attendee identified by a locally stored opaque ID.
// There are no credentials: the ID returned at registration is the whole
// identity, and the server trusts the X-User-Id header as-is.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// MaxUserNameLength bounds display names.
const MaxUserNameLength = 30
