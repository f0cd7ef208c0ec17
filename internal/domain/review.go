package domain

import (
	"slices"
	"time"
)

// ValidTags is the fixed tasting-tag vocabulary. The client groups
// 甘口/辛口 and 濃醇/淡麗 as mutually exclusive pairs, but the server
// accepts any subset of this list.
var ValidTags = []string{
	"甘口",
	"辛口",
	"濃醇",
	"淡麗",
	"にごり",
	"酸",
	"旨味",
	"熟成",
	"苦味",
	"発泡",
}

// Rating bounds for a review.
const (
	MinRating = 1
	MaxRating = 5
)

// InvalidTags returns the subset of tags that are not in the vocabulary,
// in input order. An empty result means all tags are valid.
func InvalidTags(tags []string) []string {
	var invalid []string
	for _, tag := range tags {
		if !slices.Contains(ValidTags, tag) {
			invalid = append(invalid, tag)
		}
	}
	return invalid
}

// Review is a star rating with optional tags and comment for one sake.
// A user may review the same sake more than once (one row per tasting);
// only the author may edit or delete a row.
type Review struct {
	ID        int64     `json:"reviewId"`
	UserID    string    `json:"userId"`
	SakeID    int64     `json:"sakeId"`
	Rating    int       `json:"rating"`
	Tags      []string  `json:"tags"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// BreweryNote is a free-form comment attached to a brewery rather than
// a specific sake.
type BreweryNote struct {
	ID        int64     `json:"noteId"`
	UserID    string    `json:"userId"`
	BreweryID int64     `json:"breweryId"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// MaxNoteLength bounds brewery note comments.
const MaxNoteLength = 500

// Bookmark marks a sake a user wants to come back to.
// Unique per (user, sake).
type Bookmark struct {
	ID        int64     `json:"bookmarkId"`
	UserID    string    `json:"userId"`
	SakeID    int64     `json:"sakeId"`
	CreatedAt time.Time `json:"createdAt"`
}
