package domain

import "time"

// TimelineItemType discriminates the two feed streams.
type TimelineItemType string

const (
	TimelineItemReview      TimelineItemType = "review"
	TimelineItemBreweryNote TimelineItemType = "brewery_note"
)

// TimelineItem is one entry of the merged activity feed. Type selects
// which of the optional field groups is populated: reviews carry the
// sake fields, notes carry Content.
type TimelineItem struct {
	Type        TimelineItemType `json:"type"`
	ID          int64            `json:"id"`
	UserName    string           `json:"userName"`
	CreatedAt   time.Time        `json:"createdAt"`
	BreweryID   int64            `json:"breweryId"`
	BreweryName string           `json:"breweryName"`

	// Review fields.
	SakeID           int64    `json:"sakeId,omitempty"`
	SakeName         string   `json:"sakeName,omitempty"`
	Rating           int      `json:"rating,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	Comment          string   `json:"comment,omitempty"`
	IsLimited        bool     `json:"isLimited,omitempty"`
	PaidTastingPrice *int     `json:"paidTastingPrice,omitempty"`

	// Brewery note fields.
	Content string `json:"content,omitempty"`
}
