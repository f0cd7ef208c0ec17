package domain

import (
	"slices"
	"time"
)

// Category classifies a sake entry. The festival pours more than nihonshu,
// so the fixed set covers liqueurs and mirin booths too.
type Category string

const (
	CategorySeishu  Category = "清酒"
	CategoryLiqueur Category = "リキュール"
	CategoryMirin   Category = "みりん"
	CategoryOther   Category = "その他"
)

// Categories is the fixed set of valid sake categories.
var Categories = []Category{CategorySeishu, CategoryLiqueur, CategoryMirin, CategoryOther}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Sake is a single sake poured at a brewery's booth.
// Seeded rows are immutable through the API; rows added by attendees
// (IsCustom) stay editable.
type Sake struct {
	ID               int64     `json:"sakeId"`
	BreweryID        int64     `json:"breweryId"`
	Name             string    `json:"name"`
	Type             *string   `json:"type"`
	Category         Category  `json:"category"`
	IsLimited        bool      `json:"isLimited"`
	IsCustom         bool      `json:"isCustom"`
	PaidTastingPrice *int      `json:"paidTastingPrice"` // yen; nil when included in admission
	AddedBy          *string   `json:"addedBy"`          // user ID for custom sakes
	CreatedAt        time.Time `json:"createdAt"`
}

// Editable reports whether the sake may be modified through the API.
// Reference data loaded by the seeder is read-only; only attendee-added
// rows are editable.
func (s *Sake) Editable() bool {
	return s.IsCustom
}
