package domain

import "strings"

// Tag is a category tag attached to a listing, or resolved by slug for
// exclusion matching.
type Tag struct {
	ID    int64
	HasID bool // false when the upstream id was absent or not an integer
	Slug  string
	Label string
}

// EventInfo is the parent event a listing belongs to.
type EventInfo struct {
	Title string
}

// Listing is one tradable market from the upstream snapshot. Stages read it
// and never modify it.
type Listing struct {
	ID          string
	Question    string
	Event       *EventInfo // nil when the market has no parent event
	Category    string
	Subcategory string
	OutcomesRaw string // serialized outcome names, e.g. `["Yes","No"]`
	PricesRaw   string // serialized prices, e.g. `["0.97","0.03"]`
	Volume      float64
	Liquidity   float64
	EndDate     string // ISO 8601 as sent upstream; empty when absent
	Slug        string
	Tags        []Tag
}

// EventTitle returns the parent event title, or "" when there is none.
func (l *Listing) EventTitle() string {
	if l.Event == nil {
		return ""
	}
	return l.Event.Title
}

// SearchText returns the lower-cased text used for keyword matching.
func (l *Listing) SearchText() string {
	parts := make([]string, 0, 4)
	parts = append(parts, l.Question)
	if t := l.EventTitle(); t != "" {
		parts = append(parts, t)
	}
	parts = append(parts, l.Category, l.Subcategory)
	return strings.ToLower(strings.Join(parts, " "))
}
