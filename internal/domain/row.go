package domain

import "time"

// Certainty sides for binary listings. Multi-outcome rows use the outcome
// label itself.
const (
	SideYes = "YES"
	SideNo  = "NO"
)

// Classification is the price-threshold verdict for one listing.
type Classification struct {
	Binary bool

	// Binary listings.
	YesPrice float64
	NoPrice  float64

	// Multi-outcome listings.
	Outcomes []string
	Prices   []float64
}

// Row is one (listing, qualifying outcome) pair. Listing is shared and must be
// treated as read-only.
type Row struct {
	Listing       *Listing
	Outcome       string
	YesPrice      float64
	NoPrice       *float64 // nil for multi-outcome rows
	CertaintySide string
	Binary        bool

	// Set by the time window stage.
	ResolvesAt     time.Time
	HoursRemaining float64
	URL            string
}

// ReportRecord is one line of the exported table.
type ReportRecord struct {
	EventTitle     string
	Question       string
	Outcome        string
	YesPrice       float64
	NoPrice        *float64
	CertaintySide  string
	Category       string
	Subcategory    string
	Volume         float64
	Liquidity      float64
	ResolveTime    string  // "2006-01-02 15:04:05 UTC"
	HoursRemaining float64 // rounded to two decimals
	URL            string
	LinkText       string
	AIConfidence   string
	AIRationale    string
}
