package scanner

import (
	"math"
	"sort"

	"github.com/alanyoungcy/polyscan/internal/domain"
)

// Columns is the header of the exported table, in order.
var Columns = []string{
	"Event_Title",
	"Market_Question",
	"Outcome",
	"YES_Price",
	"NO_Price",
	"Certainty_Side",
	"Category",
	"Subcategory",
	"Volume",
	"Liquidity",
	"Resolve_DateTime",
	"Hours_Remaining",
	"Market_URL",
	"AI_Confidence",
	"AI_Rationale",
}

const (
	resolveTimeLayout = "2006-01-02 15:04:05 UTC"
	linkText          = "open"
)

// SortRows returns a copy of rows ordered by resolution time, earliest first.
// Equal times keep their input order.
func SortRows(rows []domain.Row) []domain.Row {
	out := make([]domain.Row, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ResolvesAt.Before(out[j].ResolvesAt)
	})
	return out
}

// Render sorts rows and converts each to a report record.
func Render(rows []domain.Row) []domain.ReportRecord {
	sorted := SortRows(rows)
	records := make([]domain.ReportRecord, 0, len(sorted))
	for _, r := range sorted {
		l := r.Listing
		text := ""
		if r.URL != "" {
			text = linkText
		}
		records = append(records, domain.ReportRecord{
			EventTitle:     l.EventTitle(),
			Question:       l.Question,
			Outcome:        r.Outcome,
			YesPrice:       r.YesPrice,
			NoPrice:        r.NoPrice,
			CertaintySide:  r.CertaintySide,
			Category:       l.Category,
			Subcategory:    l.Subcategory,
			Volume:         l.Volume,
			Liquidity:      l.Liquidity,
			ResolveTime:    r.ResolvesAt.UTC().Format(resolveTimeLayout),
			HoursRemaining: roundHours(r.HoursRemaining),
			URL:            r.URL,
			LinkText:       text,
		})
	}
	return records
}

func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
