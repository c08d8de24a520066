package scanner

import (
	"fmt"
	"strings"
	"time"

	"github.com/alanyoungcy/polyscan/internal/domain"
)

// DefaultWindowHours is the forward-looking resolution window.
const DefaultWindowHours = 48

// DefaultURLTemplate builds the public market link. "{slug}" is replaced with
// the listing slug.
const DefaultURLTemplate = "https://polymarket.com/event/{slug}"

// endDateLayouts are tried in order. Layouts without an offset are read as UTC.
var endDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseEndDate parses an ISO 8601 resolution timestamp. A trailing "Z" is the
// same as "+00:00".
func ParseEndDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range endDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("end date: %w: %q", domain.ErrMalformed, s)
}

// MarketURL fills template with slug. An empty slug gives an empty link.
func MarketURL(template, slug string) string {
	if slug == "" {
		return ""
	}
	return strings.ReplaceAll(template, "{slug}", slug)
}

// WindowResult is the output of FilterWindow.
type WindowResult struct {
	In  []domain.Row
	Out []domain.Row

	// Earliest and Latest span every parseable end date, in window or not.
	// Both are zero when no row had one.
	Earliest time.Time
	Latest   time.Time
}

// WindowFilter keeps rows resolving within Hours of Now.
type WindowFilter struct {
	Now         time.Time
	Hours       float64
	URLTemplate string
}

// Apply retains rows whose end date E satisfies Now <= E <= Now+Hours. Both
// bounds are inclusive. Retained rows get ResolvesAt, HoursRemaining and URL.
func (w WindowFilter) Apply(rows []domain.Row, obs Observer) WindowResult {
	var res WindowResult
	now := w.Now.UTC()
	limit := now.Add(time.Duration(w.Hours * float64(time.Hour)))
	tmpl := w.URLTemplate
	if tmpl == "" {
		tmpl = DefaultURLTemplate
	}

	for _, r := range rows {
		raw := r.Listing.EndDate
		if strings.TrimSpace(raw) == "" {
			res.Out = append(res.Out, r)
			continue
		}
		end, err := ParseEndDate(raw)
		if err != nil {
			obs.Warn(StageWindow, r.Listing.ID, err.Error())
			res.Out = append(res.Out, r)
			continue
		}

		if res.Earliest.IsZero() || end.Before(res.Earliest) {
			res.Earliest = end
		}
		if res.Latest.IsZero() || end.After(res.Latest) {
			res.Latest = end
		}

		if end.Before(now) || end.After(limit) {
			res.Out = append(res.Out, r)
			continue
		}
		r.ResolvesAt = end
		r.HoursRemaining = end.Sub(now).Hours()
		r.URL = MarketURL(tmpl, r.Listing.Slug)
		res.In = append(res.In, r)
	}

	obs.StageDone(StageWindow, len(res.In), len(res.Out))
	return res
}
