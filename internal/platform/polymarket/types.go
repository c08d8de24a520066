package polymarket

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/alanyoungcy/polyscan/internal/domain"
)

// flexFloat unmarshals from a JSON number or a numeric string. Anything else
// decodes to zero so one odd field does not fail the whole page.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*f = flexFloat(v)
			return nil
		}
	}
	*f = 0
	return nil
}

// flexID unmarshals a tag id sent as a JSON integer or a numeric string.
// Valid is false when the id is absent or not an integer.
type flexID struct {
	Value int64
	Valid bool
}

func (f *flexID) UnmarshalJSON(data []byte) error {
	*f = flexID{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexID{Value: n, Valid: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			*f = flexID{Value: v, Valid: true}
		}
	}
	return nil
}

// encodedArray holds a JSON array that Gamma sends either as a string
// containing JSON (`"[\"Yes\",\"No\"]"`) or as a plain array. It keeps the
// array text; decoding the elements is left to the scanner.
type encodedArray string

func (e *encodedArray) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*e = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = encodedArray(s)
		return nil
	}
	*e = encodedArray(data)
	return nil
}

// eventRef is the optional parent event. Gamma may send an object, a bare
// title string, or nothing.
type eventRef struct {
	Title string
	Set   bool
}

func (e *eventRef) UnmarshalJSON(data []byte) error {
	*e = eventRef{}
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = eventRef{Title: s, Set: true}
		return nil
	}
	var obj struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		*e = eventRef{Title: obj.Title, Set: true}
	}
	return nil
}

// --------------------------------------------------------------------------
// Gamma API DTOs
// --------------------------------------------------------------------------

// APITag is a tag as returned by the Gamma API.
type APITag struct {
	ID    flexID `json:"id"`
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// ToDomainTag converts an APITag to a domain.Tag.
func (t *APITag) ToDomainTag() domain.Tag {
	return domain.Tag{
		ID:    t.ID.Value,
		HasID: t.ID.Valid,
		Slug:  t.Slug,
		Label: t.Label,
	}
}

// APIMarket represents a market as returned by the Gamma /markets endpoint.
type APIMarket struct {
	ID            string       `json:"id"`
	Question      string       `json:"question"`
	Slug          string       `json:"slug"`
	Category      string       `json:"category"`
	Subcategory   string       `json:"subcategory"`
	Outcomes      encodedArray `json:"outcomes"`      // e.g. "[\"Yes\",\"No\"]"
	OutcomePrices encodedArray `json:"outcomePrices"` // e.g. "[\"0.5\",\"0.5\"]"
	Volume        flexFloat    `json:"volume"`
	VolumeNum     flexFloat    `json:"volumeNum"`
	Liquidity     flexFloat    `json:"liquidity"`
	LiquidityNum  flexFloat    `json:"liquidityNum"`
	EndDate       string       `json:"endDate"`
	EndDateISO    string       `json:"endDateIso"`
	Events        []eventRef   `json:"events"`
	Event         eventRef     `json:"event"`
	Tags          []APITag     `json:"tags"`
}

// ToDomainListing converts a Gamma APIMarket to a domain.Listing. Optional
// fields are resolved here once: the event comes from the first entry of
// "events", falling back to "event"; numeric fields prefer the *Num variants.
func (m *APIMarket) ToDomainListing() domain.Listing {
	l := domain.Listing{
		ID:          m.ID,
		Question:    m.Question,
		Slug:        m.Slug,
		Category:    m.Category,
		Subcategory: m.Subcategory,
		OutcomesRaw: string(m.Outcomes),
		PricesRaw:   string(m.OutcomePrices),
		Volume:      float64(m.Volume),
		Liquidity:   float64(m.Liquidity),
		EndDate:     m.EndDate,
	}
	if m.VolumeNum != 0 {
		l.Volume = float64(m.VolumeNum)
	}
	if m.LiquidityNum != 0 {
		l.Liquidity = float64(m.LiquidityNum)
	}
	if l.EndDate == "" {
		l.EndDate = m.EndDateISO
	}

	switch {
	case len(m.Events) > 0 && m.Events[0].Set:
		l.Event = &domain.EventInfo{Title: m.Events[0].Title}
	case m.Event.Set:
		l.Event = &domain.EventInfo{Title: m.Event.Title}
	}

	if len(m.Tags) > 0 {
		l.Tags = make([]domain.Tag, 0, len(m.Tags))
		for i := range m.Tags {
			l.Tags = append(l.Tags, m.Tags[i].ToDomainTag())
		}
	}
	return l
}
