package scanner

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alanyoungcy/polyscan/internal/domain"
)

// DefaultThreshold is the near-certainty price threshold.
const DefaultThreshold = 0.95

// Classified is a listing that passed the price threshold, joined with its
// classification.
type Classified struct {
	Listing *domain.Listing
	Result  domain.Classification
}

// Unqualified is a listing that did not pass the price threshold. Reason is
// empty when the prices simply were not extreme enough.
type Unqualified struct {
	Listing *domain.Listing
	Reason  string
}

// DecodeOutcomes parses a serialized outcome-name vector.
func DecodeOutcomes(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("outcomes: %w: empty", domain.ErrMalformed)
	}
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, fmt.Errorf("outcomes: %w: %v", domain.ErrMalformed, err)
	}
	return names, nil
}

// DecodePrices parses a serialized price vector. Elements may be JSON strings
// ("0.97") or numbers (0.97). NaN and infinities are rejected.
func DecodePrices(raw string) ([]float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("prices: %w: empty", domain.ErrMalformed)
	}
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return nil, fmt.Errorf("prices: %w: %v", domain.ErrMalformed, err)
	}

	prices := make([]float64, 0, len(elems))
	for i, e := range elems {
		var p float64
		var s string
		if err := json.Unmarshal(e, &s); err == nil {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, fmt.Errorf("prices[%d]: %w: %q is not numeric", i, domain.ErrMalformed, s)
			}
			p = v
		} else if err := json.Unmarshal(e, &p); err != nil {
			return nil, fmt.Errorf("prices[%d]: %w: %s", i, domain.ErrMalformed, string(e))
		}
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("prices[%d]: %w: not finite", i, domain.ErrMalformed)
		}
		prices = append(prices, p)
	}
	return prices, nil
}

// isBinary reports whether names is exactly ["Yes","No"].
func isBinary(names []string) bool {
	return len(names) == 2 && names[0] == "Yes" && names[1] == "No"
}

// nearCertainBinary reports whether a YES price is at or beyond either end of
// the threshold band.
func nearCertainBinary(yes, threshold float64) bool {
	return yes >= threshold || yes <= 1-threshold
}

// Classify decides, per listing, whether the market is binary and whether its
// prices clear threshold. Decode failures and length mismatches are reported
// to obs and the listing lands in the unqualified partition.
func Classify(listings []*domain.Listing, threshold float64, obs Observer) (qualified []Classified, unqualified []Unqualified) {
	for _, l := range listings {
		res, reason, ok := classifyOne(l, threshold)
		if reason != "" {
			obs.Warn(StageClassify, l.ID, reason)
		}
		if !ok {
			unqualified = append(unqualified, Unqualified{Listing: l, Reason: reason})
			continue
		}
		qualified = append(qualified, Classified{Listing: l, Result: res})
	}
	obs.StageDone(StageClassify, len(qualified), len(unqualified))
	return qualified, unqualified
}

func classifyOne(l *domain.Listing, threshold float64) (domain.Classification, string, bool) {
	names, err := DecodeOutcomes(l.OutcomesRaw)
	if err != nil {
		return domain.Classification{}, err.Error(), false
	}
	prices, err := DecodePrices(l.PricesRaw)
	if err != nil {
		return domain.Classification{}, err.Error(), false
	}
	if len(prices) == 0 {
		return domain.Classification{}, "no prices", false
	}

	if isBinary(names) {
		// A single price is allowed; the complement is derived.
		if len(prices) > 2 {
			return domain.Classification{}, fmt.Sprintf("outcome/price length mismatch: %d names, %d prices", len(names), len(prices)), false
		}
		yes := prices[0]
		no := 1 - yes
		if len(prices) == 2 {
			no = prices[1]
		}
		res := domain.Classification{Binary: true, YesPrice: yes, NoPrice: no}
		return res, "", nearCertainBinary(yes, threshold)
	}

	if len(names) != len(prices) {
		return domain.Classification{}, fmt.Sprintf("outcome/price length mismatch: %d names, %d prices", len(names), len(prices)), false
	}
	best := prices[0]
	for _, p := range prices[1:] {
		best = math.Max(best, p)
	}
	res := domain.Classification{Outcomes: names, Prices: prices}
	return res, "", best >= threshold
}
