package scanner

import (
	"strings"

	"github.com/alanyoungcy/polyscan/internal/domain"
)

// DefaultKeywords catches competitive-gaming markets whose tags are missing
// or inconsistent.
var DefaultKeywords = []string{
	"esports", "e-sports",
	"league of legends",
	"dota", "dota 2",
	"counter-strike", "cs2", "cs:go", "csgo",
	"valorant",
	"overwatch",
	"rocket league",
	"call of duty",
	"rainbow six",
	"starcraft",
	"fortnite",
	"pubg",
	"apex legends",
	"mobile legends",
	"blast premier",
	"lol worlds",
}

// KeywordExclusion is a listing removed by FilterByKeywords.
type KeywordExclusion struct {
	Listing *domain.Listing
	Matched []string
}

// FilterByKeywords removes listings whose question, event title, category or
// subcategory contains any keyword, ignoring case. Empty keywords are ignored.
func FilterByKeywords(listings []*domain.Listing, keywords []string) (kept []*domain.Listing, dropped []KeywordExclusion) {
	needles := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(k); k != "" {
			needles = append(needles, k)
		}
	}

	kept = make([]*domain.Listing, 0, len(listings))
	for _, l := range listings {
		text := l.SearchText()
		var matched []string
		for _, k := range needles {
			if strings.Contains(text, k) {
				matched = append(matched, k)
			}
		}
		if len(matched) > 0 {
			dropped = append(dropped, KeywordExclusion{Listing: l, Matched: matched})
			continue
		}
		kept = append(kept, l)
	}
	return kept, dropped
}
