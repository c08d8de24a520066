package scanner

import (
	"strings"

	"github.com/alanyoungcy/polyscan/internal/domain"
)

// TagExclusion is a listing removed by FilterByTags, with the tags that
// matched.
type TagExclusion struct {
	Listing *domain.Listing
	Matched []domain.Tag
}

// tagMatcher holds the lookup sets built from the resolved exclusion tags.
type tagMatcher struct {
	ids    map[int64]struct{}
	slugs  map[string]struct{}
	labels map[string]struct{}
}

func newTagMatcher(excluded map[string]domain.Tag) tagMatcher {
	m := tagMatcher{
		ids:    make(map[int64]struct{}, len(excluded)),
		slugs:  make(map[string]struct{}, len(excluded)),
		labels: make(map[string]struct{}, len(excluded)),
	}
	for _, t := range excluded {
		if t.HasID {
			m.ids[t.ID] = struct{}{}
		}
		if s := strings.ToLower(strings.TrimSpace(t.Slug)); s != "" {
			m.slugs[s] = struct{}{}
		}
		if l := strings.ToLower(strings.TrimSpace(t.Label)); l != "" {
			m.labels[l] = struct{}{}
		}
	}
	return m
}

func (m tagMatcher) matches(t domain.Tag) bool {
	if t.HasID {
		if _, ok := m.ids[t.ID]; ok {
			return true
		}
	}
	if s := strings.ToLower(strings.TrimSpace(t.Slug)); s != "" {
		if _, ok := m.slugs[s]; ok {
			return true
		}
	}
	if l := strings.ToLower(strings.TrimSpace(t.Label)); l != "" {
		if _, ok := m.labels[l]; ok {
			return true
		}
	}
	return false
}

// FilterByTags removes listings carrying any of the excluded tags. A tag
// matches on id, slug or label; slug and label compare case-insensitively.
// Listings without tags always survive.
func FilterByTags(listings []*domain.Listing, excluded map[string]domain.Tag) (kept []*domain.Listing, dropped []TagExclusion) {
	m := newTagMatcher(excluded)
	kept = make([]*domain.Listing, 0, len(listings))
	for _, l := range listings {
		var matched []domain.Tag
		for _, t := range l.Tags {
			if m.matches(t) {
				matched = append(matched, t)
			}
		}
		if len(matched) > 0 {
			dropped = append(dropped, TagExclusion{Listing: l, Matched: matched})
			continue
		}
		kept = append(kept, l)
	}
	return kept, dropped
}
