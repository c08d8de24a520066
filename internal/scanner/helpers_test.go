package scanner

import (
	"github.com/alanyoungcy/polyscan/internal/domain"
)

type warning struct {
	stage, id, msg string
}

// recordingObserver keeps everything it is told.
type recordingObserver struct {
	warnings []warning
	stages   map[string][2]int
}

func newRecorder() *recordingObserver {
	return &recordingObserver{stages: map[string][2]int{}}
}

func (r *recordingObserver) StageDone(stage string, kept, dropped int) {
	r.stages[stage] = [2]int{kept, dropped}
}

func (r *recordingObserver) Warn(stage, id, msg string) {
	r.warnings = append(r.warnings, warning{stage, id, msg})
}

func binaryListing(id, prices string) *domain.Listing {
	return &domain.Listing{
		ID:          id,
		Question:    "Will " + id + " happen?",
		OutcomesRaw: `["Yes","No"]`,
		PricesRaw:   prices,
		Slug:        id,
	}
}

func ids(ls []*domain.Listing) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.ID)
	}
	return out
}
