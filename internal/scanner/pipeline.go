// Package scanner implements the near-certain market filter: tag and keyword
// exclusion, price-threshold classification, outcome flattening, the
// resolution time window, and report rendering. Every stage is a pure
// function of its inputs; progress and warnings go to an Observer.
package scanner

import (
	"time"

	"github.com/alanyoungcy/polyscan/internal/domain"
)

// Options configures a Pipeline.
type Options struct {
	Threshold    float64
	WindowHours  float64
	Keywords     []string
	ExcludedTags map[string]domain.Tag // slug -> resolved tag
	URLTemplate  string
}

// Pipeline runs the stages in order over one snapshot of listings.
type Pipeline struct {
	opts Options
	obs  Observer
}

// New creates a Pipeline. Zero Threshold and WindowHours fall back to the
// defaults. A nil obs discards events.
func New(opts Options, obs Observer) *Pipeline {
	if opts.Threshold == 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.WindowHours == 0 {
		opts.WindowHours = DefaultWindowHours
	}
	if opts.URLTemplate == "" {
		opts.URLTemplate = DefaultURLTemplate
	}
	if obs == nil {
		obs = NopObserver{}
	}
	return &Pipeline{opts: opts, obs: obs}
}

// Result is everything one run produced.
type Result struct {
	Input           int
	TagExcluded     []TagExclusion
	KeywordExcluded []KeywordExclusion
	Qualified       int
	Unqualified     []Unqualified
	Rows            []domain.Row // flattened, before the window
	Window          WindowResult
	Records         []domain.ReportRecord
}

// Empty reports whether no row survived to the report.
func (r *Result) Empty() bool { return len(r.Records) == 0 }

// Run executes every stage. now anchors the time window and must be sampled
// once by the caller.
func (p *Pipeline) Run(listings []*domain.Listing, now time.Time) *Result {
	res := &Result{Input: len(listings)}

	afterTags, tagDropped := FilterByTags(listings, p.opts.ExcludedTags)
	res.TagExcluded = tagDropped
	p.obs.StageDone(StageTags, len(afterTags), len(tagDropped))

	afterKeywords, kwDropped := FilterByKeywords(afterTags, p.opts.Keywords)
	res.KeywordExcluded = kwDropped
	p.obs.StageDone(StageKeywords, len(afterKeywords), len(kwDropped))

	qualified, unqualified := Classify(afterKeywords, p.opts.Threshold, p.obs)
	res.Qualified = len(qualified)
	res.Unqualified = unqualified

	res.Rows = Flatten(qualified, p.opts.Threshold, p.obs)

	wf := WindowFilter{Now: now, Hours: p.opts.WindowHours, URLTemplate: p.opts.URLTemplate}
	res.Window = wf.Apply(res.Rows, p.obs)

	res.Records = Render(res.Window.In)
	return res
}
