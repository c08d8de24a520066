package domain

import "context"

// TagCache keeps tag lookups between runs so repeated scans do not hit the
// tag endpoint for every slug.
type TagCache interface {
	GetTag(ctx context.Context, slug string) (Tag, error)
	SetTag(ctx context.Context, slug string, tag Tag) error
	// MarkMissing records that slug does not exist upstream.
	MarkMissing(ctx context.Context, slug string) error
}
