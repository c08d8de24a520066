package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/alanyoungcy/polyscan/internal/domain"
)

// TagLookup resolves a tag by slug.
type TagLookup interface {
	GetTagBySlug(ctx context.Context, slug string) (domain.Tag, error)
}

// TagResolver turns the configured exclusion slugs into tags. A slug that
// cannot be resolved contributes no exclusion rule.
type TagResolver struct {
	lookup TagLookup
	cache  domain.TagCache // optional
	logger *slog.Logger
}

// NewTagResolver creates a TagResolver. cache may be nil.
func NewTagResolver(lookup TagLookup, cache domain.TagCache, logger *slog.Logger) *TagResolver {
	return &TagResolver{
		lookup: lookup,
		cache:  cache,
		logger: logger.With(slog.String("component", "tag_resolver")),
	}
}

// Resolve looks up each slug in turn and returns the tags that were found,
// keyed by the configured slug. Lookup failures are logged and skipped.
func (r *TagResolver) Resolve(ctx context.Context, slugs []string) map[string]domain.Tag {
	found := make(map[string]domain.Tag, len(slugs))
	for _, slug := range slugs {
		slug = strings.ToLower(strings.TrimSpace(slug))
		if slug == "" {
			continue
		}
		if _, dup := found[slug]; dup {
			continue
		}
		tag, ok := r.resolveOne(ctx, slug)
		if ok {
			found[slug] = tag
		}
	}

	r.logger.InfoContext(ctx, "exclusion tags resolved",
		slog.Int("found", len(found)),
		slog.Int("requested", len(slugs)),
	)
	return found
}

func (r *TagResolver) resolveOne(ctx context.Context, slug string) (domain.Tag, bool) {
	if r.cache != nil {
		tag, err := r.cache.GetTag(ctx, slug)
		switch {
		case err == nil:
			r.logger.DebugContext(ctx, "tag cache hit", slog.String("slug", slug))
			return tag, true
		case errors.Is(err, domain.ErrNotFound):
			r.logger.InfoContext(ctx, "tag not found (cached)", slog.String("slug", slug))
			return domain.Tag{}, false
		case !errors.Is(err, domain.ErrCacheMiss):
			r.logger.WarnContext(ctx, "tag cache read failed",
				slog.String("slug", slug),
				slog.String("error", err.Error()),
			)
		}
	}

	tag, err := r.lookup.GetTagBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.InfoContext(ctx, "tag not found", slog.String("slug", slug))
			r.remember(ctx, slug, nil)
		} else {
			r.logger.WarnContext(ctx, "tag lookup failed",
				slog.String("slug", slug),
				slog.String("error", err.Error()),
			)
		}
		return domain.Tag{}, false
	}

	r.logger.InfoContext(ctx, "tag found",
		slog.String("slug", slug),
		slog.String("label", tag.Label),
		slog.Int64("id", tag.ID),
	)
	r.remember(ctx, slug, &tag)
	return tag, true
}

// remember writes a lookup result to the cache. A nil tag records a miss.
func (r *TagResolver) remember(ctx context.Context, slug string, tag *domain.Tag) {
	if r.cache == nil {
		return
	}
	var err error
	if tag == nil {
		err = r.cache.MarkMissing(ctx, slug)
	} else {
		err = r.cache.SetTag(ctx, slug, *tag)
	}
	if err != nil {
		r.logger.WarnContext(ctx, "tag cache write failed",
			slog.String("slug", slug),
			slog.String("error", err.Error()),
		)
	}
}
