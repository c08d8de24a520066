package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alanyoungcy/polyscan/internal/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultTagTTL is how long a tag lookup stays cached.
const DefaultTagTTL = time.Hour

// missingMarker is stored for slugs the tag endpoint reported as not found.
const missingMarker = "-"

// TagCache implements domain.TagCache with one string key per slug holding
// the JSON-encoded tag.
//
// Key schema:
//
//	tag:slug:{slug} - JSON tag, or "-" when the slug does not exist
type TagCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTagCache creates a TagCache backed by the given Client. ttl <= 0 uses
// DefaultTagTTL.
func NewTagCache(c *Client, ttl time.Duration) *TagCache {
	if ttl <= 0 {
		ttl = DefaultTagTTL
	}
	return &TagCache{rdb: c.Underlying(), ttl: ttl}
}

func tagKey(slug string) string { return "tag:slug:" + slug }

// cachedTag is the stored form; domain.Tag has no JSON tags of its own.
type cachedTag struct {
	ID    int64  `json:"id"`
	HasID bool   `json:"has_id"`
	Slug  string `json:"slug"`
	Label string `json:"label"`
}

// GetTag returns the cached tag for slug. It returns domain.ErrCacheMiss when
// nothing is cached and domain.ErrNotFound when the slug is cached as missing.
func (tc *TagCache) GetTag(ctx context.Context, slug string) (domain.Tag, error) {
	val, err := tc.rdb.Get(ctx, tagKey(slug)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Tag{}, domain.ErrCacheMiss
		}
		return domain.Tag{}, fmt.Errorf("redis: get tag %s: %w", slug, err)
	}
	if val == missingMarker {
		return domain.Tag{}, domain.ErrNotFound
	}

	var ct cachedTag
	if err := json.Unmarshal([]byte(val), &ct); err != nil {
		return domain.Tag{}, fmt.Errorf("redis: unmarshal tag %s: %w", slug, err)
	}
	return domain.Tag{ID: ct.ID, HasID: ct.HasID, Slug: ct.Slug, Label: ct.Label}, nil
}

// SetTag caches tag under slug.
func (tc *TagCache) SetTag(ctx context.Context, slug string, tag domain.Tag) error {
	data, err := json.Marshal(cachedTag{ID: tag.ID, HasID: tag.HasID, Slug: tag.Slug, Label: tag.Label})
	if err != nil {
		return fmt.Errorf("redis: marshal tag %s: %w", slug, err)
	}
	if err := tc.rdb.Set(ctx, tagKey(slug), data, tc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set tag %s: %w", slug, err)
	}
	return nil
}

// MarkMissing caches a negative lookup for slug.
func (tc *TagCache) MarkMissing(ctx context.Context, slug string) error {
	if err := tc.rdb.Set(ctx, tagKey(slug), missingMarker, tc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: mark tag %s missing: %w", slug, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.TagCache = (*TagCache)(nil)
