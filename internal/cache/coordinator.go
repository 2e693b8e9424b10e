// Package cache maintains the derived read views: the first page of
// approved tools and the category/tag listings. Views are recomputed
// lazily on miss and forgotten unconditionally on any mutation that
// could affect them. The TTL is defense in depth against a missed
// invalidation, not the primary consistency mechanism.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Canonical view keys. The coordinator never caches filtered or
// deeper-paginated listings; a bounded key set is the point.
const (
	ViewApprovedToolsPage1 = "tools:approved:page1"
	ViewAllCategories      = "categories:all"
	ViewAllTags            = "tags:all"
)

// Store is the backing key-value store. The redis adapter implements
// it for deployments; the in-package memory store covers tests and
// redis-less setups.
type Store interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores bytes under key with a TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Del removes keys; missing keys are not an error.
	Del(ctx context.Context, keys ...string) error
}

// TTLs configures per-view lifetimes.
type TTLs struct {
	ApprovedTools time.Duration
	Categories    time.Duration
	Tags          time.Duration
}

// DefaultTTLs mirrors the production defaults: the hot listing view is
// short-lived, taxonomy views are cheap to hold longer.
func DefaultTTLs() TTLs {
	return TTLs{
		ApprovedTools: 5 * time.Minute,
		Categories:    time.Hour,
		Tags:          time.Hour,
	}
}

// Coordinator owns view lifecycle: lazy fill, unconditional forget.
type Coordinator struct {
	store Store
	log   *slog.Logger
	ttls  TTLs
}

// NewCoordinator creates a Coordinator over the given store.
func NewCoordinator(store Store, logger *slog.Logger, ttls TTLs) *Coordinator {
	return &Coordinator{
		store: store,
		log:   logger.With("component", "cache"),
		ttls:  ttls,
	}
}

func (c *Coordinator) ttlFor(view string) time.Duration {
	switch view {
	case ViewApprovedToolsPage1:
		return c.ttls.ApprovedTools
	case ViewAllCategories:
		return c.ttls.Categories
	case ViewAllTags:
		return c.ttls.Tags
	default:
		return c.ttls.ApprovedTools
	}
}

// GetOrCompute returns the cached view into out, or runs compute,
// stores the result, and decodes it into out. Store failures degrade
// to computing fresh: the cache is best-effort, the source of truth
// is the database.
func (c *Coordinator) GetOrCompute(ctx context.Context, view string, out any, compute func(ctx context.Context) (any, error)) error {
	raw, ok, err := c.store.Get(ctx, view)
	if err != nil {
		c.log.WarnContext(ctx, "cache read failed, computing fresh",
			slog.String("view", view),
			slog.String("error", err.Error()),
		)
	}
	if ok && err == nil {
		if err := json.Unmarshal(raw, out); err == nil {
			return nil
		}
		// Undecodable entry: drop it and fall through to recompute.
		c.Forget(ctx, view)
	}

	value, err := compute(ctx)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode view %s: %w", view, err)
	}
	if err := c.store.Set(ctx, view, encoded, c.ttlFor(view)); err != nil {
		c.log.WarnContext(ctx, "cache write failed",
			slog.String("view", view),
			slog.String("error", err.Error()),
		)
	}

	return json.Unmarshal(encoded, out)
}

// Forget drops views unconditionally. Failures are logged and
// swallowed: a missed forget is bounded by the view TTL and must
// never fail the mutation that triggered it.
func (c *Coordinator) Forget(ctx context.Context, views ...string) {
	if len(views) == 0 {
		return
	}
	if err := c.store.Del(ctx, views...); err != nil {
		c.log.ErrorContext(ctx, "cache invalidation failed",
			slog.Any("views", views),
			slog.String("error", err.Error()),
		)
	}
}

// InvalidateToolViews forgets every view a tool mutation can affect.
func (c *Coordinator) InvalidateToolViews(ctx context.Context) {
	c.Forget(ctx, ViewApprovedToolsPage1)
}

// InvalidateTagViews forgets the tag listing.
func (c *Coordinator) InvalidateTagViews(ctx context.Context) {
	c.Forget(ctx, ViewAllTags)
}

// InvalidateCategoryViews forgets the category listing.
func (c *Coordinator) InvalidateCategoryViews(ctx context.Context) {
	c.Forget(ctx, ViewAllCategories)
}
