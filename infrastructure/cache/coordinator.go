package cache

import (
	"context"
	"errors"
	"time"

	"media-catalog/domain/repository"
	"media-catalog/infrastructure/logger"
)

const (
	// DefaultTTL bounds cache entries when no TTL is configured
	DefaultTTL = 5 * time.Minute
	// MaxTTL caps configured TTLs so stale entries always age out
	MaxTTL = time.Hour
)

// Coordinator implements the read-through fetch / write-through invalidation
// façade. Cache store failures degrade to a miss (fail open): the listing
// path stays available when Redis is down, at the cost of recomputing.
type Coordinator struct {
	store    repository.ICacheStore
	registry repository.ITagRegistry
	ttl      time.Duration
}

func NewCoordinator(store repository.ICacheStore, registry repository.ITagRegistry, ttl time.Duration) repository.ICacheCoordinator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if ttl > MaxTTL {
		ttl = MaxTTL
	}
	return &Coordinator{store: store, registry: registry, ttl: ttl}
}

// FetchOrCompute returns the cached payload under BuildKey(kind, params) or
// computes, tags and stores a fresh one. Concurrent callers may both miss and
// both compute; last writer wins.
func (c *Coordinator) FetchOrCompute(ctx context.Context, kind string, params map[string]string, tag string, compute repository.ComputeFunc) ([]byte, bool, error) {
	return c.fetch(ctx, BuildKey(kind, params), tag, compute)
}

// FetchEntity is the kind:id variant for single-entity lookups
func (c *Coordinator) FetchEntity(ctx context.Context, kind, id, tag string, compute repository.ComputeFunc) ([]byte, bool, error) {
	return c.fetch(ctx, EntityKey(kind, id), tag, compute)
}

func (c *Coordinator) fetch(ctx context.Context, key, tag string, compute repository.ComputeFunc) ([]byte, bool, error) {
	payload, err := c.store.Get(ctx, key)
	if err == nil {
		return payload, true, nil
	}
	if !errors.Is(err, repository.ErrCacheMiss) {
		logger.GetLogger().WithField("error", err).WithField("key", key).Warn("Cache get failed - treating as miss")
	}

	payload, err = compute(ctx)
	if err != nil {
		return nil, false, err
	}

	// Register under the tag before the write so a concurrent group
	// invalidation cannot strand the key.
	if tag != "" {
		c.registry.Register(tag, key)
	}
	if err := c.store.Set(ctx, key, payload, c.ttl); err != nil {
		logger.GetLogger().WithField("error", err).WithField("key", key).Warn("Cache set failed - returning computed result uncached")
	}
	return payload, false, nil
}

// Invalidate deletes the single-entity key for (kind, id)
func (c *Coordinator) Invalidate(ctx context.Context, kind, id string) error {
	return c.store.Delete(ctx, EntityKey(kind, id))
}

// InvalidateGroup erases every key registered under tag. Called after any
// mutation of the kind, since any write can change any cached listing slice.
func (c *Coordinator) InvalidateGroup(ctx context.Context, tag string) (int, error) {
	return c.registry.Invalidate(ctx, tag)
}

// PurgeKind scans out the whole kind namespace. The registry only covers
// keys written by this process, so a fresh process purges kinds whose
// entries it could otherwise never invalidate.
func (c *Coordinator) PurgeKind(ctx context.Context, kind string) (int, error) {
	deleted, err := c.store.DeleteByPrefix(ctx, kind+KeySeparator)
	if err != nil {
		return deleted, err
	}
	// parameterless listings key as the bare kind
	if err := c.store.Delete(ctx, kind); err != nil {
		return deleted, err
	}
	return deleted, nil
}
