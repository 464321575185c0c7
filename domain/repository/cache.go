package repository

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss marks an absent key. Store-communication failures are returned
// as distinct errors, never folded into a miss.
var ErrCacheMiss = errors.New("cache: key not found")

// ICacheStore is the contract over the key-value cache store
type ICacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeleteByPrefix scans and deletes every key under prefix, returning the
	// number removed. The one operation allowed to be O(n) in store size.
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)
}

// ITagRegistry tracks which cache keys belong to which invalidation group
type ITagRegistry interface {
	Register(tag, key string)
	// Invalidate deletes every key registered under tag from the cache store
	// and clears the tag's key set. Idempotent: an unknown tag is a no-op.
	Invalidate(ctx context.Context, tag string) (int, error)
}

// ComputeFunc produces the serialized payload stored on a cache miss
type ComputeFunc func(ctx context.Context) ([]byte, error)

// ICacheCoordinator is the read-through/invalidation façade consumed by usecases
type ICacheCoordinator interface {
	// FetchOrCompute returns the cached payload for (kind, params) or computes,
	// stores and tags it. The bool reports whether the payload came from cache.
	FetchOrCompute(ctx context.Context, kind string, params map[string]string, tag string, compute ComputeFunc) ([]byte, bool, error)
	// FetchEntity is FetchOrCompute for single-entity kind:id keys.
	FetchEntity(ctx context.Context, kind, id, tag string, compute ComputeFunc) ([]byte, bool, error)
	Invalidate(ctx context.Context, kind, id string) error
	InvalidateGroup(ctx context.Context, tag string) (int, error)
	// PurgeKind erases every key under the kind namespace, registered or not.
	// Used at process start: entries tagged by a previous process can no
	// longer be invalidated through the registry.
	PurgeKind(ctx context.Context, kind string) (int, error)
}
