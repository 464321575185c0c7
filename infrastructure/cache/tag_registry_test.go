package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"media-catalog/infrastructure/cache"
)

func TestTagRegistry_InvalidateDeletesRegisteredKeys(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	registry := cache.NewTagRegistry(store)

	_ = store.Set(ctx, "videos:list:page=1", []byte("a"), time.Minute)
	_ = store.Set(ctx, "videos:list:page=2", []byte("b"), time.Minute)
	_ = store.Set(ctx, "video:42", []byte("c"), time.Minute)

	registry.Register("videos:list", "videos:list:page=1")
	registry.Register("videos:list", "videos:list:page=2")

	deleted, err := registry.Invalidate(ctx, "videos:list")
	assert.NoError(t, err)
	assert.Equal(t, 2, deleted)
	assert.False(t, store.contains("videos:list:page=1"))
	assert.False(t, store.contains("videos:list:page=2"))
	// untagged key untouched
	assert.True(t, store.contains("video:42"))
}

func TestTagRegistry_InvalidateUnknownTagIsNoop(t *testing.T) {
	registry := cache.NewTagRegistry(newMemoryStore())

	deleted, err := registry.Invalidate(context.Background(), "never-registered")
	assert.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestTagRegistry_InvalidateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	registry := cache.NewTagRegistry(store)

	registry.Register("videos:list", "videos:list:page=1")

	_, err := registry.Invalidate(ctx, "videos:list")
	assert.NoError(t, err)

	deleted, err := registry.Invalidate(ctx, "videos:list")
	assert.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestTagRegistry_ExpiredKeyDeletionIsHarmless(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	registry := cache.NewTagRegistry(store)

	// registered but never written (or already expired)
	registry.Register("videos:list", "videos:list:page=9")

	deleted, err := registry.Invalidate(ctx, "videos:list")
	assert.NoError(t, err)
	assert.Equal(t, 1, deleted)
}
