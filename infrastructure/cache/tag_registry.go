package cache

import (
	"context"

	"media-catalog/domain/repository"

	"github.com/puzpuzpuz/xsync/v3"
)

// TagRegistry maintains the tag -> live-key mapping used for group
// invalidation. Registration must happen before the key is written to the
// store, otherwise an invalidation racing the write could miss it.
type TagRegistry struct {
	store repository.ICacheStore
	tags  *xsync.MapOf[string, *xsync.MapOf[string, struct{}]]
}

func NewTagRegistry(store repository.ICacheStore) repository.ITagRegistry {
	return &TagRegistry{
		store: store,
		tags:  xsync.NewMapOf[string, *xsync.MapOf[string, struct{}]](),
	}
}

func (r *TagRegistry) Register(tag, key string) {
	set, _ := r.tags.LoadOrCompute(tag, func() *xsync.MapOf[string, struct{}] {
		return xsync.NewMapOf[string, struct{}]()
	})
	set.Store(key, struct{}{})
}

// Invalidate deletes every key registered under tag and clears the set.
// Keys that already expired delete as no-ops.
func (r *TagRegistry) Invalidate(ctx context.Context, tag string) (int, error) {
	set, ok := r.tags.LoadAndDelete(tag)
	if !ok {
		return 0, nil
	}

	keys := make([]string, 0, set.Size())
	set.Range(func(key string, _ struct{}) bool {
		keys = append(keys, key)
		return true
	})
	if len(keys) == 0 {
		return 0, nil
	}
	if err := r.store.Delete(ctx, keys...); err != nil {
		return 0, err
	}
	return len(keys), nil
}
