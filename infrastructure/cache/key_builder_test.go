package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"media-catalog/infrastructure/cache"
)

func TestBuildKey_Deterministic(t *testing.T) {
	p1 := map[string]string{"page": "1", "limit": "10", "q": "cats"}
	p2 := map[string]string{"q": "cats", "page": "1", "limit": "10"}

	k1 := cache.BuildKey("videos:list", p1)
	k2 := cache.BuildKey("videos:list", p2)

	assert.Equal(t, k1, k2)
	assert.Equal(t, "videos:list:limit=10&page=1&q=cats", k1)
}

func TestBuildKey_OmitsEmptyValues(t *testing.T) {
	explicit := map[string]string{"page": "1", "limit": "10", "q": "", "userId": ""}
	implicit := map[string]string{"page": "1", "limit": "10"}

	assert.Equal(t, cache.BuildKey("videos:list", implicit), cache.BuildKey("videos:list", explicit))
}

func TestBuildKey_NoParams(t *testing.T) {
	assert.Equal(t, "videos:list", cache.BuildKey("videos:list", nil))
	assert.Equal(t, "videos:list", cache.BuildKey("videos:list", map[string]string{"q": ""}))
}

func TestEntityKey(t *testing.T) {
	assert.Equal(t, "video:abc123", cache.EntityKey("video", "abc123"))
}
