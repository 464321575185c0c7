package mediastore_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"media-catalog/domain/model"
	"media-catalog/infrastructure/clients/mediastore"
)

func writeTempFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	assert.NoError(t, os.WriteFile(path, []byte("fake video bytes"), 0o644))
	return path
}

func TestUpload_ReturnsAssetReference(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload", r.URL.Path)
		assert.Equal(t, "auto", r.URL.Query().Get("resource_type"))
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"url":"https://cdn.example.com/v/clip.mp4","public_id":"videos/clip","duration":12.5}`))
	}))
	defer server.Close()

	store := mediastore.NewMediaStore(&mediastore.Config{Host: server.URL, APIKey: "key"})
	asset, err := store.Upload(context.Background(), writeTempFile(t))

	assert.NoError(t, err)
	assert.Equal(t, "videos/clip", asset.PublicID)
	assert.Equal(t, "https://cdn.example.com/v/clip.mp4", asset.URL)
	assert.Equal(t, 12.5, asset.Duration)
}

func TestUpload_MissingIdentifierIsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"url":"https://cdn.example.com/v/clip.mp4"}`))
	}))
	defer server.Close()

	store := mediastore.NewMediaStore(&mediastore.Config{Host: server.URL})
	_, err := store.Upload(context.Background(), writeTempFile(t))

	assert.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, model.AsAppError(err).StatusCode)
}

func TestDestroy_ToleratesAbsentAsset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/destroy", r.URL.Path)
		assert.Equal(t, "videos/clip", r.URL.Query().Get("public_id"))
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	store := mediastore.NewMediaStore(&mediastore.Config{Host: server.URL})
	assert.NoError(t, store.Destroy(context.Background(), "videos/clip"))
}
