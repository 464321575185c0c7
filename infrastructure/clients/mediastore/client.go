package mediastore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"media-catalog/domain/model"
	"media-catalog/domain/repository"
	"media-catalog/infrastructure/logger"

	"github.com/google/go-querystring/query"
)

// Config represents the object storage service configuration
type Config struct {
	Host   string `json:"host"`
	APIKey string `json:"api_key"`
	Folder string `json:"folder"`
}

// Client talks to the object storage service over HTTP. It uploads local
// files and returns `{url, public_id, duration?}` references.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// uploadOptions are the query parameters accepted by the upload endpoint
type uploadOptions struct {
	Folder         string `url:"folder,omitempty"`
	ResourceType   string `url:"resource_type,omitempty"`
	UseFilename    bool   `url:"use_filename,omitempty"`
	UniqueFilename bool   `url:"unique_filename,omitempty"`
}

type destroyOptions struct {
	PublicID   string `url:"public_id"`
	Invalidate bool   `url:"invalidate,omitempty"`
}

type uploadResponse struct {
	URL      string  `json:"url"`
	PublicID string  `json:"public_id"`
	Duration float64 `json:"duration,omitempty"`
}

func NewMediaStore(config *Config) repository.IMediaStore {
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

// Upload streams a local file to the storage service. A response without a
// public_id is an upstream asset error, never cached.
func (c *Client) Upload(ctx context.Context, localPath string) (*model.Asset, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while closing upload file")
		}
	}()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read local file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	values, err := query.Values(uploadOptions{
		Folder:         c.config.Folder,
		ResourceType:   "auto",
		UseFilename:    true,
		UniqueFilename: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode upload options: %w", err)
	}

	url := fmt.Sprintf("%s/upload?%s", c.config.Host, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, model.NewUpstreamAssetError("object storage unreachable", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while closing response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, model.NewUpstreamAssetError(fmt.Sprintf("object storage returned status %d", resp.StatusCode), nil)
	}

	var uploaded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return nil, model.NewUpstreamAssetError("object storage returned an unreadable response", err)
	}
	if uploaded.PublicID == "" {
		return nil, model.NewUpstreamAssetError("object storage returned no identifier", nil)
	}

	return &model.Asset{
		URL:      uploaded.URL,
		PublicID: uploaded.PublicID,
		Duration: uploaded.Duration,
	}, nil
}

// Destroy removes a stored asset; best-effort from the caller's perspective
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	values, err := query.Values(destroyOptions{PublicID: publicID, Invalidate: true})
	if err != nil {
		return fmt.Errorf("failed to encode destroy options: %w", err)
	}

	url := fmt.Sprintf("%s/destroy?%s", c.config.Host, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewUpstreamAssetError("object storage unreachable", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while closing response body")
		}
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return model.NewUpstreamAssetError(fmt.Sprintf("object storage returned status %d", resp.StatusCode), nil)
	}
	return nil
}
