package repository

import (
	"context"

	"media-catalog/domain/model"
)

// IMediaStore is the object storage collaborator. It receives a local file
// path and returns the stored asset reference.
type IMediaStore interface {
	Upload(ctx context.Context, localPath string) (*model.Asset, error)
	Destroy(ctx context.Context, publicID string) error
}
