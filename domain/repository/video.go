package repository

import (
	"context"

	"media-catalog/domain/dto"
	"media-catalog/domain/model"
)

// IVideo defines the record store operations for the video catalog
type IVideo interface {
	// List executes the filtered, sorted, paginated listing query with the
	// owner join resolved. The request must already be normalized.
	List(ctx context.Context, req dto.PageRequest) (*dto.PageResult, error)

	GetByID(ctx context.Context, videoID string) (*dto.VideoWithOwner, error)
	Insert(ctx context.Context, video *model.Video) (*model.Video, error)
	Update(ctx context.Context, videoID string, updates map[string]interface{}) (*model.Video, error)
	Delete(ctx context.Context, videoID string) (*model.Video, error)
	TogglePublishStatus(ctx context.Context, videoID string) (*model.Video, error)
}
