package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"media-catalog/domain/dto"
	"media-catalog/domain/model"
	"media-catalog/domain/repository"
	"media-catalog/infrastructure/logger"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	// KindVideoList namespaces every parametrized listing key; TagVideoListing
	// is the invalidation group they all register under.
	KindVideoList   = "videos:list"
	KindVideo       = "video"
	TagVideoListing = "videos:list"
)

const (
	EventVideoCreated        = "video.created"
	EventVideoUpdated        = "video.updated"
	EventVideoDeleted        = "video.deleted"
	EventVideoPublishToggled = "video.publish_toggled"
)

// mutationEvent is the payload published after each catalog write
type mutationEvent struct {
	Type    string    `json:"type"`
	VideoID string    `json:"video_id"`
	At      time.Time `json:"at"`
}

// IVideoUsecase defines the video catalog operations consumed by handlers
type IVideoUsecase interface {
	List(ctx context.Context, req dto.PageRequest) (*dto.PageResult, error)
	GetByID(ctx context.Context, videoID string) (*dto.VideoWithOwner, error)
	Publish(ctx context.Context, req *dto.VideoPublishRequest, ownerID, videoPath, thumbnailPath string) (*model.Video, error)
	Update(ctx context.Context, videoID string, req *dto.VideoUpdateRequest, thumbnailPath string) (*model.Video, error)
	Delete(ctx context.Context, videoID string) error
	TogglePublishStatus(ctx context.Context, videoID string) (*model.Video, error)
}

// VideoUsecase wires the listing planner, the cache coordinator and the
// object storage collaborator together. Event transports and the SSE
// broadcaster are optional; mutations succeed without them.
type VideoUsecase struct {
	videoRepo   repository.IVideo
	cache       repository.ICacheCoordinator
	mediaStore  repository.IMediaStore
	events      repository.IEventPublisher
	bus         repository.IEventBus
	topic       string
	broadcaster func(eventType, videoID string)
}

func NewVideoUsecase(videoRepo repository.IVideo, cache repository.ICacheCoordinator, mediaStore repository.IMediaStore) *VideoUsecase {
	return &VideoUsecase{videoRepo: videoRepo, cache: cache, mediaStore: mediaStore}
}

// WithEvents enables mutation event fan-out (fluent)
func (u *VideoUsecase) WithEvents(events repository.IEventPublisher, bus repository.IEventBus, topic string) *VideoUsecase {
	u.events = events
	u.bus = bus
	if topic == "" {
		topic = "catalog-events"
	}
	u.topic = topic
	return u
}

// WithBroadcaster enables SSE fan-out of mutation events (fluent)
func (u *VideoUsecase) WithBroadcaster(fn func(eventType, videoID string)) *VideoUsecase {
	u.broadcaster = fn
	return u
}

func entityTag(videoID string) string {
	return KindVideo + ":" + videoID
}

// List serves the paginated listing read-through: cache hit returns the
// stored page unchanged; a miss runs the listing query and caches it under
// the listing tag.
func (u *VideoUsecase) List(ctx context.Context, req dto.PageRequest) (*dto.PageResult, error) {
	req = req.Normalized()
	if req.UserID != "" {
		if _, err := bson.ObjectIDFromHex(req.UserID); err != nil {
			return nil, model.NewInvalidFilterError("userId is not a valid record identifier")
		}
	}

	payload, hit, err := u.cache.FetchOrCompute(ctx, KindVideoList, req.CacheParams(), TagVideoListing,
		func(ctx context.Context) ([]byte, error) {
			page, err := u.videoRepo.List(ctx, req)
			if err != nil {
				return nil, err
			}
			return json.Marshal(page)
		})
	if err != nil {
		return nil, err
	}
	if hit {
		logger.GetLogger().WithField("page", req.Page).Debug("Video listing served from cache")
	}

	var result dto.PageResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to decode cached page: %w", err)
	}
	return &result, nil
}

func (u *VideoUsecase) GetByID(ctx context.Context, videoID string) (*dto.VideoWithOwner, error) {
	if videoID == "" {
		return nil, model.NewNotFoundError("video not found")
	}

	payload, _, err := u.cache.FetchEntity(ctx, KindVideo, videoID, entityTag(videoID),
		func(ctx context.Context) ([]byte, error) {
			video, err := u.videoRepo.GetByID(ctx, videoID)
			if err != nil {
				return nil, err
			}
			return json.Marshal(video)
		})
	if err != nil {
		return nil, err
	}

	var video dto.VideoWithOwner
	if err := json.Unmarshal(payload, &video); err != nil {
		return nil, fmt.Errorf("failed to decode cached video: %w", err)
	}
	return &video, nil
}

// Publish uploads both assets, persists the record, then invalidates
func (u *VideoUsecase) Publish(ctx context.Context, req *dto.VideoPublishRequest, ownerID, videoPath, thumbnailPath string) (*model.Video, error) {
	if u.mediaStore == nil {
		return nil, model.NewUpstreamAssetError("media store not configured", nil)
	}
	owner, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, model.NewInvalidFilterError("owner is not a valid record identifier")
	}

	videoAsset, err := u.mediaStore.Upload(ctx, videoPath)
	if err != nil {
		return nil, err
	}
	thumbnailAsset, err := u.mediaStore.Upload(ctx, thumbnailPath)
	if err != nil {
		return nil, err
	}

	video := &model.Video{
		Title:       req.Title,
		Description: req.Description,
		Tags:        normalizeTags(req.Tags),
		VideoFile:   *videoAsset,
		Thumbnail:   *thumbnailAsset,
		Duration:    videoAsset.Duration,
		Owner:       owner,
		IsPublished: true,
	}
	created, err := u.videoRepo.Insert(ctx, video)
	if err != nil {
		return nil, err
	}

	u.afterMutation(ctx, EventVideoCreated, created.ID.Hex())
	return created, nil
}

func (u *VideoUsecase) Update(ctx context.Context, videoID string, req *dto.VideoUpdateRequest, thumbnailPath string) (*model.Video, error) {
	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if len(req.Tags) > 0 {
		updates["tags"] = normalizeTags(req.Tags)
	}

	var previousThumbnail string
	if thumbnailPath != "" {
		if u.mediaStore == nil {
			return nil, model.NewUpstreamAssetError("media store not configured", nil)
		}
		existing, err := u.videoRepo.GetByID(ctx, videoID)
		if err != nil {
			return nil, err
		}
		previousThumbnail = existing.Thumbnail.PublicID

		thumbnailAsset, err := u.mediaStore.Upload(ctx, thumbnailPath)
		if err != nil {
			return nil, err
		}
		updates["thumbnail"] = thumbnailAsset
	}
	if len(updates) == 0 {
		return nil, model.NewInvalidFilterError("nothing to update")
	}

	updated, err := u.videoRepo.Update(ctx, videoID, updates)
	if err != nil {
		return nil, err
	}

	if previousThumbnail != "" {
		if err := u.mediaStore.Destroy(ctx, previousThumbnail); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Failed to destroy replaced thumbnail")
		}
	}

	u.afterMutation(ctx, EventVideoUpdated, videoID)
	return updated, nil
}

func (u *VideoUsecase) Delete(ctx context.Context, videoID string) error {
	deleted, err := u.videoRepo.Delete(ctx, videoID)
	if err != nil {
		return err
	}

	// asset cleanup is best effort; the record is already gone
	if u.mediaStore != nil {
		for _, publicID := range []string{deleted.VideoFile.PublicID, deleted.Thumbnail.PublicID} {
			if publicID == "" {
				continue
			}
			if err := u.mediaStore.Destroy(ctx, publicID); err != nil {
				logger.GetLogger().WithField("error", err).WithField("public_id", publicID).Warn("Failed to destroy asset")
			}
		}
	}

	u.afterMutation(ctx, EventVideoDeleted, videoID)
	return nil
}

func (u *VideoUsecase) TogglePublishStatus(ctx context.Context, videoID string) (*model.Video, error) {
	updated, err := u.videoRepo.TogglePublishStatus(ctx, videoID)
	if err != nil {
		return nil, err
	}
	u.afterMutation(ctx, EventVideoPublishToggled, videoID)
	return updated, nil
}

// afterMutation runs the write-through invalidation and event fan-out. The
// persistence write has already committed: cache or transport failures are
// logged, never turned into a mutation failure.
func (u *VideoUsecase) afterMutation(ctx context.Context, eventType, videoID string) {
	if err := u.cache.Invalidate(ctx, KindVideo, videoID); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to invalidate entity cache")
	}
	if _, err := u.cache.InvalidateGroup(ctx, entityTag(videoID)); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to invalidate entity tag group")
	}
	if _, err := u.cache.InvalidateGroup(ctx, TagVideoListing); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to invalidate listing caches")
	}

	payload, err := json.Marshal(mutationEvent{Type: eventType, VideoID: videoID, At: time.Now().UTC()})
	if err != nil {
		return
	}
	if u.events != nil {
		if _, err := u.events.Publish(ctx, u.topic, payload); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Failed to publish mutation event")
		}
	}
	if u.bus != nil {
		if err := u.bus.SendMessage(payload); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Failed to send mutation event to service bus")
		}
	}
	if u.broadcaster != nil {
		u.broadcaster(eventType, videoID)
	}
}

func normalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			normalized = append(normalized, tag)
		}
	}
	return normalized
}
