package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"
	"media-catalog/domain/dto"
	"media-catalog/domain/model"
	"media-catalog/domain/repository"
	"media-catalog/infrastructure/cache"
	"media-catalog/usecase"
)

// Mock implementations
type MockVideoRepository struct {
	mock.Mock
}

func (m *MockVideoRepository) List(ctx context.Context, req dto.PageRequest) (*dto.PageResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PageResult), args.Error(1)
}

func (m *MockVideoRepository) GetByID(ctx context.Context, videoID string) (*dto.VideoWithOwner, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VideoWithOwner), args.Error(1)
}

func (m *MockVideoRepository) Insert(ctx context.Context, video *model.Video) (*model.Video, error) {
	args := m.Called(ctx, video)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockVideoRepository) Update(ctx context.Context, videoID string, updates map[string]interface{}) (*model.Video, error) {
	args := m.Called(ctx, videoID, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockVideoRepository) Delete(ctx context.Context, videoID string) (*model.Video, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockVideoRepository) TogglePublishStatus(ctx context.Context, videoID string) (*model.Video, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Upload(ctx context.Context, localPath string) (*model.Asset, error) {
	args := m.Called(ctx, localPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

func (m *MockMediaStore) Destroy(ctx context.Context, publicID string) error {
	args := m.Called(ctx, publicID)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	args := m.Called(ctx, topic, payload)
	return args.String(0), args.Error(1)
}

type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) SendMessage(message []byte) error {
	args := m.Called(message)
	return args.Error(0)
}

// inMemoryStore backs a real coordinator so the read-through and
// invalidation paths run for real during usecase tests.
type inMemoryStore struct {
	entries map[string][]byte
}

func newInMemoryStore() *inMemoryStore {
	return &inMemoryStore{entries: make(map[string][]byte)}
}

func (s *inMemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	payload, ok := s.entries[key]
	if !ok {
		return nil, repository.ErrCacheMiss
	}
	return payload, nil
}

func (s *inMemoryStore) Set(_ context.Context, key string, payload []byte, _ time.Duration) error {
	s.entries[key] = payload
	return nil
}

func (s *inMemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

func (s *inMemoryStore) DeleteByPrefix(_ context.Context, _ string) (int, error) {
	return 0, nil
}

func newTestCoordinator() (repository.ICacheCoordinator, *inMemoryStore) {
	store := newInMemoryStore()
	return cache.NewCoordinator(store, cache.NewTagRegistry(store), 0), store
}

func samplePage() *dto.PageResult {
	video := dto.VideoWithOwner{}
	video.ID = bson.NewObjectID()
	video.Title = "Cats playing"
	video.Tags = []string{"cats"}
	video.IsPublished = true
	return dto.NewPageResult([]dto.VideoWithOwner{video}, 1, 1, 10)
}

func TestVideoUsecase_List_SecondCallServedFromCache(t *testing.T) {
	mockRepo := new(MockVideoRepository)
	coordinator, _ := newTestCoordinator()
	videoUsecase := usecase.NewVideoUsecase(mockRepo, coordinator, nil)

	req := dto.PageRequest{Page: 1, Limit: 10}
	mockRepo.On("List", mock.Anything, req.Normalized()).
		Return(samplePage(), nil).
		Once()

	first, err := videoUsecase.List(context.Background(), req)
	assert.NoError(t, err)

	// second call must not touch the record store
	second, err := videoUsecase.List(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, first, second)

	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "List", 1)
}

func TestVideoUsecase_List_MalformedOwnerFilter(t *testing.T) {
	mockRepo := new(MockVideoRepository)
	coordinator, _ := newTestCoordinator()
	videoUsecase := usecase.NewVideoUsecase(mockRepo, coordinator, nil)

	_, err := videoUsecase.List(context.Background(), dto.PageRequest{UserID: "garbage"})
	assert.Error(t, err)
	assert.Equal(t, 400, model.AsAppError(err).StatusCode)

	// validation failed before the cache or the record store were touched
	mockRepo.AssertNotCalled(t, "List")
}

func TestVideoUsecase_MutationInvalidatesListingCaches(t *testing.T) {
	mockRepo := new(MockVideoRepository)
	coordinator, _ := newTestCoordinator()
	videoUsecase := usecase.NewVideoUsecase(mockRepo, coordinator, nil)

	req := dto.PageRequest{Page: 1, Limit: 10}
	videoID := bson.NewObjectID()

	stale := samplePage()
	fresh := samplePage()
	fresh.Videos[0].IsPublished = false

	mockRepo.On("List", mock.Anything, req.Normalized()).Return(stale, nil).Once()
	mockRepo.On("TogglePublishStatus", mock.Anything, videoID.Hex()).
		Return(&model.Video{ID: videoID, IsPublished: false}, nil).
		Once()
	mockRepo.On("List", mock.Anything, req.Normalized()).Return(fresh, nil).Once()

	_, err := videoUsecase.List(context.Background(), req)
	assert.NoError(t, err)

	_, err = videoUsecase.TogglePublishStatus(context.Background(), videoID.Hex())
	assert.NoError(t, err)

	// the previously cached page must not be served after the mutation
	result, err := videoUsecase.List(context.Background(), req)
	assert.NoError(t, err)
	assert.False(t, result.Videos[0].IsPublished)

	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "List", 2)
}

func TestVideoUsecase_GetByID_EvictedOnUpdate(t *testing.T) {
	mockRepo := new(MockVideoRepository)
	coordinator, store := newTestCoordinator()
	videoUsecase := usecase.NewVideoUsecase(mockRepo, coordinator, nil)

	videoID := bson.NewObjectID()
	existing := &dto.VideoWithOwner{}
	existing.ID = videoID
	existing.Title = "Before"

	mockRepo.On("GetByID", mock.Anything, videoID.Hex()).Return(existing, nil).Once()
	mockRepo.On("Update", mock.Anything, videoID.Hex(), map[string]interface{}{"title": "After"}).
		Return(&model.Video{ID: videoID, Title: "After"}, nil).
		Once()

	_, err := videoUsecase.GetByID(context.Background(), videoID.Hex())
	assert.NoError(t, err)
	assert.Contains(t, store.entries, "video:"+videoID.Hex())

	_, err = videoUsecase.Update(context.Background(), videoID.Hex(), &dto.VideoUpdateRequest{Title: "After"}, "")
	assert.NoError(t, err)
	assert.NotContains(t, store.entries, "video:"+videoID.Hex())

	mockRepo.AssertExpectations(t)
}

func TestVideoUsecase_Publish_UploadsAssetsAndFansOutEvents(t *testing.T) {
	mockRepo := new(MockVideoRepository)
	mockMedia := new(MockMediaStore)
	mockEvents := new(MockEventPublisher)
	mockBus := new(MockEventBus)
	coordinator, _ := newTestCoordinator()

	broadcasts := 0
	videoUsecase := usecase.NewVideoUsecase(mockRepo, coordinator, mockMedia).
		WithEvents(mockEvents, mockBus, "catalog-events").
		WithBroadcaster(func(eventType, videoID string) {
			assert.Equal(t, usecase.EventVideoCreated, eventType)
			broadcasts++
		})

	owner := bson.NewObjectID()
	videoID := bson.NewObjectID()

	mockMedia.On("Upload", mock.Anything, "/tmp/clip.mp4").
		Return(&model.Asset{URL: "u1", PublicID: "p1", Duration: 42}, nil).
		Once()
	mockMedia.On("Upload", mock.Anything, "/tmp/thumb.png").
		Return(&model.Asset{URL: "u2", PublicID: "p2"}, nil).
		Once()
	mockRepo.On("Insert", mock.Anything, mock.MatchedBy(func(v *model.Video) bool {
		return v.Title == "Cats playing" &&
			v.Duration == 42 &&
			v.IsPublished &&
			assert.ObjectsAreEqual([]string{"cats", "pets"}, v.Tags)
	})).Return(&model.Video{ID: videoID, Title: "Cats playing", Owner: owner}, nil).Once()
	mockEvents.On("Publish", mock.Anything, "catalog-events", mock.Anything).Return("msg-1", nil).Once()
	mockBus.On("SendMessage", mock.Anything).Return(nil).Once()

	created, err := videoUsecase.Publish(
		context.Background(),
		&dto.VideoPublishRequest{Title: "Cats playing", Tags: []string{" Cats ", "PETS", ""}},
		owner.Hex(),
		"/tmp/clip.mp4",
		"/tmp/thumb.png",
	)
	assert.NoError(t, err)
	assert.Equal(t, videoID, created.ID)
	assert.Equal(t, 1, broadcasts)

	mockRepo.AssertExpectations(t)
	mockMedia.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
	mockBus.AssertExpectations(t)
}

func TestVideoUsecase_Publish_UpstreamAssetErrorAbortsInsert(t *testing.T) {
	mockRepo := new(MockVideoRepository)
	mockMedia := new(MockMediaStore)
	coordinator, _ := newTestCoordinator()
	videoUsecase := usecase.NewVideoUsecase(mockRepo, coordinator, mockMedia)

	mockMedia.On("Upload", mock.Anything, "/tmp/clip.mp4").
		Return(nil, model.NewUpstreamAssetError("object storage returned no identifier", nil)).
		Once()

	_, err := videoUsecase.Publish(
		context.Background(),
		&dto.VideoPublishRequest{Title: "Broken"},
		bson.NewObjectID().Hex(),
		"/tmp/clip.mp4",
		"/tmp/thumb.png",
	)
	assert.Error(t, err)
	assert.Equal(t, 502, model.AsAppError(err).StatusCode)

	mockRepo.AssertNotCalled(t, "Insert")
	mockMedia.AssertExpectations(t)
}

func TestVideoUsecase_Delete_DestroysAssets(t *testing.T) {
	mockRepo := new(MockVideoRepository)
	mockMedia := new(MockMediaStore)
	coordinator, _ := newTestCoordinator()
	videoUsecase := usecase.NewVideoUsecase(mockRepo, coordinator, mockMedia)

	videoID := bson.NewObjectID()
	mockRepo.On("Delete", mock.Anything, videoID.Hex()).
		Return(&model.Video{
			ID:        videoID,
			VideoFile: model.Asset{PublicID: "p1"},
			Thumbnail: model.Asset{PublicID: "p2"},
		}, nil).
		Once()
	mockMedia.On("Destroy", mock.Anything, "p1").Return(nil).Once()
	mockMedia.On("Destroy", mock.Anything, "p2").Return(nil).Once()

	assert.NoError(t, videoUsecase.Delete(context.Background(), videoID.Hex()))

	mockRepo.AssertExpectations(t)
	mockMedia.AssertExpectations(t)
}
