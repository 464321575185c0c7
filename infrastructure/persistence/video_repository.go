package persistence

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"media-catalog/domain/dto"
	"media-catalog/domain/model"
	"media-catalog/domain/repository"
	"media-catalog/infrastructure/logger"
	"media-catalog/infrastructure/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	videosCollection = "videos"
	usersCollection  = "users"
)

// VideoRepository implements the video record store on MongoDB, including
// the filtered/sorted/joined/paginated listing query.
type VideoRepository struct {
	db *mongo.Database
}

func NewVideoRepository(client *mongo.Client, dbName string) repository.IVideo {
	return &VideoRepository{db: client.Database(dbName)}
}

// buildListFilter builds the $match predicate: published records only, free
// text against title/description (case-insensitive) or tag-token overlap,
// optional owner equality.
func buildListFilter(req dto.PageRequest) (bson.D, error) {
	filter := bson.D{{Key: "is_published", Value: true}}

	if q := strings.TrimSpace(req.Query); q != "" {
		pattern := regexp.QuoteMeta(q)
		tokens := strings.Fields(strings.ToLower(q))
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: bson.D{{Key: "$regex", Value: pattern}, {Key: "$options", Value: "i"}}}},
			bson.D{{Key: "description", Value: bson.D{{Key: "$regex", Value: pattern}, {Key: "$options", Value: "i"}}}},
			bson.D{{Key: "tags", Value: bson.D{{Key: "$in", Value: tokens}}}},
		}})
	}

	if req.UserID != "" {
		owner, err := bson.ObjectIDFromHex(req.UserID)
		if err != nil {
			return nil, model.NewInvalidFilterError("userId is not a valid record identifier")
		}
		filter = append(filter, bson.E{Key: "owner", Value: owner})
	}
	return filter, nil
}

// buildListSort maps sortBy/sortType onto a sort document. Unknown sort
// fields pass through as literal field names; the _id tiebreaker keeps page
// boundaries stable across repeated calls on a constant data set.
func buildListSort(req dto.PageRequest) bson.D {
	direction := -1
	if req.SortType == dto.SortAscending {
		direction = 1
	}
	sort := bson.D{{Key: req.SortBy, Value: direction}}
	if req.SortBy != "_id" {
		sort = append(sort, bson.E{Key: "_id", Value: direction})
	}
	return sort
}

// ownerLookupStages resolves the owner reference into a narrow OwnerStub
func ownerLookupStages() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "owner"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner_details"},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$project", Value: bson.D{
					{Key: "username", Value: 1},
					{Key: "full_name", Value: 1},
					{Key: "email", Value: 1},
					{Key: "avatar", Value: 1},
				}}},
			}},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$owner_details"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

func buildListPipeline(filter bson.D, req dto.PageRequest) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$sort", Value: buildListSort(req)}},
		bson.D{{Key: "$skip", Value: int64(req.Page-1) * int64(req.Limit)}},
		bson.D{{Key: "$limit", Value: int64(req.Limit)}},
	}
	return append(pipeline, ownerLookupStages()...)
}

// List executes the listing query. The total is counted pre-pagination with
// the same predicate so page bookkeeping stays consistent with the slice.
func (r *VideoRepository) List(ctx context.Context, req dto.PageRequest) (*dto.PageResult, error) {
	filter, err := buildListFilter(req)
	if err != nil {
		return nil, err
	}

	videos := r.db.Collection(videosCollection)
	total, err := videos.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count videos: %w", err)
	}

	cursor, err := videos.Aggregate(ctx, buildListPipeline(filter, req))
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer func(cursor *mongo.Cursor, ctx context.Context) {
		if err := cursor.Close(ctx); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while closing cursor")
		}
	}(cursor, ctx)

	var results []dto.VideoWithOwner
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode videos: %w", err)
	}
	if results == nil {
		results = []dto.VideoWithOwner{}
	}
	return dto.NewPageResult(results, total, req.Page, req.Limit), nil
}

func (r *VideoRepository) GetByID(ctx context.Context, videoID string) (*dto.VideoWithOwner, error) {
	id, err := bson.ObjectIDFromHex(videoID)
	if err != nil {
		return nil, model.NewNotFoundError("video not found")
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "_id", Value: id}}}},
		bson.D{{Key: "$limit", Value: 1}},
	}
	pipeline = append(pipeline, ownerLookupStages()...)

	cursor, err := r.db.Collection(videosCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	defer func(cursor *mongo.Cursor, ctx context.Context) {
		if err := cursor.Close(ctx); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while closing cursor")
		}
	}(cursor, ctx)

	var results []dto.VideoWithOwner
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode video: %w", err)
	}
	if len(results) == 0 {
		return nil, model.NewNotFoundError("video not found")
	}
	return &results[0], nil
}

func (r *VideoRepository) Insert(ctx context.Context, video *model.Video) (*model.Video, error) {
	now := utils.GetCurrentTime()
	video.CreatedAt = now
	video.UpdatedAt = now

	result, err := r.db.Collection(videosCollection).InsertOne(ctx, video)
	if err != nil {
		return nil, fmt.Errorf("failed to insert video: %w", err)
	}
	if id, ok := result.InsertedID.(bson.ObjectID); ok {
		video.ID = id
	}
	return video, nil
}

func (r *VideoRepository) Update(ctx context.Context, videoID string, updates map[string]interface{}) (*model.Video, error) {
	id, err := bson.ObjectIDFromHex(videoID)
	if err != nil {
		return nil, model.NewNotFoundError("video not found")
	}

	set := bson.M{"updated_at": utils.GetCurrentTime()}
	for field, value := range updates {
		set[field] = value
	}

	var updated model.Video
	err = r.db.Collection(videosCollection).FindOneAndUpdate(
		ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.NewNotFoundError("video not found")
		}
		return nil, fmt.Errorf("failed to update video: %w", err)
	}
	return &updated, nil
}

// Delete removes the record and returns it so callers can release its assets
func (r *VideoRepository) Delete(ctx context.Context, videoID string) (*model.Video, error) {
	id, err := bson.ObjectIDFromHex(videoID)
	if err != nil {
		return nil, model.NewNotFoundError("video not found")
	}

	var deleted model.Video
	err = r.db.Collection(videosCollection).FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.NewNotFoundError("video not found")
		}
		return nil, fmt.Errorf("failed to delete video: %w", err)
	}
	return &deleted, nil
}

func (r *VideoRepository) TogglePublishStatus(ctx context.Context, videoID string) (*model.Video, error) {
	id, err := bson.ObjectIDFromHex(videoID)
	if err != nil {
		return nil, model.NewNotFoundError("video not found")
	}

	var updated model.Video
	err = r.db.Collection(videosCollection).FindOneAndUpdate(
		ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.A{bson.D{{Key: "$set", Value: bson.D{
			{Key: "is_published", Value: bson.D{{Key: "$not", Value: "$is_published"}}},
			{Key: "updated_at", Value: utils.GetCurrentTime()},
		}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.NewNotFoundError("video not found")
		}
		return nil, fmt.Errorf("failed to toggle publish status: %w", err)
	}
	return &updated, nil
}
