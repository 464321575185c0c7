package dto

import (
	"mime/multipart"
	"strconv"

	"media-catalog/domain/model"
)

const (
	DefaultPage    = 1
	DefaultLimit   = 10
	MaxLimit       = 100
	DefaultSortBy  = "created_at"
	SortAscending  = "asc"
	SortDescending = "desc"
)

// PageRequest represents a normalized listing request.
// Built once per incoming request and not mutated afterwards.
type PageRequest struct {
	Page     int    `json:"page"`
	Limit    int    `json:"limit"`
	SortBy   string `json:"sort_by,omitempty"`
	SortType string `json:"sort_type,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	Query    string `json:"q,omitempty"`
}

// Normalized returns a copy with defaults applied and the limit bounded
func (r PageRequest) Normalized() PageRequest {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.Limit < 1 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	if r.SortBy == "" {
		r.SortBy = DefaultSortBy
	}
	if r.SortType != SortAscending {
		r.SortType = SortDescending
	}
	return r
}

// CacheParams maps the request onto cache key parameters. Call after
// Normalized so an implicit page=1 and an explicit page=1 key identically;
// the key builder skips empty values (userId, q).
func (r PageRequest) CacheParams() map[string]string {
	return map[string]string{
		"page":     strconv.Itoa(r.Page),
		"limit":    strconv.Itoa(r.Limit),
		"sortBy":   r.SortBy,
		"sortType": r.SortType,
		"userId":   r.UserID,
		"q":        r.Query,
	}
}

// VideoWithOwner is a video with its owner reference resolved via join
type VideoWithOwner struct {
	model.Video  `bson:",inline"`
	OwnerDetails model.OwnerStub `bson:"owner_details" json:"owner_details"`
}

// PageResult is the normalized page produced by a listing query.
// Never mutated after construction; cached verbatim as JSON.
type PageResult struct {
	Videos      []VideoWithOwner `json:"videos"`
	TotalVideos int64            `json:"total_videos"`
	TotalPages  int64            `json:"total_pages"`
	Page        int              `json:"page"`
	Limit       int              `json:"limit"`
	HasNextPage bool             `json:"has_next_page"`
	HasPrevPage bool             `json:"has_prev_page"`
}

// NewPageResult derives the page bookkeeping from the pre-pagination total
func NewPageResult(videos []VideoWithOwner, total int64, page, limit int) *PageResult {
	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return &PageResult{
		Videos:      videos,
		TotalVideos: total,
		TotalPages:  totalPages,
		Page:        page,
		Limit:       limit,
		HasNextPage: int64(page)*int64(limit) < total,
		HasPrevPage: page > 1,
	}
}

// VideoPublishRequest represents the multipart body for publishing a video
type VideoPublishRequest struct {
	Title       string                `form:"title" binding:"required"`
	Description string                `form:"description"`
	Tags        []string              `form:"tags"`
	VideoFile   *multipart.FileHeader `form:"videoFile" binding:"required"`
	Thumbnail   *multipart.FileHeader `form:"thumbnail" binding:"required"`
}

// VideoUpdateRequest represents a partial update of video metadata
type VideoUpdateRequest struct {
	Title       string                `form:"title"`
	Description string                `form:"description"`
	Tags        []string              `form:"tags"`
	Thumbnail   *multipart.FileHeader `form:"thumbnail"`
}
