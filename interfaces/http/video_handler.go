package http

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"media-catalog/domain/dto"
	"media-catalog/domain/model"
	"media-catalog/infrastructure/logger"
	"media-catalog/usecase"

	"github.com/gin-gonic/gin"
)

// IVideoHandler defines the video catalog HTTP handlers
type IVideoHandler interface {
	ListVideos(ctx *gin.Context)
	GetVideoByID(ctx *gin.Context)
	PublishVideo(ctx *gin.Context)
	UpdateVideo(ctx *gin.Context)
	DeleteVideo(ctx *gin.Context)
	TogglePublishStatus(ctx *gin.Context)
}

type VideoHandler struct {
	videoUsecase usecase.IVideoUsecase
}

func NewVideoHandler(videoUsecase usecase.IVideoUsecase) IVideoHandler {
	return &VideoHandler{videoUsecase: videoUsecase}
}

func respondError(ctx *gin.Context, err error) {
	appErr := model.AsAppError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		logger.GetLogger().WithField("error", err).Error("Request failed")
	}
	ctx.JSON(appErr.StatusCode, dto.Fail(appErr.StatusCode, appErr.Message))
}

// pageRequestFromQuery builds the immutable PageRequest from query params
func pageRequestFromQuery(ctx *gin.Context) dto.PageRequest {
	req := dto.PageRequest{
		SortBy:   ctx.Query("sortBy"),
		SortType: ctx.Query("sortType"),
		UserID:   ctx.Query("userId"),
		Query:    ctx.Query("q"),
	}
	if page, err := strconv.Atoi(ctx.Query("page")); err == nil {
		req.Page = page
	}
	if limit, err := strconv.Atoi(ctx.Query("limit")); err == nil {
		req.Limit = limit
	}
	return req
}

// saveUploadedFile stages a multipart attachment for the object storage client
func saveUploadedFile(ctx *gin.Context, file *multipart.FileHeader) (string, error) {
	dst := filepath.Join(os.TempDir(), fmt.Sprintf("upload-%d-%s", os.Getpid(), filepath.Base(file.Filename)))
	if err := ctx.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// ListVideos handles GET /api/videos
func (h *VideoHandler) ListVideos(ctx *gin.Context) {
	result, err := h.videoUsecase.List(ctx.Request.Context(), pageRequestFromQuery(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(http.StatusOK, result, "videos fetched successfully"))
}

// GetVideoByID handles GET /api/videos/:videoId
func (h *VideoHandler) GetVideoByID(ctx *gin.Context) {
	video, err := h.videoUsecase.GetByID(ctx.Request.Context(), ctx.Param("videoId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(http.StatusOK, video, "video fetched successfully"))
}

// PublishVideo handles POST /api/videos
func (h *VideoHandler) PublishVideo(ctx *gin.Context) {
	var req dto.VideoPublishRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail(http.StatusBadRequest, err.Error()))
		return
	}
	if tags := ctx.PostForm("tags"); tags != "" && len(req.Tags) == 0 {
		req.Tags = strings.Split(tags, ",")
	}

	videoPath, err := saveUploadedFile(ctx, req.VideoFile)
	if err != nil {
		respondError(ctx, err)
		return
	}
	defer os.Remove(videoPath)

	thumbnailPath, err := saveUploadedFile(ctx, req.Thumbnail)
	if err != nil {
		respondError(ctx, err)
		return
	}
	defer os.Remove(thumbnailPath)

	ownerID := ctx.GetString("user_id")
	if ownerID == "" {
		ownerID = ctx.PostForm("ownerId")
	}

	created, err := h.videoUsecase.Publish(ctx.Request.Context(), &req, ownerID, videoPath, thumbnailPath)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.OK(http.StatusCreated, created, "video published successfully"))
}

// UpdateVideo handles PATCH /api/videos/:videoId
func (h *VideoHandler) UpdateVideo(ctx *gin.Context) {
	var req dto.VideoUpdateRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail(http.StatusBadRequest, err.Error()))
		return
	}
	if tags := ctx.PostForm("tags"); tags != "" && len(req.Tags) == 0 {
		req.Tags = strings.Split(tags, ",")
	}

	thumbnailPath := ""
	if req.Thumbnail != nil {
		path, err := saveUploadedFile(ctx, req.Thumbnail)
		if err != nil {
			respondError(ctx, err)
			return
		}
		defer os.Remove(path)
		thumbnailPath = path
	}

	updated, err := h.videoUsecase.Update(ctx.Request.Context(), ctx.Param("videoId"), &req, thumbnailPath)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(http.StatusOK, updated, "video updated successfully"))
}

// DeleteVideo handles DELETE /api/videos/:videoId
func (h *VideoHandler) DeleteVideo(ctx *gin.Context) {
	if err := h.videoUsecase.Delete(ctx.Request.Context(), ctx.Param("videoId")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(http.StatusOK, nil, "video deleted successfully"))
}

// TogglePublishStatus handles PATCH /api/videos/:videoId/toggle-publish
func (h *VideoHandler) TogglePublishStatus(ctx *gin.Context) {
	updated, err := h.videoUsecase.TogglePublishStatus(ctx.Request.Context(), ctx.Param("videoId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(http.StatusOK, updated, "publish status toggled successfully"))
}
