package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/trendwatch/youtube-trend-harvester/internal/db/repository"
	"github.com/trendwatch/youtube-trend-harvester/internal/validation"
	"github.com/trendwatch/youtube-trend-harvester/pkg/logger"
)

// VideoHandler serves the live video snapshot and the per-video archive.
type VideoHandler struct {
	videos  repository.VideoRepository
	history repository.VideoHistoryRepository
}

// NewVideoHandler creates a new VideoHandler instance.
func NewVideoHandler(videos repository.VideoRepository, history repository.VideoHistoryRepository) *VideoHandler {
	return &VideoHandler{videos: videos, history: history}
}

// ListVideos returns the current snapshot ordered by chart rank.
func (h *VideoHandler) ListVideos(c *gin.Context) {
	limit, offset := pagination(c)

	videos, err := h.videos.ListVideos(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Log.Error("Failed to list videos", zap.Error(err))
		sendError(c, http.StatusInternalServerError, "failed to list videos")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"videos": videoResponses(videos),
		"limit":  limit,
		"offset": offset,
	})
}

// GetVideoHistory returns a video's archived observations, newest first.
func (h *VideoHandler) GetVideoHistory(c *gin.Context) {
	videoID := c.Param("videoId")
	if !validation.IsValidVideoID(videoID) {
		sendError(c, http.StatusBadRequest, "invalid video ID format")
		return
	}

	limit, _ := pagination(c)

	rows, err := h.history.ListByVideoID(c.Request.Context(), videoID, limit)
	if err != nil {
		logger.Log.Error("Failed to load video history",
			zap.String("videoId", videoID),
			zap.Error(err),
		)
		sendError(c, http.StatusInternalServerError, "failed to load video history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"video_id": videoID,
		"history":  videoHistoryResponses(rows),
	})
}
