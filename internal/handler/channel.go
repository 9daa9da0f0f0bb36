package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/trendwatch/youtube-trend-harvester/internal/db"
	"github.com/trendwatch/youtube-trend-harvester/internal/db/repository"
	"github.com/trendwatch/youtube-trend-harvester/internal/validation"
	"github.com/trendwatch/youtube-trend-harvester/pkg/logger"
)

// ChannelHandler serves the channel snapshot, its videos, and the archive.
type ChannelHandler struct {
	channels repository.ChannelRepository
	videos   repository.VideoRepository
	history  repository.ChannelHistoryRepository
}

// NewChannelHandler creates a new ChannelHandler instance.
func NewChannelHandler(
	channels repository.ChannelRepository,
	videos repository.VideoRepository,
	history repository.ChannelHistoryRepository,
) *ChannelHandler {
	return &ChannelHandler{channels: channels, videos: videos, history: history}
}

// ListChannels returns the current channel snapshot.
func (h *ChannelHandler) ListChannels(c *gin.Context) {
	limit, offset := pagination(c)

	channels, err := h.channels.ListChannels(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Log.Error("Failed to list channels", zap.Error(err))
		sendError(c, http.StatusInternalServerError, "failed to list channels")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"channels": channelResponses(channels),
		"limit":    limit,
		"offset":   offset,
	})
}

// GetChannel returns one channel snapshot row.
func (h *ChannelHandler) GetChannel(c *gin.Context) {
	channelID := c.Param("channelId")
	if !validation.IsValidChannelID(channelID) {
		sendError(c, http.StatusBadRequest, "invalid channel ID format")
		return
	}

	channel, err := h.channels.GetChannelByID(c.Request.Context(), channelID)
	if err != nil {
		if db.IsNotFound(err) {
			sendError(c, http.StatusNotFound, "channel not found")
			return
		}
		logger.Log.Error("Failed to get channel",
			zap.String("channelId", channelID),
			zap.Error(err),
		)
		sendError(c, http.StatusInternalServerError, "failed to get channel")
		return
	}

	c.JSON(http.StatusOK, channelResponse(channel))
}

// GetChannelVideos returns the channel's videos in the current snapshot.
func (h *ChannelHandler) GetChannelVideos(c *gin.Context) {
	channelID := c.Param("channelId")
	if !validation.IsValidChannelID(channelID) {
		sendError(c, http.StatusBadRequest, "invalid channel ID format")
		return
	}

	limit, _ := pagination(c)

	videos, err := h.videos.GetVideosByChannelID(c.Request.Context(), channelID, limit)
	if err != nil {
		logger.Log.Error("Failed to list channel videos",
			zap.String("channelId", channelID),
			zap.Error(err),
		)
		sendError(c, http.StatusInternalServerError, "failed to list channel videos")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"channel_id": channelID,
		"videos":     videoResponses(videos),
	})
}

// GetChannelHistory returns a channel's archived observations, newest first.
func (h *ChannelHandler) GetChannelHistory(c *gin.Context) {
	channelID := c.Param("channelId")
	if !validation.IsValidChannelID(channelID) {
		sendError(c, http.StatusBadRequest, "invalid channel ID format")
		return
	}

	limit, _ := pagination(c)

	rows, err := h.history.ListByChannelID(c.Request.Context(), channelID, limit)
	if err != nil {
		logger.Log.Error("Failed to load channel history",
			zap.String("channelId", channelID),
			zap.Error(err),
		)
		sendError(c, http.StatusInternalServerError, "failed to load channel history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"channel_id": channelID,
		"history":    channelHistoryResponses(rows),
	})
}
