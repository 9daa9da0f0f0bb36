package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/trendwatch/youtube-trend-harvester/internal/db/repository"
	"github.com/trendwatch/youtube-trend-harvester/pkg/logger"
)

// CategoryHandler serves the known video categories.
type CategoryHandler struct {
	categories repository.CategoryRepository
}

// NewCategoryHandler creates a new CategoryHandler instance.
func NewCategoryHandler(categories repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// ListCategories returns every known category.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.ListAll(c.Request.Context())
	if err != nil {
		logger.Log.Error("Failed to list categories", zap.Error(err))
		sendError(c, http.StatusInternalServerError, "failed to list categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categoryResponses(categories)})
}
