package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendwatch/youtube-trend-harvester/internal/db"
	"github.com/trendwatch/youtube-trend-harvester/internal/db/models"
	"github.com/trendwatch/youtube-trend-harvester/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	_ = logger.Init("error", "")
}

const (
	testVideoID   = "dQw4w9WgXcQ"
	testChannelID = "UCuAXFkgsw1L7xaCfnd5JJOw"
)

type fakeVideoRepo struct {
	videos []*models.Video
	err    error
}

func (f *fakeVideoRepo) InsertVideo(context.Context, *models.Video) error { return nil }
func (f *fakeVideoRepo) ListCurrent(context.Context) ([]*models.Video, error) {
	return f.videos, f.err
}
func (f *fakeVideoRepo) ListVideos(context.Context, int, int) ([]*models.Video, error) {
	return f.videos, f.err
}
func (f *fakeVideoRepo) GetVideosByChannelID(context.Context, string, int) ([]*models.Video, error) {
	return f.videos, f.err
}
func (f *fakeVideoRepo) DeleteAll(context.Context) (int64, error) { return 0, nil }

type fakeVideoHistoryRepo struct {
	rows []*models.VideoHistory
	err  error
}

func (f *fakeVideoHistoryRepo) LatestByVideoIDs(context.Context, []string) (map[string]*models.VideoHistory, error) {
	return nil, nil
}
func (f *fakeVideoHistoryRepo) BulkInsert(context.Context, []*models.VideoHistory) (int64, error) {
	return 0, nil
}
func (f *fakeVideoHistoryRepo) ListByVideoID(context.Context, string, int) ([]*models.VideoHistory, error) {
	return f.rows, f.err
}

type fakeChannelRepo struct {
	channel  *models.Channel
	channels []*models.Channel
	err      error
}

func (f *fakeChannelRepo) InsertChannel(context.Context, *models.Channel) error { return nil }
func (f *fakeChannelRepo) GetChannelByID(context.Context, string) (*models.Channel, error) {
	return f.channel, f.err
}
func (f *fakeChannelRepo) ListCurrent(context.Context) ([]*models.Channel, error) {
	return f.channels, f.err
}
func (f *fakeChannelRepo) ListChannels(context.Context, int, int) ([]*models.Channel, error) {
	return f.channels, f.err
}
func (f *fakeChannelRepo) DeleteAll(context.Context) (int64, error) { return 0, nil }
func (f *fakeChannelRepo) RecomputeAggregates(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type fakeChannelHistoryRepo struct {
	rows []*models.ChannelHistory
	err  error
}

func (f *fakeChannelHistoryRepo) LatestByChannelIDs(context.Context, []string) (map[string]*models.ChannelHistory, error) {
	return nil, nil
}
func (f *fakeChannelHistoryRepo) BulkInsert(context.Context, []*models.ChannelHistory) (int64, error) {
	return 0, nil
}
func (f *fakeChannelHistoryRepo) ListByChannelID(context.Context, string, int) ([]*models.ChannelHistory, error) {
	return f.rows, f.err
}

type fakeCategoryRepo struct {
	categories []*models.Category
	err        error
}

func (f *fakeCategoryRepo) UpsertCategory(context.Context, *models.Category) error { return nil }
func (f *fakeCategoryRepo) ListAll(context.Context) ([]*models.Category, error) {
	return f.categories, f.err
}
func (f *fakeCategoryRepo) ListAssignable(context.Context) ([]*models.Category, error) {
	return f.categories, f.err
}

func sampleVideo() *models.Video {
	views := int64(1000)
	return &models.Video{
		VideoID:     testVideoID,
		Title:       "A Video",
		PublishedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		ScrapedAt:   time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC),
		ViewCount:   &views,
		Target:      models.PopularTarget(),
		Rank:        1,
		ChannelID:   testChannelID,
	}
}

func performRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListVideos(t *testing.T) {
	h := NewVideoHandler(&fakeVideoRepo{videos: []*models.Video{sampleVideo()}}, &fakeVideoHistoryRepo{})

	router := gin.New()
	router.GET("/api/v1/videos", h.ListVideos)

	w := performRequest(router, http.MethodGet, "/api/v1/videos?limit=10")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Videos []VideoResponse `json:"videos"`
		Limit  int             `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Videos, 1)
	assert.Equal(t, testVideoID, body.Videos[0].VideoID)
	assert.Equal(t, "popular", body.Videos[0].ScrapeType)
	assert.Nil(t, body.Videos[0].ScrapeCategory)
	assert.Equal(t, 10, body.Limit)
}

func TestListVideosRepositoryError(t *testing.T) {
	h := NewVideoHandler(&fakeVideoRepo{err: errors.New("boom")}, &fakeVideoHistoryRepo{})

	router := gin.New()
	router.GET("/api/v1/videos", h.ListVideos)

	w := performRequest(router, http.MethodGet, "/api/v1/videos")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetVideoHistory(t *testing.T) {
	days := 2.0
	delta := int64(500)
	growth := 250.0
	rows := []*models.VideoHistory{{
		VideoID:          testVideoID,
		Title:            "A Video",
		ScrapedAt:        time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC),
		Target:           models.PopularTarget(),
		Rank:             1,
		ChannelID:        testChannelID,
		DaysSinceScrape:  &days,
		ViewCountDelta:   &delta,
		ViewGrowthPerDay: &growth,
	}}

	h := NewVideoHandler(&fakeVideoRepo{}, &fakeVideoHistoryRepo{rows: rows})

	router := gin.New()
	router.GET("/api/v1/videos/:videoId/history", h.GetVideoHistory)

	w := performRequest(router, http.MethodGet, "/api/v1/videos/"+testVideoID+"/history")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		History []VideoHistoryResponse `json:"history"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.History, 1)
	require.NotNil(t, body.History[0].ViewCountDelta)
	assert.Equal(t, int64(500), *body.History[0].ViewCountDelta)
	require.NotNil(t, body.History[0].ViewGrowthPerDay)
	assert.InDelta(t, 250.0, *body.History[0].ViewGrowthPerDay, 1e-9)
}

func TestGetVideoHistoryRejectsBadID(t *testing.T) {
	h := NewVideoHandler(&fakeVideoRepo{}, &fakeVideoHistoryRepo{})

	router := gin.New()
	router.GET("/api/v1/videos/:videoId/history", h.GetVideoHistory)

	w := performRequest(router, http.MethodGet, "/api/v1/videos/not-an-id/history")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetChannel(t *testing.T) {
	channel := &models.Channel{
		ChannelID: testChannelID,
		Title:     "A Channel",
		ScrapedAt: time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC),
	}
	h := NewChannelHandler(&fakeChannelRepo{channel: channel}, &fakeVideoRepo{}, &fakeChannelHistoryRepo{})

	router := gin.New()
	router.GET("/api/v1/channels/:channelId", h.GetChannel)

	w := performRequest(router, http.MethodGet, "/api/v1/channels/"+testChannelID)
	require.Equal(t, http.StatusOK, w.Code)

	var body ChannelResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, testChannelID, body.ChannelID)
}

func TestGetChannelNotFound(t *testing.T) {
	h := NewChannelHandler(&fakeChannelRepo{err: db.ErrNotFound}, &fakeVideoRepo{}, &fakeChannelHistoryRepo{})

	router := gin.New()
	router.GET("/api/v1/channels/:channelId", h.GetChannel)

	w := performRequest(router, http.MethodGet, "/api/v1/channels/"+testChannelID)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusNotFound, body.Status)
}

func TestGetChannelRejectsBadID(t *testing.T) {
	h := NewChannelHandler(&fakeChannelRepo{}, &fakeVideoRepo{}, &fakeChannelHistoryRepo{})

	router := gin.New()
	router.GET("/api/v1/channels/:channelId", h.GetChannel)

	w := performRequest(router, http.MethodGet, "/api/v1/channels/nope")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCategories(t *testing.T) {
	h := NewCategoryHandler(&fakeCategoryRepo{categories: []*models.Category{
		{CategoryID: 10, Name: "Music", Assignable: true},
	}})

	router := gin.New()
	router.GET("/api/v1/categories", h.ListCategories)

	w := performRequest(router, http.MethodGet, "/api/v1/categories")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Categories []CategoryResponse `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Categories, 1)
	assert.Equal(t, "Music", body.Categories[0].Name)
}

func TestPagination(t *testing.T) {
	router := gin.New()
	var gotLimit, gotOffset int
	router.GET("/x", func(c *gin.Context) {
		gotLimit, gotOffset = pagination(c)
		c.Status(http.StatusOK)
	})

	performRequest(router, http.MethodGet, "/x")
	assert.Equal(t, defaultLimit, gotLimit)
	assert.Equal(t, 0, gotOffset)

	performRequest(router, http.MethodGet, "/x?limit=9999&offset=20")
	assert.Equal(t, maxLimit, gotLimit)
	assert.Equal(t, 20, gotOffset)

	performRequest(router, http.MethodGet, "/x?limit=-5&offset=-2")
	assert.Equal(t, defaultLimit, gotLimit)
	assert.Equal(t, 0, gotOffset)
}
