package youtube

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/trendwatch/youtube-trend-harvester/internal/db/models"
	"github.com/trendwatch/youtube-trend-harvester/pkg/logger"
)

// maxTagsLength caps the joined tag string stored per video.
const maxTagsLength = 500

// channelBatchSize is the API limit for ids per channels.list call.
const channelBatchSize = 50

// Client wraps the YouTube Data API v3.
type Client struct {
	service    *yt.Service
	regionCode string
	pageSize   int64
	maxPages   int
}

// NewClient creates a YouTube API client.
func NewClient(ctx context.Context, apiKey, regionCode string, pageSize int64, maxPages int) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}

	service, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create YouTube service: %w", err)
	}

	return &Client{
		service:    service,
		regionCode: regionCode,
		pageSize:   pageSize,
		maxPages:   maxPages,
	}, nil
}

// TrendingVideos pages through the popular chart for the given target and
// returns normalized video records plus the distinct channel ids seen.
//
// Upstream failures are transient by policy: they are logged and yield zero
// records so the cycle continues with partial data. In particular some
// categories accept uploads yet have no popular chart and answer 404.
func (c *Client) TrendingVideos(ctx context.Context, target models.ScrapeTarget) ([]*VideoRecord, []string, error) {
	var (
		records    []*VideoRecord
		channelIDs []string
		seen       = map[string]struct{}{}
		pageToken  string
	)

	for page := 0; page < c.maxPages; page++ {
		call := c.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
			Chart("mostPopular").
			RegionCode(c.regionCode).
			MaxResults(c.pageSize).
			Context(ctx)
		if id := target.CategoryID(); id != nil {
			call = call.VideoCategoryId(strconv.FormatInt(*id, 10))
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := call.Do()
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			logUpstreamFailure("videos.list", target, err)
			return nil, nil, nil
		}

		for _, item := range response.Items {
			record, err := mapVideo(item, target, len(records)+1)
			if err != nil {
				logger.Log.Warn("skipping malformed video item",
					zap.String("video_id", item.Id),
					zap.Error(err),
				)
				continue
			}
			records = append(records, record)

			if _, ok := seen[record.ChannelID]; !ok && record.ChannelID != "" {
				seen[record.ChannelID] = struct{}{}
				channelIDs = append(channelIDs, record.ChannelID)
			}
		}

		pageToken = response.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return records, channelIDs, nil
}

// Channels fetches channel metadata for the given ids, batching by the API
// limit of 50 ids per request.
func (c *Client) Channels(ctx context.Context, channelIDs []string) ([]*ChannelRecord, error) {
	var records []*ChannelRecord

	for start := 0; start < len(channelIDs); start += channelBatchSize {
		end := min(start+channelBatchSize, len(channelIDs))

		call := c.service.Channels.List([]string{"snippet", "statistics"}).
			Id(channelIDs[start:end]...).
			Context(ctx)

		response, err := call.Do()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logUpstreamFailure("channels.list", models.ScrapeTarget{}, err)
			continue
		}

		for _, item := range response.Items {
			record, err := mapChannel(item)
			if err != nil {
				logger.Log.Warn("skipping malformed channel item",
					zap.String("channel_id", item.Id),
					zap.Error(err),
				)
				continue
			}
			records = append(records, record)
		}
	}

	return records, nil
}

// Categories fetches the video categories for the configured region.
func (c *Client) Categories(ctx context.Context) ([]*CategoryRecord, error) {
	call := c.service.VideoCategories.List([]string{"snippet"}).
		RegionCode(c.regionCode).
		Context(ctx)

	response, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("videoCategories.list: %w", err)
	}

	records := make([]*CategoryRecord, 0, len(response.Items))
	for _, item := range response.Items {
		id, err := strconv.ParseInt(item.Id, 10, 64)
		if err != nil {
			logger.Log.Warn("skipping category with non-numeric id", zap.String("id", item.Id))
			continue
		}
		records = append(records, &CategoryRecord{
			CategoryID: id,
			Name:       item.Snippet.Title,
			Assignable: item.Snippet.Assignable,
		})
	}

	return records, nil
}

func mapVideo(item *yt.Video, target models.ScrapeTarget, rank int) (*VideoRecord, error) {
	if item.Snippet == nil {
		return nil, fmt.Errorf("video %s has no snippet", item.Id)
	}

	publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
	if err != nil {
		return nil, fmt.Errorf("parse publishedAt %q: %w", item.Snippet.PublishedAt, err)
	}

	record := &VideoRecord{
		VideoID:     item.Id,
		Title:       item.Snippet.Title,
		Description: optionalString(item.Snippet.Description),
		PublishedAt: publishedAt,
		ChannelID:   item.Snippet.ChannelId,
		Tags:        optionalString(joinTags(item.Snippet.Tags)),
		Rank:        rank,
		Target:      target,
	}

	if item.Snippet.CategoryId != "" {
		if id, err := strconv.ParseInt(item.Snippet.CategoryId, 10, 64); err == nil {
			record.CategoryID = &id
		}
	}

	if item.Statistics != nil {
		record.ViewCount = uintPtr(item.Statistics.ViewCount)
		record.LikeCount = uintPtr(item.Statistics.LikeCount)
		record.CommentCount = uintPtr(item.Statistics.CommentCount)
	}

	if item.ContentDetails != nil {
		record.Duration = item.ContentDetails.Duration
	}

	return record, nil
}

func mapChannel(item *yt.Channel) (*ChannelRecord, error) {
	if item.Snippet == nil {
		return nil, fmt.Errorf("channel %s has no snippet", item.Id)
	}

	publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
	if err != nil {
		return nil, fmt.Errorf("parse publishedAt %q: %w", item.Snippet.PublishedAt, err)
	}

	record := &ChannelRecord{
		ChannelID:   item.Id,
		Title:       item.Snippet.Title,
		Description: optionalString(item.Snippet.Description),
		PublishedAt: publishedAt,
	}

	if item.Statistics != nil {
		record.ViewCount = uintPtr(item.Statistics.ViewCount)
		record.VideoCount = uintPtr(item.Statistics.VideoCount)
		if !item.Statistics.HiddenSubscriberCount {
			record.SubscriberCount = uintPtr(item.Statistics.SubscriberCount)
		}
	}

	return record, nil
}

// joinTags renders the tag list as a comma-separated string capped at
// maxTagsLength, truncating at a tag boundary where possible.
func joinTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}

	joined := strings.Join(tags, ", ")
	if len(joined) <= maxTagsLength {
		return joined
	}

	truncated := joined[:maxTagsLength-3]
	if cut := strings.LastIndex(truncated, ", "); cut > 0 {
		truncated = truncated[:cut]
	}
	return truncated + "..."
}

func logUpstreamFailure(operation string, target models.ScrapeTarget, err error) {
	fields := []zap.Field{zap.String("operation", operation), zap.Error(err)}
	if target.Type() != "" {
		fields = append(fields, zap.String("target", target.String()))
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		fields = append(fields, zap.Int("status", apiErr.Code))
	}

	logger.Log.Warn("upstream request failed, continuing with zero records", fields...)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func uintPtr(v uint64) *int64 {
	signed := int64(v)
	return &signed
}
