// Package service contains the harvester's business logic: snapshot
// rotation, record ingestion and the cycle driver.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/trendwatch/youtube-trend-harvester/internal/db/models"
	"github.com/trendwatch/youtube-trend-harvester/internal/db/repository"
	"github.com/trendwatch/youtube-trend-harvester/pkg/logger"
)

// RotationStats reports what one rotation archived.
type RotationStats struct {
	VideosArchived   int64
	ChannelsArchived int64
	// Skipped is true when the snapshot was empty and nothing was rotated.
	Skipped bool
}

// Rotator archives the live snapshot into the history tables and clears the
// snapshot stores, as one atomic transaction. On any failure the transaction
// rolls back completely: no history rows are kept, no snapshot rows are
// deleted, and the next cycle retries against the same snapshot.
type Rotator struct {
	pool *pgxpool.Pool
}

// NewRotator creates a Rotator over the given pool.
func NewRotator(pool *pgxpool.Pool) *Rotator {
	return &Rotator{pool: pool}
}

// Rotate performs one archive-and-clear pass.
func (r *Rotator) Rotate(ctx context.Context) (RotationStats, error) {
	var stats RotationStats

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return stats, fmt.Errorf("begin rotation transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	videoRepo := repository.NewVideoRepository(tx)
	channelRepo := repository.NewChannelRepository(tx)
	videoHistoryRepo := repository.NewVideoHistoryRepository(tx)
	channelHistoryRepo := repository.NewChannelHistoryRepository(tx)

	videos, err := videoRepo.ListCurrent(ctx)
	if err != nil {
		return stats, fmt.Errorf("load video snapshot: %w", err)
	}

	channels, err := channelRepo.ListCurrent(ctx)
	if err != nil {
		return stats, fmt.Errorf("load channel snapshot: %w", err)
	}

	// An empty snapshot means there is nothing to archive, not an error:
	// first run ever, or the previous cycle rotated and then failed to
	// ingest.
	if len(videos) == 0 || len(channels) == 0 {
		logger.Log.Info("empty snapshot, skipping rotation",
			zap.Int("videos", len(videos)),
			zap.Int("channels", len(channels)),
		)
		stats.Skipped = true
		return stats, nil
	}

	videoHistory, err := buildVideoHistory(ctx, videoHistoryRepo, videos)
	if err != nil {
		return stats, err
	}

	channelHistory, err := buildChannelHistory(ctx, channelHistoryRepo, channels)
	if err != nil {
		return stats, err
	}

	if stats.VideosArchived, err = videoHistoryRepo.BulkInsert(ctx, videoHistory); err != nil {
		return stats, fmt.Errorf("archive videos: %w", err)
	}
	if stats.ChannelsArchived, err = channelHistoryRepo.BulkInsert(ctx, channelHistory); err != nil {
		return stats, fmt.Errorf("archive channels: %w", err)
	}

	if _, err = videoRepo.DeleteAll(ctx); err != nil {
		return stats, fmt.Errorf("clear video snapshot: %w", err)
	}
	if _, err = channelRepo.DeleteAll(ctx); err != nil {
		return stats, fmt.Errorf("clear channel snapshot: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return stats, fmt.Errorf("commit rotation: %w", err)
	}

	logger.Log.Info("snapshot rotated",
		zap.Int64("videos_archived", stats.VideosArchived),
		zap.Int64("channels_archived", stats.ChannelsArchived),
	)

	return stats, nil
}

func buildVideoHistory(ctx context.Context, historyRepo repository.VideoHistoryRepository, videos []*models.Video) ([]*models.VideoHistory, error) {
	ids := make([]string, 0, len(videos))
	seen := make(map[string]struct{}, len(videos))
	for _, v := range videos {
		if _, ok := seen[v.VideoID]; ok {
			continue
		}
		seen[v.VideoID] = struct{}{}
		ids = append(ids, v.VideoID)
	}

	latest, err := historyRepo.LatestByVideoIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load previous video history: %w", err)
	}

	history := make([]*models.VideoHistory, 0, len(videos))
	for _, v := range videos {
		history = append(history, videoHistoryRow(v, latest[v.VideoID]))
	}
	return history, nil
}

// videoHistoryRow builds the archive payload for one snapshot row: the
// carried-over fields verbatim plus elapsed days, deltas and growth rates
// against the previous observation of the same video id.
func videoHistoryRow(v *models.Video, prev *models.VideoHistory) *models.VideoHistory {
	var prevScrape *time.Time
	var prevViews, prevLikes, prevComments *int64
	if prev != nil {
		prevScrape = &prev.ScrapedAt
		prevViews = prev.ViewCount
		prevLikes = prev.LikeCount
		prevComments = prev.CommentCount
	}

	days := daysBetween(v.ScrapedAt, prevScrape)
	viewDelta := int64Delta(v.ViewCount, prevViews)
	likeDelta := int64Delta(v.LikeCount, prevLikes)
	commentDelta := int64Delta(v.CommentCount, prevComments)

	return &models.VideoHistory{
		VideoID:         v.VideoID,
		ScrapedAt:       v.ScrapedAt,
		Title:           v.Title,
		Description:     v.Description,
		PublishedAt:     v.PublishedAt,
		ViewCount:       v.ViewCount,
		LikeCount:       v.LikeCount,
		CommentCount:    v.CommentCount,
		DurationSeconds: v.DurationSeconds,
		Tags:            v.Tags,
		Rank:            v.Rank,
		Target:          v.Target,
		ChannelID:       v.ChannelID,
		CategoryID:      v.CategoryID,

		DaysSinceScrape: days,

		ViewCountDelta:    viewDelta,
		LikeCountDelta:    likeDelta,
		CommentCountDelta: commentDelta,

		ViewGrowthPerDay:    growthPerDay(viewDelta, days),
		LikeGrowthPerDay:    growthPerDay(likeDelta, days),
		CommentGrowthPerDay: growthPerDay(commentDelta, days),
	}
}

func buildChannelHistory(ctx context.Context, historyRepo repository.ChannelHistoryRepository, channels []*models.Channel) ([]*models.ChannelHistory, error) {
	ids := make([]string, 0, len(channels))
	for _, c := range channels {
		ids = append(ids, c.ChannelID)
	}

	latest, err := historyRepo.LatestByChannelIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load previous channel history: %w", err)
	}

	history := make([]*models.ChannelHistory, 0, len(channels))
	for _, c := range channels {
		history = append(history, channelHistoryRow(c, latest[c.ChannelID]))
	}
	return history, nil
}

// channelHistoryRow does for channels what videoHistoryRow does for videos,
// over the full numeric field set including the derived averages.
func channelHistoryRow(c *models.Channel, prev *models.ChannelHistory) *models.ChannelHistory {
	var prevScrape *time.Time
	p := &models.ChannelHistory{} // zero-valued stand-in keeps the nil checks local
	if prev != nil {
		prevScrape = &prev.ScrapedAt
		p = prev
	}

	days := daysBetween(c.ScrapedAt, prevScrape)

	viewDelta := int64Delta(c.ViewCount, p.ViewCount)
	popularViewDelta := int64Delta(c.PopularViewCount, p.PopularViewCount)
	likeDelta := int64Delta(c.LikeCount, p.LikeCount)
	commentDelta := int64Delta(c.CommentCount, p.CommentCount)
	subscriberDelta := int64Delta(c.SubscriberCount, p.SubscriberCount)
	videoDelta := int64Delta(c.VideoCount, p.VideoCount)
	popularCountDelta := int64Delta(c.PopularCount, p.PopularCount)
	avgViewsDelta := float64Delta(c.AverageViews, p.AverageViews)
	avgLikesDelta := float64Delta(c.AverageLikes, p.AverageLikes)
	avgCommentsDelta := float64Delta(c.AverageComments, p.AverageComments)

	return &models.ChannelHistory{
		ChannelID:   c.ChannelID,
		ScrapedAt:   c.ScrapedAt,
		Title:       c.Title,
		Description: c.Description,
		PublishedAt: c.PublishedAt,

		ViewCount:        c.ViewCount,
		PopularViewCount: c.PopularViewCount,
		LikeCount:        c.LikeCount,
		CommentCount:     c.CommentCount,
		SubscriberCount:  c.SubscriberCount,
		VideoCount:       c.VideoCount,
		PopularCount:     c.PopularCount,
		AverageViews:     c.AverageViews,
		AverageLikes:     c.AverageLikes,
		AverageComments:  c.AverageComments,

		DaysSinceScrape: days,

		ViewCountDelta:        viewDelta,
		PopularViewCountDelta: popularViewDelta,
		LikeCountDelta:        likeDelta,
		CommentCountDelta:     commentDelta,
		SubscriberCountDelta:  subscriberDelta,
		VideoCountDelta:       videoDelta,
		PopularCountDelta:     popularCountDelta,
		AverageViewsDelta:     avgViewsDelta,
		AverageLikesDelta:     avgLikesDelta,
		AverageCommentsDelta:  avgCommentsDelta,

		ViewGrowthPerDay:           growthPerDay(viewDelta, days),
		PopularViewGrowthPerDay:    growthPerDay(popularViewDelta, days),
		LikeGrowthPerDay:           growthPerDay(likeDelta, days),
		CommentGrowthPerDay:        growthPerDay(commentDelta, days),
		SubscriberGrowthPerDay:     growthPerDay(subscriberDelta, days),
		VideoGrowthPerDay:          growthPerDay(videoDelta, days),
		PopularCountGrowthPerDay:   growthPerDay(popularCountDelta, days),
		AverageViewGrowthPerDay:    growthPerDayFloat(avgViewsDelta, days),
		AverageLikeGrowthPerDay:    growthPerDayFloat(avgLikesDelta, days),
		AverageCommentGrowthPerDay: growthPerDayFloat(avgCommentsDelta, days),
	}
}
