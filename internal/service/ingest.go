package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/trendwatch/youtube-trend-harvester/internal/db/models"
	"github.com/trendwatch/youtube-trend-harvester/internal/db/repository"
	"github.com/trendwatch/youtube-trend-harvester/internal/validation"
	"github.com/trendwatch/youtube-trend-harvester/internal/youtube"
	"github.com/trendwatch/youtube-trend-harvester/pkg/logger"
)

// IngestStats reports what one ingestion pass stored.
type IngestStats struct {
	ChannelsStored int
	VideosStored   int
	// VideosDropped counts records skipped as in-batch duplicates or
	// because they failed validation.
	VideosDropped   int
	ChannelsDropped int
}

// Ingestor writes one harvest batch into the snapshot stores. The whole
// batch, including the channel aggregate recompute, runs in a single
// transaction: a failed insert leaves the stores exactly as the preceding
// rotation left them.
type Ingestor struct {
	pool          *pgxpool.Pool
	popularWindow time.Duration
}

// NewIngestor creates an Ingestor. popularWindow bounds how far back into
// history the popular-count aggregate looks.
func NewIngestor(pool *pgxpool.Pool, popularWindow time.Duration) *Ingestor {
	return &Ingestor{pool: pool, popularWindow: popularWindow}
}

// Ingest stores the given channel and video records, all stamped with the
// one scrapedAt instant of the cycle that fetched them. Channels go first so
// the video rows' foreign keys resolve. Records sharing a scrape identity
// with an earlier record in the same batch are dropped silently: charts
// overlap and the first occurrence is the authoritative one.
func (i *Ingestor) Ingest(ctx context.Context, scrapedAt time.Time, channels []*youtube.ChannelRecord, videos []*youtube.VideoRecord) (IngestStats, error) {
	var stats IngestStats

	tx, err := i.pool.Begin(ctx)
	if err != nil {
		return stats, fmt.Errorf("begin ingest transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	channelRepo := repository.NewChannelRepository(tx)
	videoRepo := repository.NewVideoRepository(tx)

	uniqueChannels, droppedChannels := dedupChannels(channels)
	uniqueVideos, droppedVideos := dedupVideos(videos)
	stats.ChannelsDropped = droppedChannels
	stats.VideosDropped = droppedVideos

	for _, record := range uniqueChannels {
		if err := validation.ValidateChannelRecord(record); err != nil {
			logger.Log.Warn("dropping invalid channel record", zap.Error(err))
			stats.ChannelsDropped++
			continue
		}

		if err := channelRepo.InsertChannel(ctx, mapChannelRecord(record, scrapedAt)); err != nil {
			return IngestStats{}, fmt.Errorf("insert channel %s: %w", record.ChannelID, err)
		}
		stats.ChannelsStored++
	}

	for _, record := range uniqueVideos {
		if err := validation.ValidateVideoRecord(record); err != nil {
			logger.Log.Warn("dropping invalid video record", zap.Error(err))
			stats.VideosDropped++
			continue
		}

		video, err := mapVideoRecord(record, scrapedAt)
		if err != nil {
			logger.Log.Warn("dropping unmappable video record",
				zap.String("video_id", record.VideoID),
				zap.Error(err),
			)
			stats.VideosDropped++
			continue
		}

		if err := videoRepo.InsertVideo(ctx, video); err != nil {
			return IngestStats{}, fmt.Errorf("insert video %s: %w", record.VideoID, err)
		}
		stats.VideosStored++
	}

	cutoff := time.Now().UTC().Add(-i.popularWindow)
	if _, err := channelRepo.RecomputeAggregates(ctx, cutoff); err != nil {
		return IngestStats{}, fmt.Errorf("recompute channel aggregates: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return IngestStats{}, fmt.Errorf("commit ingest transaction: %w", err)
	}

	logger.Log.Info("ingested harvest batch",
		zap.Int("channels_stored", stats.ChannelsStored),
		zap.Int("videos_stored", stats.VideosStored),
		zap.Int("channels_dropped", stats.ChannelsDropped),
		zap.Int("videos_dropped", stats.VideosDropped),
	)

	return stats, nil
}

// dedupVideos keeps the first record per scrape identity and reports how
// many later duplicates were dropped.
func dedupVideos(records []*youtube.VideoRecord) ([]*youtube.VideoRecord, int) {
	seen := make(map[models.Identity]struct{}, len(records))
	unique := make([]*youtube.VideoRecord, 0, len(records))

	for _, record := range records {
		key := models.Identity{VideoID: record.VideoID, ScrapeType: record.Target.Type()}
		if id := record.Target.CategoryID(); id != nil {
			key.CategoryID = *id
		}

		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, record)
	}

	return unique, len(records) - len(unique)
}

// dedupChannels keeps the first record per channel id.
func dedupChannels(records []*youtube.ChannelRecord) ([]*youtube.ChannelRecord, int) {
	seen := make(map[string]struct{}, len(records))
	unique := make([]*youtube.ChannelRecord, 0, len(records))

	for _, record := range records {
		if _, ok := seen[record.ChannelID]; ok {
			continue
		}
		seen[record.ChannelID] = struct{}{}
		unique = append(unique, record)
	}

	return unique, len(records) - len(unique)
}

// mapVideoRecord converts a normalized API record into a snapshot row.
// Every column is assigned here by name; there is no generic field copying.
func mapVideoRecord(record *youtube.VideoRecord, scrapedAt time.Time) (*models.Video, error) {
	video := &models.Video{
		VideoID:      record.VideoID,
		Title:        record.Title,
		Description:  record.Description,
		PublishedAt:  record.PublishedAt,
		ScrapedAt:    scrapedAt,
		ViewCount:    record.ViewCount,
		LikeCount:    record.LikeCount,
		CommentCount: record.CommentCount,
		Tags:         record.Tags,
		Target:       record.Target,
		Rank:         record.Rank,
		ChannelID:    record.ChannelID,
		CategoryID:   record.CategoryID,
	}

	if record.Duration != "" {
		seconds, err := parseISODuration(record.Duration)
		if err != nil {
			return nil, err
		}
		video.DurationSeconds = &seconds
	}

	return video, nil
}

// mapChannelRecord converts a normalized API record into a snapshot row.
// The derived aggregate columns stay nil; RecomputeAggregates fills them
// once the batch's video rows are in place.
func mapChannelRecord(record *youtube.ChannelRecord, scrapedAt time.Time) *models.Channel {
	return &models.Channel{
		ChannelID:       record.ChannelID,
		ScrapedAt:       scrapedAt,
		Title:           record.Title,
		Description:     record.Description,
		PublishedAt:     record.PublishedAt,
		ViewCount:       record.ViewCount,
		SubscriberCount: record.SubscriberCount,
		VideoCount:      record.VideoCount,
	}
}
