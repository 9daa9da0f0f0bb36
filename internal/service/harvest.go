package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/trendwatch/youtube-trend-harvester/internal/config"
	"github.com/trendwatch/youtube-trend-harvester/internal/db/models"
	"github.com/trendwatch/youtube-trend-harvester/internal/db/repository"
	"github.com/trendwatch/youtube-trend-harvester/internal/metrics"
	"github.com/trendwatch/youtube-trend-harvester/internal/youtube"
	"github.com/trendwatch/youtube-trend-harvester/pkg/logger"
)

// Source is the upstream chart and channel lookup the cycle driver scrapes.
// It is the Data API in production and a fake in tests.
type Source interface {
	TrendingVideos(ctx context.Context, target models.ScrapeTarget) ([]*youtube.VideoRecord, []string, error)
	Channels(ctx context.Context, channelIDs []string) ([]*youtube.ChannelRecord, error)
	Categories(ctx context.Context) ([]*youtube.CategoryRecord, error)
}

// CycleStats summarizes one completed harvest cycle.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type CycleStats struct {
	RunID     uuid.UUID
	ScrapedAt time.Time
	Duration  time.Duration

	Rotation RotationStats
	Ingest   IngestStats

	// CategoriesScraped counts category charts that returned records;
	// CategoriesFailed counts charts that came back empty.
	CategoriesScraped int
	CategoriesFailed  int
}

// Harvester drives the scrape cycle: rotate the previous snapshot into
// history, pull every chart, then ingest the new snapshot. Chart failures
// degrade the cycle instead of aborting it; rotation or ingestion failures
// abort it.
type Harvester struct {
	pool      *pgxpool.Pool
	source    Source
	rotator   *Rotator
	ingestor  *Ingestor
	publisher *CyclePublisher // nil when publishing is disabled
	cfg       config.HarvestConfig
}

// NewHarvester wires a cycle driver. publisher may be nil.
func NewHarvester(pool *pgxpool.Pool, source Source, publisher *CyclePublisher, cfg config.HarvestConfig) *Harvester {
	return &Harvester{
		pool:      pool,
		source:    source,
		rotator:   NewRotator(pool),
		ingestor:  NewIngestor(pool, cfg.PopularWindow),
		publisher: publisher,
		cfg:       cfg,
	}
}

// Run executes cycles until ctx is canceled. A zero interval means one
// cycle, then return.
func (h *Harvester) Run(ctx context.Context) error {
	if _, err := h.RunCycle(ctx); err != nil {
		return err
	}

	if h.cfg.Interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(h.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("harvest loop stopping", zap.Error(ctx.Err()))
			return nil
		case <-ticker.C:
			if _, err := h.RunCycle(ctx); err != nil {
				// A failed cycle leaves the previous snapshot intact;
				// the next tick retries from there.
				logger.Log.Error("harvest cycle failed", zap.Error(err))
			}
		}
	}
}

// RunCycle performs exactly one rotate-scrape-ingest pass.
func (h *Harvester) RunCycle(ctx context.Context) (CycleStats, error) {
	stats := CycleStats{RunID: uuid.New()}
	start := time.Now()

	logger.Log.Info("starting harvest cycle", zap.String("runId", stats.RunID.String()))

	rotation, err := h.rotator.Rotate(ctx)
	if err != nil {
		metrics.CyclesTotal.WithLabelValues("rotation_failed").Inc()
		return stats, fmt.Errorf("rotate snapshot: %w", err)
	}
	stats.Rotation = rotation
	metrics.RowsRotated.WithLabelValues("video").Add(float64(rotation.VideosArchived))
	metrics.RowsRotated.WithLabelValues("channel").Add(float64(rotation.ChannelsArchived))

	categories, err := h.loadCategories(ctx)
	if err != nil {
		metrics.CyclesTotal.WithLabelValues("categories_failed").Inc()
		return stats, err
	}

	videos, channelIDs := h.scrapeCharts(ctx, categories, &stats)
	if err := ctx.Err(); err != nil {
		metrics.CyclesTotal.WithLabelValues("canceled").Inc()
		return stats, err
	}

	channels, err := h.source.Channels(ctx, channelIDs)
	if err != nil {
		metrics.CyclesTotal.WithLabelValues("channels_failed").Inc()
		return stats, fmt.Errorf("fetch channels: %w", err)
	}

	// One timestamp for the whole cycle, stamped after all fetches so every
	// row of the snapshot carries the same scraped_at.
	stats.ScrapedAt = time.Now().UTC()

	ingest, err := h.ingestor.Ingest(ctx, stats.ScrapedAt, channels, videos)
	if err != nil {
		metrics.CyclesTotal.WithLabelValues("ingest_failed").Inc()
		return stats, fmt.Errorf("ingest snapshot: %w", err)
	}
	stats.Ingest = ingest
	stats.Duration = time.Since(start)

	metrics.CyclesTotal.WithLabelValues("ok").Inc()
	metrics.CycleDuration.Observe(stats.Duration.Seconds())
	metrics.RowsIngested.WithLabelValues("video").Add(float64(ingest.VideosStored))
	metrics.RowsIngested.WithLabelValues("channel").Add(float64(ingest.ChannelsStored))
	metrics.RecordsDropped.WithLabelValues("video").Add(float64(ingest.VideosDropped))
	metrics.RecordsDropped.WithLabelValues("channel").Add(float64(ingest.ChannelsDropped))

	logger.Log.Info("harvest cycle complete",
		zap.String("runId", stats.RunID.String()),
		zap.Int64("videos_archived", rotation.VideosArchived),
		zap.Int64("channels_archived", rotation.ChannelsArchived),
		zap.Int("videos_stored", ingest.VideosStored),
		zap.Int("channels_stored", ingest.ChannelsStored),
		zap.Int("categories_scraped", stats.CategoriesScraped),
		zap.Int("categories_failed", stats.CategoriesFailed),
		zap.Duration("duration", stats.Duration),
	)

	h.publishCycle(ctx, &stats)

	return stats, nil
}

// loadCategories returns the assignable categories to scrape, refreshing
// them from the API when configured to or when the store is empty.
func (h *Harvester) loadCategories(ctx context.Context) ([]*models.Category, error) {
	repo := repository.NewCategoryRepository(h.pool)

	categories, err := repo.ListAssignable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	if !h.cfg.RefreshCategories && len(categories) > 0 {
		return categories, nil
	}

	records, err := h.source.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}

	for _, record := range records {
		category := &models.Category{
			CategoryID: record.CategoryID,
			Name:       record.Name,
			Assignable: record.Assignable,
		}
		if err := repo.UpsertCategory(ctx, category); err != nil {
			return nil, fmt.Errorf("upsert category %d: %w", record.CategoryID, err)
		}
	}

	logger.Log.Info("refreshed video categories", zap.Int("count", len(records)))

	categories, err = repo.ListAssignable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

// scrapeCharts pulls every per-category chart plus the region-wide popular
// chart and returns the combined records with the union of channel ids. An
// empty chart counts as failed but never stops the cycle.
func (h *Harvester) scrapeCharts(ctx context.Context, categories []*models.Category, stats *CycleStats) ([]*youtube.VideoRecord, []string) {
	var (
		videos     []*youtube.VideoRecord
		channelIDs []string
	)
	seenChannels := make(map[string]struct{})

	collect := func(records []*youtube.VideoRecord, ids []string) {
		videos = append(videos, records...)
		for _, id := range ids {
			if _, ok := seenChannels[id]; ok {
				continue
			}
			seenChannels[id] = struct{}{}
			channelIDs = append(channelIDs, id)
		}
	}

	for _, category := range categories {
		if ctx.Err() != nil {
			return videos, channelIDs
		}

		target := models.CategoryTarget(category.CategoryID)
		records, ids, err := h.source.TrendingVideos(ctx, target)
		if err != nil {
			logger.Log.Warn("category chart fetch failed",
				zap.String("chart", target.String()),
				zap.Error(err),
			)
		}
		if len(records) == 0 {
			metrics.ChartFetchFailures.WithLabelValues(target.String()).Inc()
			stats.CategoriesFailed++
			continue
		}
		stats.CategoriesScraped++
		collect(records, ids)
	}

	target := models.PopularTarget()
	records, ids, err := h.source.TrendingVideos(ctx, target)
	if err != nil {
		logger.Log.Warn("popular chart fetch failed", zap.Error(err))
	}
	if len(records) == 0 {
		metrics.ChartFetchFailures.WithLabelValues(target.String()).Inc()
	}
	collect(records, ids)

	return videos, channelIDs
}

func (h *Harvester) publishCycle(ctx context.Context, stats *CycleStats) {
	if h.publisher == nil {
		return
	}

	event := &CycleEvent{
		RunID:             stats.RunID,
		ScrapedAt:         stats.ScrapedAt,
		VideosArchived:    stats.Rotation.VideosArchived,
		ChannelsArchived:  stats.Rotation.ChannelsArchived,
		VideosStored:      stats.Ingest.VideosStored,
		ChannelsStored:    stats.Ingest.ChannelsStored,
		CategoriesScraped: stats.CategoriesScraped,
		DurationSeconds:   stats.Duration.Seconds(),
	}

	// Publishing is best effort; the snapshot is already committed.
	if err := h.publisher.PublishCycle(ctx, event); err != nil {
		logger.Log.Error("failed to publish cycle event", zap.Error(err))
	}
}
