package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/trendwatch/youtube-trend-harvester/internal/db"
	"github.com/trendwatch/youtube-trend-harvester/internal/db/models"
)

// VideoHistoryRepository manages the append-only video archive.
type VideoHistoryRepository interface {
	// LatestByVideoIDs returns, for each of the given video ids that has
	// history, its single most recent history row.
	LatestByVideoIDs(ctx context.Context, videoIDs []string) (map[string]*models.VideoHistory, error)

	// BulkInsert appends history rows and returns the inserted count.
	BulkInsert(ctx context.Context, rows []*models.VideoHistory) (int64, error)

	// ListByVideoID retrieves a video's archive, most recent first.
	ListByVideoID(ctx context.Context, videoID string, limit int) ([]*models.VideoHistory, error)
}

type videoHistoryRepository struct {
	q Querier
}

// NewVideoHistoryRepository creates a VideoHistoryRepository over the given querier.
func NewVideoHistoryRepository(q Querier) VideoHistoryRepository {
	return &videoHistoryRepository{q: q}
}

var videoHistoryColumns = []string{
	"video_id", "scraped_at", "title", "description", "published_at",
	"view_count", "like_count", "comment_count", "duration_seconds", "tags",
	"chart_rank", "scrape_type", "scrape_category", "channel_id", "category_id",
	"days_since_scrape",
	"view_count_delta", "like_count_delta", "comment_count_delta",
	"view_growth_per_day", "like_growth_per_day", "comment_growth_per_day",
}

const videoHistorySelect = `
	SELECT id, video_id, scraped_at, title, description, published_at,
		view_count, like_count, comment_count, duration_seconds, tags,
		chart_rank, scrape_type, scrape_category, channel_id, category_id,
		days_since_scrape,
		view_count_delta, like_count_delta, comment_count_delta,
		view_growth_per_day, like_growth_per_day, comment_growth_per_day
	FROM video_history
`

func (r *videoHistoryRepository) LatestByVideoIDs(ctx context.Context, videoIDs []string) (map[string]*models.VideoHistory, error) {
	if len(videoIDs) == 0 {
		return map[string]*models.VideoHistory{}, nil
	}

	query := videoHistorySelect + `
		WHERE id IN (
			SELECT DISTINCT ON (video_id) id
			FROM video_history
			WHERE video_id = ANY($1)
			ORDER BY video_id, scraped_at DESC, id DESC
		)
	`

	rows, err := r.q.Query(ctx, query, videoIDs)
	if err != nil {
		return nil, db.WrapError(err, "latest video history by ids")
	}
	defer rows.Close()

	histories, err := scanVideoHistories(rows)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]*models.VideoHistory, len(histories))
	for _, h := range histories {
		latest[h.VideoID] = h
	}
	return latest, nil
}

func (r *videoHistoryRepository) BulkInsert(ctx context.Context, rows []*models.VideoHistory) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	source := pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
		h := rows[i]
		return []any{
			h.VideoID, h.ScrapedAt, h.Title, h.Description, h.PublishedAt,
			h.ViewCount, h.LikeCount, h.CommentCount, h.DurationSeconds, h.Tags,
			h.Rank, h.Target.Type(), h.Target.CategoryID(), h.ChannelID, h.CategoryID,
			h.DaysSinceScrape,
			h.ViewCountDelta, h.LikeCountDelta, h.CommentCountDelta,
			h.ViewGrowthPerDay, h.LikeGrowthPerDay, h.CommentGrowthPerDay,
		}, nil
	})

	inserted, err := r.q.CopyFrom(ctx, pgx.Identifier{"video_history"}, videoHistoryColumns, source)
	if err != nil {
		return 0, db.WrapError(err, "bulk insert video history")
	}

	return inserted, nil
}

func (r *videoHistoryRepository) ListByVideoID(ctx context.Context, videoID string, limit int) ([]*models.VideoHistory, error) {
	query := videoHistorySelect + `
		WHERE video_id = $1
		ORDER BY scraped_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, videoID, limit)
	if err != nil {
		return nil, db.WrapError(err, "list video history")
	}
	defer rows.Close()

	return scanVideoHistories(rows)
}

func scanVideoHistories(rows pgx.Rows) ([]*models.VideoHistory, error) {
	var histories []*models.VideoHistory

	for rows.Next() {
		var (
			h          models.VideoHistory
			scrapeType models.ScrapeType
			categoryID *int64
		)
		err := rows.Scan(
			&h.ID, &h.VideoID, &h.ScrapedAt, &h.Title, &h.Description, &h.PublishedAt,
			&h.ViewCount, &h.LikeCount, &h.CommentCount, &h.DurationSeconds, &h.Tags,
			&h.Rank, &scrapeType, &categoryID, &h.ChannelID, &h.CategoryID,
			&h.DaysSinceScrape,
			&h.ViewCountDelta, &h.LikeCountDelta, &h.CommentCountDelta,
			&h.ViewGrowthPerDay, &h.LikeGrowthPerDay, &h.CommentGrowthPerDay,
		)
		if err != nil {
			return nil, fmt.Errorf("scan video history: %w", err)
		}

		h.Target, err = models.TargetFromColumns(scrapeType, categoryID)
		if err != nil {
			return nil, fmt.Errorf("scan video history %s: %w", h.VideoID, err)
		}

		histories = append(histories, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video history: %w", err)
	}

	return histories, nil
}
