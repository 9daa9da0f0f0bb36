package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/trendwatch/youtube-trend-harvester/internal/db"
	"github.com/trendwatch/youtube-trend-harvester/internal/db/models"
)

// ChannelHistoryRepository manages the append-only channel archive.
type ChannelHistoryRepository interface {
	// LatestByChannelIDs returns, for each of the given channel ids that
	// has history, its single most recent history row.
	LatestByChannelIDs(ctx context.Context, channelIDs []string) (map[string]*models.ChannelHistory, error)

	// BulkInsert appends history rows and returns the inserted count.
	BulkInsert(ctx context.Context, rows []*models.ChannelHistory) (int64, error)

	// ListByChannelID retrieves a channel's archive, most recent first.
	ListByChannelID(ctx context.Context, channelID string, limit int) ([]*models.ChannelHistory, error)
}

type channelHistoryRepository struct {
	q Querier
}

// NewChannelHistoryRepository creates a ChannelHistoryRepository over the given querier.
func NewChannelHistoryRepository(q Querier) ChannelHistoryRepository {
	return &channelHistoryRepository{q: q}
}

var channelHistoryColumns = []string{
	"channel_id", "scraped_at", "title", "description", "published_at",
	"view_count", "popular_view_count", "like_count", "comment_count",
	"subscriber_count", "video_count", "popular_count",
	"average_views", "average_likes", "average_comments",
	"days_since_scrape",
	"view_count_delta", "popular_view_count_delta", "like_count_delta",
	"comment_count_delta", "subscriber_count_delta", "video_count_delta",
	"popular_count_delta", "average_views_delta", "average_likes_delta",
	"average_comments_delta",
	"view_growth_per_day", "popular_view_growth_per_day", "like_growth_per_day",
	"comment_growth_per_day", "subscriber_growth_per_day", "video_growth_per_day",
	"popular_count_growth_per_day", "average_view_growth_per_day",
	"average_like_growth_per_day", "average_comment_growth_per_day",
}

const channelHistorySelect = `
	SELECT id, channel_id, scraped_at, title, description, published_at,
		view_count, popular_view_count, like_count, comment_count,
		subscriber_count, video_count, popular_count,
		average_views, average_likes, average_comments,
		days_since_scrape,
		view_count_delta, popular_view_count_delta, like_count_delta,
		comment_count_delta, subscriber_count_delta, video_count_delta,
		popular_count_delta, average_views_delta, average_likes_delta,
		average_comments_delta,
		view_growth_per_day, popular_view_growth_per_day, like_growth_per_day,
		comment_growth_per_day, subscriber_growth_per_day, video_growth_per_day,
		popular_count_growth_per_day, average_view_growth_per_day,
		average_like_growth_per_day, average_comment_growth_per_day
	FROM channel_history
`

func (r *channelHistoryRepository) LatestByChannelIDs(ctx context.Context, channelIDs []string) (map[string]*models.ChannelHistory, error) {
	if len(channelIDs) == 0 {
		return map[string]*models.ChannelHistory{}, nil
	}

	query := channelHistorySelect + `
		WHERE id IN (
			SELECT DISTINCT ON (channel_id) id
			FROM channel_history
			WHERE channel_id = ANY($1)
			ORDER BY channel_id, scraped_at DESC, id DESC
		)
	`

	rows, err := r.q.Query(ctx, query, channelIDs)
	if err != nil {
		return nil, db.WrapError(err, "latest channel history by ids")
	}
	defer rows.Close()

	histories, err := scanChannelHistories(rows)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]*models.ChannelHistory, len(histories))
	for _, h := range histories {
		latest[h.ChannelID] = h
	}
	return latest, nil
}

func (r *channelHistoryRepository) BulkInsert(ctx context.Context, rows []*models.ChannelHistory) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	source := pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
		h := rows[i]
		return []any{
			h.ChannelID, h.ScrapedAt, h.Title, h.Description, h.PublishedAt,
			h.ViewCount, h.PopularViewCount, h.LikeCount, h.CommentCount,
			h.SubscriberCount, h.VideoCount, h.PopularCount,
			h.AverageViews, h.AverageLikes, h.AverageComments,
			h.DaysSinceScrape,
			h.ViewCountDelta, h.PopularViewCountDelta, h.LikeCountDelta,
			h.CommentCountDelta, h.SubscriberCountDelta, h.VideoCountDelta,
			h.PopularCountDelta, h.AverageViewsDelta, h.AverageLikesDelta,
			h.AverageCommentsDelta,
			h.ViewGrowthPerDay, h.PopularViewGrowthPerDay, h.LikeGrowthPerDay,
			h.CommentGrowthPerDay, h.SubscriberGrowthPerDay, h.VideoGrowthPerDay,
			h.PopularCountGrowthPerDay, h.AverageViewGrowthPerDay,
			h.AverageLikeGrowthPerDay, h.AverageCommentGrowthPerDay,
		}, nil
	})

	inserted, err := r.q.CopyFrom(ctx, pgx.Identifier{"channel_history"}, channelHistoryColumns, source)
	if err != nil {
		return 0, db.WrapError(err, "bulk insert channel history")
	}

	return inserted, nil
}

func (r *channelHistoryRepository) ListByChannelID(ctx context.Context, channelID string, limit int) ([]*models.ChannelHistory, error) {
	query := channelHistorySelect + `
		WHERE channel_id = $1
		ORDER BY scraped_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, channelID, limit)
	if err != nil {
		return nil, db.WrapError(err, "list channel history")
	}
	defer rows.Close()

	return scanChannelHistories(rows)
}

func scanChannelHistories(rows pgx.Rows) ([]*models.ChannelHistory, error) {
	var histories []*models.ChannelHistory

	for rows.Next() {
		var h models.ChannelHistory
		err := rows.Scan(
			&h.ID, &h.ChannelID, &h.ScrapedAt, &h.Title, &h.Description, &h.PublishedAt,
			&h.ViewCount, &h.PopularViewCount, &h.LikeCount, &h.CommentCount,
			&h.SubscriberCount, &h.VideoCount, &h.PopularCount,
			&h.AverageViews, &h.AverageLikes, &h.AverageComments,
			&h.DaysSinceScrape,
			&h.ViewCountDelta, &h.PopularViewCountDelta, &h.LikeCountDelta,
			&h.CommentCountDelta, &h.SubscriberCountDelta, &h.VideoCountDelta,
			&h.PopularCountDelta, &h.AverageViewsDelta, &h.AverageLikesDelta,
			&h.AverageCommentsDelta,
			&h.ViewGrowthPerDay, &h.PopularViewGrowthPerDay, &h.LikeGrowthPerDay,
			&h.CommentGrowthPerDay, &h.SubscriberGrowthPerDay, &h.VideoGrowthPerDay,
			&h.PopularCountGrowthPerDay, &h.AverageViewGrowthPerDay,
			&h.AverageLikeGrowthPerDay, &h.AverageCommentGrowthPerDay,
		)
		if err != nil {
			return nil, fmt.Errorf("scan channel history: %w", err)
		}

		histories = append(histories, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channel history: %w", err)
	}

	return histories, nil
}
