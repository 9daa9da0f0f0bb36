package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/trendwatch/youtube-trend-harvester/internal/db"
	"github.com/trendwatch/youtube-trend-harvester/internal/db/models"
)

// ChannelRepository manages the live channel snapshot store.
type ChannelRepository interface {
	// InsertChannel inserts a snapshot row for a channel.
	InsertChannel(ctx context.Context, channel *models.Channel) error

	// GetChannelByID retrieves a single channel snapshot row.
	GetChannelByID(ctx context.Context, channelID string) (*models.Channel, error)

	// ListCurrent loads the whole live channel snapshot.
	ListCurrent(ctx context.Context) ([]*models.Channel, error)

	// ListChannels retrieves channel rows with pagination.
	ListChannels(ctx context.Context, limit, offset int) ([]*models.Channel, error)

	// DeleteAll clears the snapshot store and returns the row count.
	DeleteAll(ctx context.Context) (int64, error)

	// RecomputeAggregates rewrites the derived aggregate columns of every
	// channel that has current video rows: sums and averages over that
	// channel's videos (deduplicated by video id, since one video can be
	// snapshotted under several scrape targets) and the distinct popular
	// video count over the current snapshot union history rows scraped
	// after the cutoff. Returns the number of channels updated.
	RecomputeAggregates(ctx context.Context, historyCutoff time.Time) (int64, error)
}

type channelRepository struct {
	q Querier
}

// NewChannelRepository creates a ChannelRepository over the given querier.
func NewChannelRepository(q Querier) ChannelRepository {
	return &channelRepository{q: q}
}

const channelColumns = `channel_id, scraped_at, title, description, published_at,
	view_count, subscriber_count, video_count,
	popular_view_count, like_count, comment_count,
	average_views, average_likes, average_comments, popular_count`

func (r *channelRepository) InsertChannel(ctx context.Context, channel *models.Channel) error {
	query := `
		INSERT INTO channels (` + channelColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.q.Exec(ctx, query,
		channel.ChannelID,
		channel.ScrapedAt,
		channel.Title,
		channel.Description,
		channel.PublishedAt,
		channel.ViewCount,
		channel.SubscriberCount,
		channel.VideoCount,
		channel.PopularViewCount,
		channel.LikeCount,
		channel.CommentCount,
		channel.AverageViews,
		channel.AverageLikes,
		channel.AverageComments,
		channel.PopularCount,
	)

	if err != nil {
		return db.WrapError(err, "insert channel")
	}

	return nil
}

func (r *channelRepository) GetChannelByID(ctx context.Context, channelID string) (*models.Channel, error) {
	query := `
		SELECT ` + channelColumns + `
		FROM channels
		WHERE channel_id = $1
	`

	channel := &models.Channel{}
	err := scanChannel(r.q.QueryRow(ctx, query, channelID), channel)
	if err != nil {
		return nil, db.WrapError(err, "get channel by id")
	}

	return channel, nil
}

func (r *channelRepository) ListCurrent(ctx context.Context) ([]*models.Channel, error) {
	query := `
		SELECT ` + channelColumns + `
		FROM channels
		ORDER BY channel_id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, db.WrapError(err, "list current channels")
	}
	defer rows.Close()

	return scanChannels(rows)
}

func (r *channelRepository) ListChannels(ctx context.Context, limit, offset int) ([]*models.Channel, error) {
	query := `
		SELECT ` + channelColumns + `
		FROM channels
		ORDER BY subscriber_count DESC NULLS LAST, channel_id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, db.WrapError(err, "list channels")
	}
	defer rows.Close()

	return scanChannels(rows)
}

func (r *channelRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM channels`)
	if err != nil {
		return 0, db.WrapError(err, "delete all channels")
	}
	return tag.RowsAffected(), nil
}

func (r *channelRepository) RecomputeAggregates(ctx context.Context, historyCutoff time.Time) (int64, error) {
	// One video can appear under several scrape targets in the same cycle
	// with identical metrics; DISTINCT ON keeps one row per
	// (channel_id, video_id) so sums and averages count each video once.
	query := `
		WITH unique_videos AS (
			SELECT DISTINCT ON (channel_id, video_id)
				channel_id, video_id, view_count, like_count, comment_count
			FROM video_data
			ORDER BY channel_id, video_id, pk_id
		),
		video_aggregates AS (
			SELECT channel_id,
				SUM(view_count)    AS popular_view_count,
				SUM(like_count)    AS like_count,
				SUM(comment_count) AS comment_count,
				AVG(view_count)    AS average_views,
				AVG(like_count)    AS average_likes,
				AVG(comment_count) AS average_comments
			FROM unique_videos
			GROUP BY channel_id
		),
		popular_counts AS (
			SELECT channel_id, COUNT(DISTINCT video_id) AS popular_count
			FROM (
				SELECT channel_id, video_id FROM video_data
				UNION ALL
				SELECT channel_id, video_id FROM video_history WHERE scraped_at >= $1
			) recent
			GROUP BY channel_id
		)
		UPDATE channels c
		SET popular_view_count = a.popular_view_count,
		    like_count         = a.like_count,
		    comment_count      = a.comment_count,
		    average_views      = a.average_views,
		    average_likes      = a.average_likes,
		    average_comments   = a.average_comments,
		    popular_count      = p.popular_count
		FROM video_aggregates a
		LEFT JOIN popular_counts p ON p.channel_id = a.channel_id
		WHERE c.channel_id = a.channel_id
	`

	tag, err := r.q.Exec(ctx, query, historyCutoff)
	if err != nil {
		return 0, db.WrapError(err, "recompute channel aggregates")
	}

	return tag.RowsAffected(), nil
}

func scanChannel(row pgx.Row, channel *models.Channel) error {
	return row.Scan(
		&channel.ChannelID,
		&channel.ScrapedAt,
		&channel.Title,
		&channel.Description,
		&channel.PublishedAt,
		&channel.ViewCount,
		&channel.SubscriberCount,
		&channel.VideoCount,
		&channel.PopularViewCount,
		&channel.LikeCount,
		&channel.CommentCount,
		&channel.AverageViews,
		&channel.AverageLikes,
		&channel.AverageComments,
		&channel.PopularCount,
	)
}

func scanChannels(rows pgx.Rows) ([]*models.Channel, error) {
	var channels []*models.Channel

	for rows.Next() {
		channel := &models.Channel{}
		if err := scanChannel(rows, channel); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		channels = append(channels, channel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channels: %w", err)
	}

	return channels, nil
}
