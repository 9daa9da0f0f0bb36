package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/trendwatch/youtube-trend-harvester/internal/db"
	"github.com/trendwatch/youtube-trend-harvester/internal/db/models"
)

// VideoRepository manages the live video snapshot store.
type VideoRepository interface {
	// InsertVideo inserts a snapshot row. The store's uniqueness
	// constraint rejects a second live row for the same scrape identity.
	InsertVideo(ctx context.Context, video *models.Video) error

	// ListCurrent loads the whole live snapshot.
	ListCurrent(ctx context.Context) ([]*models.Video, error)

	// ListVideos retrieves snapshot rows ordered by rank, with pagination.
	ListVideos(ctx context.Context, limit, offset int) ([]*models.Video, error)

	// GetVideosByChannelID retrieves current snapshot rows for a channel.
	GetVideosByChannelID(ctx context.Context, channelID string, limit int) ([]*models.Video, error)

	// DeleteAll clears the snapshot store and returns the row count.
	DeleteAll(ctx context.Context) (int64, error)
}

type videoRepository struct {
	q Querier
}

// NewVideoRepository creates a VideoRepository over the given querier.
func NewVideoRepository(q Querier) VideoRepository {
	return &videoRepository{q: q}
}

const videoColumns = `video_id, title, description, published_at, scraped_at,
	view_count, like_count, comment_count, duration_seconds, tags,
	scrape_type, scrape_category, chart_rank, channel_id, category_id`

func (r *videoRepository) InsertVideo(ctx context.Context, video *models.Video) error {
	query := `
		INSERT INTO video_data (` + videoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING pk_id
	`

	err := r.q.QueryRow(ctx, query,
		video.VideoID,
		video.Title,
		video.Description,
		video.PublishedAt,
		video.ScrapedAt,
		video.ViewCount,
		video.LikeCount,
		video.CommentCount,
		video.DurationSeconds,
		video.Tags,
		video.Target.Type(),
		video.Target.CategoryID(),
		video.Rank,
		video.ChannelID,
		video.CategoryID,
	).Scan(&video.PKID)

	if err != nil {
		return db.WrapError(err, "insert video")
	}

	return nil
}

func (r *videoRepository) ListCurrent(ctx context.Context) ([]*models.Video, error) {
	query := `
		SELECT pk_id, ` + videoColumns + `
		FROM video_data
		ORDER BY pk_id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, db.WrapError(err, "list current videos")
	}
	defer rows.Close()

	return scanVideos(rows)
}

func (r *videoRepository) ListVideos(ctx context.Context, limit, offset int) ([]*models.Video, error) {
	query := `
		SELECT pk_id, ` + videoColumns + `
		FROM video_data
		ORDER BY chart_rank, pk_id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, db.WrapError(err, "list videos")
	}
	defer rows.Close()

	return scanVideos(rows)
}

func (r *videoRepository) GetVideosByChannelID(ctx context.Context, channelID string, limit int) ([]*models.Video, error) {
	query := `
		SELECT pk_id, ` + videoColumns + `
		FROM video_data
		WHERE channel_id = $1
		ORDER BY chart_rank, pk_id
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, channelID, limit)
	if err != nil {
		return nil, db.WrapError(err, "get videos by channel id")
	}
	defer rows.Close()

	return scanVideos(rows)
}

func (r *videoRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM video_data`)
	if err != nil {
		return 0, db.WrapError(err, "delete all videos")
	}
	return tag.RowsAffected(), nil
}

func scanVideos(rows pgx.Rows) ([]*models.Video, error) {
	var videos []*models.Video

	for rows.Next() {
		var (
			video      models.Video
			scrapeType models.ScrapeType
			categoryID *int64
		)
		err := rows.Scan(
			&video.PKID,
			&video.VideoID,
			&video.Title,
			&video.Description,
			&video.PublishedAt,
			&video.ScrapedAt,
			&video.ViewCount,
			&video.LikeCount,
			&video.CommentCount,
			&video.DurationSeconds,
			&video.Tags,
			&scrapeType,
			&categoryID,
			&video.Rank,
			&video.ChannelID,
			&video.CategoryID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}

		video.Target, err = models.TargetFromColumns(scrapeType, categoryID)
		if err != nil {
			return nil, fmt.Errorf("scan video %s: %w", video.VideoID, err)
		}

		videos = append(videos, &video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}

	return videos, nil
}
