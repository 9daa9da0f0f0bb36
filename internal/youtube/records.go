// Package youtube wraps the YouTube Data API v3 and normalizes its
// responses into flat records for the ingestion writer.
package youtube

import (
	"time"

	"github.com/trendwatch/youtube-trend-harvester/internal/db/models"
)

// VideoRecord is one normalized trending-chart entry.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type VideoRecord struct {
	VideoID     string
	Title       string
	Description *string
	PublishedAt time.Time
	ChannelID   string
	CategoryID  *int64

	ViewCount    *int64
	LikeCount    *int64
	CommentCount *int64

	// Duration is the raw ISO-8601 duration string, e.g. "PT4M13S".
	// Parsing is the ingestion writer's concern.
	Duration string

	// Tags is the joined tag list, capped at 500 characters.
	Tags *string

	// Rank is the 1-based chart position at scrape time.
	Rank int

	// Target records which chart this entry came from.
	Target models.ScrapeTarget
}

// ChannelRecord is one normalized channel lookup result.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ChannelRecord struct {
	ChannelID   string
	Title       string
	Description *string
	PublishedAt time.Time

	ViewCount       *int64
	SubscriberCount *int64
	VideoCount      *int64
}

// CategoryRecord is one normalized video category.
type CategoryRecord struct {
	CategoryID int64
	Name       string
	Assignable bool
}
