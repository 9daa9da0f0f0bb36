package models

import "time"

// Channel is one live snapshot row per channel referenced by the current
// cycle's videos. The aggregate fields are recomputed by the ingestion
// writer after all video rows for the cycle are in place.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Channel struct {
	ChannelID   string
	ScrapedAt   time.Time
	Title       string
	Description *string
	PublishedAt time.Time

	// Raw counts from the channel statistics.
	ViewCount       *int64
	SubscriberCount *int64
	VideoCount      *int64

	// Derived aggregates over this channel's current popular videos.
	PopularViewCount *int64
	LikeCount        *int64
	CommentCount     *int64
	AverageViews     *float64
	AverageLikes     *float64
	AverageComments  *float64

	// PopularCount is the distinct videos of this channel seen popular in
	// the trailing window (current snapshot union recent history).
	PopularCount *int64
}
