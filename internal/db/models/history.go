package models

import "time"

// VideoHistory is one archived video observation. Rows are append-only:
// rotation inserts them, nothing updates or deletes them. Delta and growth
// fields are nil whenever a true prior value is unavailable; zero is a real
// delta and is never used as a stand-in.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type VideoHistory struct {
	ID              int64
	VideoID         string
	ScrapedAt       time.Time
	Title           string
	Description     *string
	PublishedAt     time.Time
	ViewCount       *int64
	LikeCount       *int64
	CommentCount    *int64
	DurationSeconds *int64
	Tags            *string
	Rank            int
	Target          ScrapeTarget
	ChannelID       string
	CategoryID      *int64

	// DaysSinceScrape is the fractional elapsed days between this
	// observation and the previous one for the same video id, nil when
	// this is the first observation.
	DaysSinceScrape *float64

	ViewCountDelta    *int64
	LikeCountDelta    *int64
	CommentCountDelta *int64

	ViewGrowthPerDay    *float64
	LikeGrowthPerDay    *float64
	CommentGrowthPerDay *float64
}

// ChannelHistory is one archived channel observation, append-only like
// VideoHistory, with deltas and growth rates for every numeric attribute
// including the derived averages.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ChannelHistory struct {
	ID          int64
	ChannelID   string
	ScrapedAt   time.Time
	Title       string
	Description *string
	PublishedAt time.Time

	ViewCount        *int64
	PopularViewCount *int64
	LikeCount        *int64
	CommentCount     *int64
	SubscriberCount  *int64
	VideoCount       *int64
	PopularCount     *int64
	AverageViews     *float64
	AverageLikes     *float64
	AverageComments  *float64

	DaysSinceScrape *float64

	ViewCountDelta        *int64
	PopularViewCountDelta *int64
	LikeCountDelta        *int64
	CommentCountDelta     *int64
	SubscriberCountDelta  *int64
	VideoCountDelta       *int64
	PopularCountDelta     *int64
	AverageViewsDelta     *float64
	AverageLikesDelta     *float64
	AverageCommentsDelta  *float64

	ViewGrowthPerDay           *float64
	PopularViewGrowthPerDay    *float64
	LikeGrowthPerDay           *float64
	CommentGrowthPerDay        *float64
	SubscriberGrowthPerDay     *float64
	VideoGrowthPerDay          *float64
	PopularCountGrowthPerDay   *float64
	AverageViewGrowthPerDay    *float64
	AverageLikeGrowthPerDay    *float64
	AverageCommentGrowthPerDay *float64
}
