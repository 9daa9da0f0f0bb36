package models

import "time"

// Video is one live snapshot row: a video observed on a popular chart during
// the current scrape cycle. At most one row exists per
// (video_id, scrape_type, scrape_category) tuple; the row lives until the
// next cycle's rotation archives and deletes it.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Video struct {
	PKID            int64
	VideoID         string
	Title           string
	Description     *string
	PublishedAt     time.Time
	ScrapedAt       time.Time
	ViewCount       *int64
	LikeCount       *int64
	CommentCount    *int64
	DurationSeconds *int64
	Tags            *string
	Target          ScrapeTarget
	Rank            int
	ChannelID       string
	CategoryID      *int64
}

// Identity is the natural key of a snapshot video row.
type Identity struct {
	VideoID    string
	ScrapeType ScrapeType
	// CategoryID is zero for popular scrapes; the type field keeps the
	// tuple unambiguous.
	CategoryID int64
}

// Identity returns the natural key used for dedup and the uniqueness
// constraint.
func (v *Video) Identity() Identity {
	key := Identity{VideoID: v.VideoID, ScrapeType: v.Target.Type()}
	if id := v.Target.CategoryID(); id != nil {
		key.CategoryID = *id
	}
	return key
}
