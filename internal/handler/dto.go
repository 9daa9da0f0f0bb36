package handler

import (
	"time"

	"github.com/trendwatch/youtube-trend-harvester/internal/db/models"
)

// VideoResponse is the JSON shape of one live snapshot row.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type VideoResponse struct {
	VideoID         string    `json:"video_id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description,omitempty"`
	PublishedAt     time.Time `json:"published_at"`
	ScrapedAt       time.Time `json:"scraped_at"`
	ViewCount       *int64    `json:"view_count"`
	LikeCount       *int64    `json:"like_count"`
	CommentCount    *int64    `json:"comment_count"`
	DurationSeconds *int64    `json:"duration_seconds"`
	Tags            *string   `json:"tags,omitempty"`
	ScrapeType      string    `json:"scrape_type"`
	ScrapeCategory  *int64    `json:"scrape_category,omitempty"`
	Rank            int       `json:"rank"`
	ChannelID       string    `json:"channel_id"`
	CategoryID      *int64    `json:"category_id,omitempty"`
}

func videoResponse(v *models.Video) VideoResponse {
	return VideoResponse{
		VideoID:         v.VideoID,
		Title:           v.Title,
		Description:     v.Description,
		PublishedAt:     v.PublishedAt,
		ScrapedAt:       v.ScrapedAt,
		ViewCount:       v.ViewCount,
		LikeCount:       v.LikeCount,
		CommentCount:    v.CommentCount,
		DurationSeconds: v.DurationSeconds,
		Tags:            v.Tags,
		ScrapeType:      string(v.Target.Type()),
		ScrapeCategory:  v.Target.CategoryID(),
		Rank:            v.Rank,
		ChannelID:       v.ChannelID,
		CategoryID:      v.CategoryID,
	}
}

func videoResponses(videos []*models.Video) []VideoResponse {
	out := make([]VideoResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, videoResponse(v))
	}
	return out
}

// VideoHistoryResponse is one archived observation with its deltas.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type VideoHistoryResponse struct {
	VideoResponse

	DaysSinceScrape     *float64 `json:"days_since_scrape"`
	ViewCountDelta      *int64   `json:"view_count_delta"`
	LikeCountDelta      *int64   `json:"like_count_delta"`
	CommentCountDelta   *int64   `json:"comment_count_delta"`
	ViewGrowthPerDay    *float64 `json:"view_growth_per_day"`
	LikeGrowthPerDay    *float64 `json:"like_growth_per_day"`
	CommentGrowthPerDay *float64 `json:"comment_growth_per_day"`
}

func videoHistoryResponses(rows []*models.VideoHistory) []VideoHistoryResponse {
	out := make([]VideoHistoryResponse, 0, len(rows))
	for _, h := range rows {
		out = append(out, VideoHistoryResponse{
			VideoResponse: VideoResponse{
				VideoID:         h.VideoID,
				Title:           h.Title,
				Description:     h.Description,
				PublishedAt:     h.PublishedAt,
				ScrapedAt:       h.ScrapedAt,
				ViewCount:       h.ViewCount,
				LikeCount:       h.LikeCount,
				CommentCount:    h.CommentCount,
				DurationSeconds: h.DurationSeconds,
				Tags:            h.Tags,
				ScrapeType:      string(h.Target.Type()),
				ScrapeCategory:  h.Target.CategoryID(),
				Rank:            h.Rank,
				ChannelID:       h.ChannelID,
				CategoryID:      h.CategoryID,
			},
			DaysSinceScrape:     h.DaysSinceScrape,
			ViewCountDelta:      h.ViewCountDelta,
			LikeCountDelta:      h.LikeCountDelta,
			CommentCountDelta:   h.CommentCountDelta,
			ViewGrowthPerDay:    h.ViewGrowthPerDay,
			LikeGrowthPerDay:    h.LikeGrowthPerDay,
			CommentGrowthPerDay: h.CommentGrowthPerDay,
		})
	}
	return out
}

// ChannelResponse is the JSON shape of one channel snapshot row.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ChannelResponse struct {
	ChannelID   string    `json:"channel_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	ScrapedAt   time.Time `json:"scraped_at"`

	ViewCount       *int64 `json:"view_count"`
	SubscriberCount *int64 `json:"subscriber_count"`
	VideoCount      *int64 `json:"video_count"`

	PopularViewCount *int64   `json:"popular_view_count"`
	LikeCount        *int64   `json:"like_count"`
	CommentCount     *int64   `json:"comment_count"`
	AverageViews     *float64 `json:"average_views"`
	AverageLikes     *float64 `json:"average_likes"`
	AverageComments  *float64 `json:"average_comments"`
	PopularCount     *int64   `json:"popular_count"`
}

func channelResponse(ch *models.Channel) ChannelResponse {
	return ChannelResponse{
		ChannelID:        ch.ChannelID,
		Title:            ch.Title,
		Description:      ch.Description,
		PublishedAt:      ch.PublishedAt,
		ScrapedAt:        ch.ScrapedAt,
		ViewCount:        ch.ViewCount,
		SubscriberCount:  ch.SubscriberCount,
		VideoCount:       ch.VideoCount,
		PopularViewCount: ch.PopularViewCount,
		LikeCount:        ch.LikeCount,
		CommentCount:     ch.CommentCount,
		AverageViews:     ch.AverageViews,
		AverageLikes:     ch.AverageLikes,
		AverageComments:  ch.AverageComments,
		PopularCount:     ch.PopularCount,
	}
}

func channelResponses(channels []*models.Channel) []ChannelResponse {
	out := make([]ChannelResponse, 0, len(channels))
	for _, ch := range channels {
		out = append(out, channelResponse(ch))
	}
	return out
}

// ChannelHistoryResponse is one archived channel observation with its
// deltas and growth rates.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ChannelHistoryResponse struct {
	ChannelResponse

	DaysSinceScrape *float64 `json:"days_since_scrape"`

	ViewCountDelta        *int64   `json:"view_count_delta"`
	PopularViewCountDelta *int64   `json:"popular_view_count_delta"`
	LikeCountDelta        *int64   `json:"like_count_delta"`
	CommentCountDelta     *int64   `json:"comment_count_delta"`
	SubscriberCountDelta  *int64   `json:"subscriber_count_delta"`
	VideoCountDelta       *int64   `json:"video_count_delta"`
	PopularCountDelta     *int64   `json:"popular_count_delta"`
	AverageViewsDelta     *float64 `json:"average_views_delta"`
	AverageLikesDelta     *float64 `json:"average_likes_delta"`
	AverageCommentsDelta  *float64 `json:"average_comments_delta"`

	ViewGrowthPerDay           *float64 `json:"view_growth_per_day"`
	PopularViewGrowthPerDay    *float64 `json:"popular_view_growth_per_day"`
	LikeGrowthPerDay           *float64 `json:"like_growth_per_day"`
	CommentGrowthPerDay        *float64 `json:"comment_growth_per_day"`
	SubscriberGrowthPerDay     *float64 `json:"subscriber_growth_per_day"`
	VideoGrowthPerDay          *float64 `json:"video_growth_per_day"`
	PopularCountGrowthPerDay   *float64 `json:"popular_count_growth_per_day"`
	AverageViewGrowthPerDay    *float64 `json:"average_view_growth_per_day"`
	AverageLikeGrowthPerDay    *float64 `json:"average_like_growth_per_day"`
	AverageCommentGrowthPerDay *float64 `json:"average_comment_growth_per_day"`
}

func channelHistoryResponses(rows []*models.ChannelHistory) []ChannelHistoryResponse {
	out := make([]ChannelHistoryResponse, 0, len(rows))
	for _, h := range rows {
		out = append(out, ChannelHistoryResponse{
			ChannelResponse: ChannelResponse{
				ChannelID:        h.ChannelID,
				Title:            h.Title,
				Description:      h.Description,
				PublishedAt:      h.PublishedAt,
				ScrapedAt:        h.ScrapedAt,
				ViewCount:        h.ViewCount,
				SubscriberCount:  h.SubscriberCount,
				VideoCount:       h.VideoCount,
				PopularViewCount: h.PopularViewCount,
				LikeCount:        h.LikeCount,
				CommentCount:     h.CommentCount,
				AverageViews:     h.AverageViews,
				AverageLikes:     h.AverageLikes,
				AverageComments:  h.AverageComments,
				PopularCount:     h.PopularCount,
			},
			DaysSinceScrape:            h.DaysSinceScrape,
			ViewCountDelta:             h.ViewCountDelta,
			PopularViewCountDelta:      h.PopularViewCountDelta,
			LikeCountDelta:             h.LikeCountDelta,
			CommentCountDelta:          h.CommentCountDelta,
			SubscriberCountDelta:       h.SubscriberCountDelta,
			VideoCountDelta:            h.VideoCountDelta,
			PopularCountDelta:          h.PopularCountDelta,
			AverageViewsDelta:          h.AverageViewsDelta,
			AverageLikesDelta:          h.AverageLikesDelta,
			AverageCommentsDelta:       h.AverageCommentsDelta,
			ViewGrowthPerDay:           h.ViewGrowthPerDay,
			PopularViewGrowthPerDay:    h.PopularViewGrowthPerDay,
			LikeGrowthPerDay:           h.LikeGrowthPerDay,
			CommentGrowthPerDay:        h.CommentGrowthPerDay,
			SubscriberGrowthPerDay:     h.SubscriberGrowthPerDay,
			VideoGrowthPerDay:          h.VideoGrowthPerDay,
			PopularCountGrowthPerDay:   h.PopularCountGrowthPerDay,
			AverageViewGrowthPerDay:    h.AverageViewGrowthPerDay,
			AverageLikeGrowthPerDay:    h.AverageLikeGrowthPerDay,
			AverageCommentGrowthPerDay: h.AverageCommentGrowthPerDay,
		})
	}
	return out
}

// CategoryResponse is one video category.
type CategoryResponse struct {
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
	Assignable bool   `json:"assignable"`
}

func categoryResponses(categories []*models.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		out = append(out, CategoryResponse{
			CategoryID: cat.CategoryID,
			Name:       cat.Name,
			Assignable: cat.Assignable,
		})
	}
	return out
}
