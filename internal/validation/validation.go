// Package validation checks harvested records before they reach the
// snapshot stores.
package validation

import (
	"fmt"
	"regexp"

	"github.com/trendwatch/youtube-trend-harvester/internal/youtube"
)

var (
	videoIDRegex   = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	channelIDRegex = regexp.MustCompile(`^UC[a-zA-Z0-9_-]{22}$`)
)

// ValidateVideoRecord rejects video records whose identifiers do not look
// like YouTube ids or that lack the fields every snapshot row needs.
func ValidateVideoRecord(record *youtube.VideoRecord) error {
	if !videoIDRegex.MatchString(record.VideoID) {
		return fmt.Errorf("invalid video ID format: %s", record.VideoID)
	}

	if !channelIDRegex.MatchString(record.ChannelID) {
		return fmt.Errorf("invalid channel ID format: %s", record.ChannelID)
	}

	if record.Title == "" {
		return fmt.Errorf("video %s has no title", record.VideoID)
	}

	if record.PublishedAt.IsZero() {
		return fmt.Errorf("video %s has no publish time", record.VideoID)
	}

	if record.Rank < 1 {
		return fmt.Errorf("video %s has invalid chart rank %d", record.VideoID, record.Rank)
	}

	return nil
}

// ValidateChannelRecord rejects channel records with malformed ids or
// missing required fields.
func ValidateChannelRecord(record *youtube.ChannelRecord) error {
	if !channelIDRegex.MatchString(record.ChannelID) {
		return fmt.Errorf("invalid channel ID format: %s", record.ChannelID)
	}

	if record.Title == "" {
		return fmt.Errorf("channel %s has no title", record.ChannelID)
	}

	return nil
}

// IsValidVideoID reports whether the id matches the YouTube video id shape.
func IsValidVideoID(videoID string) bool {
	return videoIDRegex.MatchString(videoID)
}

// IsValidChannelID reports whether the id matches the YouTube channel id shape.
func IsValidChannelID(channelID string) bool {
	return channelIDRegex.MatchString(channelID)
}
