package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trendwatch/youtube-trend-harvester/internal/db/models"
	"github.com/trendwatch/youtube-trend-harvester/internal/youtube"
)

func validVideoRecord() *youtube.VideoRecord {
	return &youtube.VideoRecord{
		VideoID:     "dQw4w9WgXcQ",
		Title:       "A Video",
		PublishedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		ChannelID:   "UCuAXFkgsw1L7xaCfnd5JJOw",
		Rank:        1,
		Target:      models.PopularTarget(),
	}
}

func TestValidateVideoRecord(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*youtube.VideoRecord)
		wantErr bool
	}{
		{"valid record", func(r *youtube.VideoRecord) {}, false},
		{"short video id", func(r *youtube.VideoRecord) { r.VideoID = "short" }, true},
		{"video id with bad characters", func(r *youtube.VideoRecord) { r.VideoID = "dQw4w9WgXc!" }, true},
		{"channel id without UC prefix", func(r *youtube.VideoRecord) { r.ChannelID = "XXuAXFkgsw1L7xaCfnd5JJOw" }, true},
		{"empty title", func(r *youtube.VideoRecord) { r.Title = "" }, true},
		{"zero publish time", func(r *youtube.VideoRecord) { r.PublishedAt = time.Time{} }, true},
		{"zero rank", func(r *youtube.VideoRecord) { r.Rank = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := validVideoRecord()
			tt.mutate(record)

			err := ValidateVideoRecord(record)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateChannelRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  *youtube.ChannelRecord
		wantErr bool
	}{
		{
			"valid record",
			&youtube.ChannelRecord{ChannelID: "UCuAXFkgsw1L7xaCfnd5JJOw", Title: "A Channel"},
			false,
		},
		{
			"malformed id",
			&youtube.ChannelRecord{ChannelID: "not-a-channel", Title: "A Channel"},
			true,
		},
		{
			"empty title",
			&youtube.ChannelRecord{ChannelID: "UCuAXFkgsw1L7xaCfnd5JJOw"},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChannelRecord(tt.record)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIDHelpers(t *testing.T) {
	assert.True(t, IsValidVideoID("dQw4w9WgXcQ"))
	assert.False(t, IsValidVideoID("dQw4w9WgXcQQ"))
	assert.True(t, IsValidChannelID("UCuAXFkgsw1L7xaCfnd5JJOw"))
	assert.False(t, IsValidChannelID("UCshort"))
}
