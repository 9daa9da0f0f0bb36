package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendwatch/youtube-trend-harvester/internal/db/models"
	"github.com/trendwatch/youtube-trend-harvester/internal/youtube"
)

type fakeSource struct {
	charts   map[string][]*youtube.VideoRecord
	channels map[string][]string
	errs     map[string]error
}

func (f *fakeSource) TrendingVideos(_ context.Context, target models.ScrapeTarget) ([]*youtube.VideoRecord, []string, error) {
	key := target.String()
	if err := f.errs[key]; err != nil {
		return nil, nil, err
	}
	return f.charts[key], f.channels[key], nil
}

func (f *fakeSource) Channels(_ context.Context, channelIDs []string) ([]*youtube.ChannelRecord, error) {
	records := make([]*youtube.ChannelRecord, 0, len(channelIDs))
	for _, id := range channelIDs {
		records = append(records, &youtube.ChannelRecord{ChannelID: id, Title: id})
	}
	return records, nil
}

func (f *fakeSource) Categories(context.Context) ([]*youtube.CategoryRecord, error) {
	return nil, nil
}

func chartVideo(id string, target models.ScrapeTarget) *youtube.VideoRecord {
	return &youtube.VideoRecord{VideoID: id, Rank: 1, Target: target}
}

func TestScrapeCharts(t *testing.T) {
	music := models.CategoryTarget(10)
	gaming := models.CategoryTarget(20)
	popular := models.PopularTarget()

	source := &fakeSource{
		charts: map[string][]*youtube.VideoRecord{
			music.String():   {chartVideo("aaaaaaaaaaa", music)},
			popular.String(): {chartVideo("aaaaaaaaaaa", popular), chartVideo("bbbbbbbbbbb", popular)},
		},
		channels: map[string][]string{
			music.String():   {"UCaaaaaaaaaaaaaaaaaaaaaa"},
			popular.String(): {"UCaaaaaaaaaaaaaaaaaaaaaa", "UCbbbbbbbbbbbbbbbbbbbbbb"},
		},
		errs: map[string]error{
			gaming.String(): errors.New("quota exceeded"),
		},
	}

	h := &Harvester{source: source}
	categories := []*models.Category{
		{CategoryID: 10, Name: "Music", Assignable: true},
		{CategoryID: 20, Name: "Gaming", Assignable: true},
	}

	var stats CycleStats
	videos, channelIDs := h.scrapeCharts(context.Background(), categories, &stats)

	// One failing chart degrades the cycle, it does not stop it.
	assert.Equal(t, 1, stats.CategoriesScraped)
	assert.Equal(t, 1, stats.CategoriesFailed)

	require.Len(t, videos, 3)

	// Channel ids are a deduplicated union across charts.
	assert.Equal(t, []string{"UCaaaaaaaaaaaaaaaaaaaaaa", "UCbbbbbbbbbbbbbbbbbbbbbb"}, channelIDs)
}

func TestScrapeChartsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := &Harvester{source: &fakeSource{}}
	var stats CycleStats
	videos, channelIDs := h.scrapeCharts(ctx, []*models.Category{{CategoryID: 10, Assignable: true}}, &stats)

	assert.Empty(t, videos)
	assert.Empty(t, channelIDs)
	assert.Equal(t, 0, stats.CategoriesScraped)
}
