//go:build integration
// +build integration

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendwatch/youtube-trend-harvester/internal/db/models"
	"github.com/trendwatch/youtube-trend-harvester/internal/db/repository"
	"github.com/trendwatch/youtube-trend-harvester/internal/db/testutil"
	"github.com/trendwatch/youtube-trend-harvester/internal/youtube"
)

func TestIngestDropsDuplicateScrapeIdentity(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)
	ctx := context.Background()

	ingestor := NewIngestor(td.Pool, testWeek)

	stats, err := ingestor.Ingest(ctx, time.Now().UTC(),
		[]*youtube.ChannelRecord{channelRec(chanA)},
		[]*youtube.VideoRecord{
			videoRec(vidA, chanA, 1, 1000, 10),
			videoRec(vidA, chanA, 5, 9999, 99), // same id, same chart
		})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.VideosStored)
	assert.Equal(t, 1, stats.VideosDropped)

	videos, err := repository.NewVideoRepository(td.Pool).ListCurrent(ctx)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	// The first occurrence is the one kept.
	assert.Equal(t, 1, videos[0].Rank)
	require.NotNil(t, videos[0].ViewCount)
	assert.Equal(t, int64(1000), *videos[0].ViewCount)
}

func TestIngestStoresSameVideoOnDifferentCharts(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)
	ctx := context.Background()

	require.NoError(t, repository.NewCategoryRepository(td.Pool).UpsertCategory(ctx,
		&models.Category{CategoryID: 10, Name: "Music", Assignable: true}))

	onCategory := videoRec(vidA, chanA, 2, 1000, 10)
	onCategory.Target = models.CategoryTarget(10)
	onCategory.CategoryID = func() *int64 { v := int64(10); return &v }()

	ingestor := NewIngestor(td.Pool, testWeek)
	stats, err := ingestor.Ingest(ctx, time.Now().UTC(),
		[]*youtube.ChannelRecord{channelRec(chanA)},
		[]*youtube.VideoRecord{
			videoRec(vidA, chanA, 1, 1000, 10),
			onCategory,
		})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.VideosStored)
	assert.Equal(t, 0, stats.VideosDropped)
}

func TestIngestRollsBackWholeBatch(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)
	ctx := context.Background()

	ingestor := NewIngestor(td.Pool, testWeek)

	// vidB references a channel missing from the batch, so its insert
	// violates the foreign key and the whole batch must vanish.
	_, err := ingestor.Ingest(ctx, time.Now().UTC(),
		[]*youtube.ChannelRecord{channelRec(chanA)},
		[]*youtube.VideoRecord{
			videoRec(vidA, chanA, 1, 1000, 10),
			videoRec(vidB, chanB, 2, 2000, 20),
		})
	require.Error(t, err)

	videos, err := repository.NewVideoRepository(td.Pool).ListCurrent(ctx)
	require.NoError(t, err)
	assert.Empty(t, videos)

	channels, err := repository.NewChannelRepository(td.Pool).ListCurrent(ctx)
	require.NoError(t, err)
	assert.Empty(t, channels)
}

func TestIngestComputesChannelAggregatesWithDedup(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)
	ctx := context.Background()

	require.NoError(t, repository.NewCategoryRepository(td.Pool).UpsertCategory(ctx,
		&models.Category{CategoryID: 10, Name: "Music", Assignable: true}))

	// vidA appears on two charts with identical metrics; it must count
	// once in the aggregates. vidB appears once.
	duplicate := videoRec(vidA, chanA, 3, 1000, 10)
	duplicate.Target = models.CategoryTarget(10)

	ingestor := NewIngestor(td.Pool, testWeek)
	_, err := ingestor.Ingest(ctx, time.Now().UTC(),
		[]*youtube.ChannelRecord{channelRec(chanA)},
		[]*youtube.VideoRecord{
			videoRec(vidA, chanA, 1, 1000, 10),
			videoRec(vidB, chanA, 2, 3000, 20),
			duplicate,
		})
	require.NoError(t, err)

	channel, err := repository.NewChannelRepository(td.Pool).GetChannelByID(ctx, chanA)
	require.NoError(t, err)

	require.NotNil(t, channel.PopularViewCount)
	assert.Equal(t, int64(4000), *channel.PopularViewCount)
	require.NotNil(t, channel.LikeCount)
	assert.Equal(t, int64(30), *channel.LikeCount)
	require.NotNil(t, channel.AverageViews)
	assert.InDelta(t, 2000.0, *channel.AverageViews, 1e-9)
	require.NotNil(t, channel.AverageLikes)
	assert.InDelta(t, 15.0, *channel.AverageLikes, 1e-9)
	require.NotNil(t, channel.PopularCount)
	assert.Equal(t, int64(2), *channel.PopularCount)
}

func TestIngestPopularCountSpansTrailingWindow(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)
	ctx := context.Background()

	ingestor := NewIngestor(td.Pool, testWeek)
	rotator := NewRotator(td.Pool)

	now := time.Now().UTC()

	// vidB was popular two days ago and has since left the charts.
	_, err := ingestor.Ingest(ctx, now.Add(-48*time.Hour),
		[]*youtube.ChannelRecord{channelRec(chanA)},
		[]*youtube.VideoRecord{videoRec(vidB, chanA, 1, 3000, 30)})
	require.NoError(t, err)
	_, err = rotator.Rotate(ctx)
	require.NoError(t, err)

	_, err = ingestor.Ingest(ctx, now,
		[]*youtube.ChannelRecord{channelRec(chanA)},
		[]*youtube.VideoRecord{videoRec(vidA, chanA, 1, 1000, 10)})
	require.NoError(t, err)

	channel, err := repository.NewChannelRepository(td.Pool).GetChannelByID(ctx, chanA)
	require.NoError(t, err)

	// Current snapshot has vidA, the trailing week of history adds vidB.
	require.NotNil(t, channel.PopularCount)
	assert.Equal(t, int64(2), *channel.PopularCount)
}

func TestIngestPopularCountIgnoresExpiredHistory(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)
	ctx := context.Background()

	ingestor := NewIngestor(td.Pool, testWeek)
	rotator := NewRotator(td.Pool)

	now := time.Now().UTC()

	// vidB's last appearance is outside the trailing week.
	_, err := ingestor.Ingest(ctx, now.Add(-9*24*time.Hour),
		[]*youtube.ChannelRecord{channelRec(chanA)},
		[]*youtube.VideoRecord{videoRec(vidB, chanA, 1, 3000, 30)})
	require.NoError(t, err)
	_, err = rotator.Rotate(ctx)
	require.NoError(t, err)

	_, err = ingestor.Ingest(ctx, now,
		[]*youtube.ChannelRecord{channelRec(chanA)},
		[]*youtube.VideoRecord{videoRec(vidA, chanA, 1, 1000, 10)})
	require.NoError(t, err)

	channel, err := repository.NewChannelRepository(td.Pool).GetChannelByID(ctx, chanA)
	require.NoError(t, err)

	require.NotNil(t, channel.PopularCount)
	assert.Equal(t, int64(1), *channel.PopularCount)
}

func TestIngestDropsInvalidRecords(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)
	ctx := context.Background()

	bad := videoRec(vidA, chanA, 1, 1000, 10)
	bad.VideoID = "not an id"

	ingestor := NewIngestor(td.Pool, testWeek)
	stats, err := ingestor.Ingest(ctx, time.Now().UTC(),
		[]*youtube.ChannelRecord{channelRec(chanA)},
		[]*youtube.VideoRecord{bad, videoRec(vidB, chanA, 2, 2000, 20)})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.VideosStored)
	assert.Equal(t, 1, stats.VideosDropped)
}
