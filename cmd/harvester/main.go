package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/trendwatch/youtube-trend-harvester/internal/config"
	"github.com/trendwatch/youtube-trend-harvester/internal/db"
	"github.com/trendwatch/youtube-trend-harvester/internal/service"
	"github.com/trendwatch/youtube-trend-harvester/internal/youtube"
	"github.com/trendwatch/youtube-trend-harvester/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close(pool)

	client, err := youtube.NewClient(ctx, cfg.YouTube.APIKey, cfg.YouTube.RegionCode, cfg.YouTube.PageSize, cfg.YouTube.MaxPages)
	if err != nil {
		logger.Log.Fatal("failed to create YouTube client", zap.Error(err))
	}

	var publisher *service.CyclePublisher
	if cfg.RabbitMQ.Enabled {
		publisher, err = service.NewCyclePublisher(&cfg.RabbitMQ)
		if err != nil {
			logger.Log.Fatal("failed to connect to RabbitMQ", zap.Error(err))
		}
		defer publisher.Close()
	}

	harvester := service.NewHarvester(pool, client, publisher, cfg.Harvest)

	logger.Log.Info("harvester starting",
		zap.String("region", cfg.YouTube.RegionCode),
		zap.Duration("interval", cfg.Harvest.Interval),
	)

	if err := harvester.Run(ctx); err != nil {
		logger.Log.Fatal("harvester failed", zap.Error(err))
	}

	logger.Log.Info("harvester finished")
}
