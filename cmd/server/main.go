package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/trendwatch/youtube-trend-harvester/internal/config"
	"github.com/trendwatch/youtube-trend-harvester/internal/db"
	"github.com/trendwatch/youtube-trend-harvester/internal/db/repository"
	"github.com/trendwatch/youtube-trend-harvester/internal/handler"
	"github.com/trendwatch/youtube-trend-harvester/internal/middleware"
	"github.com/trendwatch/youtube-trend-harvester/internal/service"
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

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close(pool)

	var publisher *service.CyclePublisher
	if cfg.RabbitMQ.Enabled {
		publisher, err = service.NewCyclePublisher(&cfg.RabbitMQ)
		if err != nil {
			logger.Log.Warn("RabbitMQ unavailable, readiness will not track it", zap.Error(err))
		} else {
			defer publisher.Close()
		}
	}

	router := buildRouter(pool, publisher, cfg.Server.APIKeys)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Log.Info("server starting", zap.Int("port", cfg.Server.Port))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	case sig := <-shutdown:
		logger.Log.Info("shutdown signal received", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("graceful shutdown failed", zap.Error(err))
			if err := server.Close(); err != nil {
				logger.Log.Error("failed to close server", zap.Error(err))
			}
			os.Exit(1)
		}

		logger.Log.Info("server stopped gracefully")
	}
}

func buildRouter(pool *pgxpool.Pool, publisher *service.CyclePublisher, apiKeys []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	videoRepo := repository.NewVideoRepository(pool)
	videoHistoryRepo := repository.NewVideoHistoryRepository(pool)
	channelRepo := repository.NewChannelRepository(pool)
	channelHistoryRepo := repository.NewChannelHistoryRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)

	videoHandler := handler.NewVideoHandler(videoRepo, videoHistoryRepo)
	channelHandler := handler.NewChannelHandler(channelRepo, videoRepo, channelHistoryRepo)
	categoryHandler := handler.NewCategoryHandler(categoryRepo)

	var broker handler.BrokerHealth
	if publisher != nil {
		broker = publisher
	}
	healthHandler := handler.NewHealthHandler(pool, broker)

	router.GET("/health/live", healthHandler.LivenessProbe)
	router.GET("/health/ready", healthHandler.ReadinessProbe)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.NewAPIKeyAuth(apiKeys)
	api := router.Group("/api/v1", auth.Middleware())
	{
		api.GET("/videos", videoHandler.ListVideos)
		api.GET("/videos/:videoId/history", videoHandler.GetVideoHistory)
		api.GET("/channels", channelHandler.ListChannels)
		api.GET("/channels/:channelId", channelHandler.GetChannel)
		api.GET("/channels/:channelId/videos", channelHandler.GetChannelVideos)
		api.GET("/channels/:channelId/history", channelHandler.GetChannelHistory)
		api.GET("/categories", categoryHandler.ListCategories)
	}

	return router
}
