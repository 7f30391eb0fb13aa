// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/retail-analytics/backend-go/internal/api"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/cache"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/config"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/service"
	"github.com/andresuchdata/retail-analytics/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
		logger.SetOutput(zerolog.SyncWriter(os.Stdout))
	}

	// Initialize cache; fall back to computing every forecast when Redis is down
	forecastCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Forecast cache unavailable, continuing without it")
		forecastCache = cache.NewNoopForecastCache()
	}
	defer forecastCache.Close()

	// Drop forecasts computed by a previous build of the model
	if cfg.Cache.FlushOnStart {
		flushCtx, cancelFlush := context.WithTimeout(context.Background(), 10*time.Second)
		if err := forecastCache.InvalidateAll(flushCtx); err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to flush forecast cache")
		} else {
			logger.Log.Info().Msg("Forecast cache flushed")
		}
		cancelFlush()
	}

	// Initialize services
	services := &api.Services{
		ForecastService:  service.NewForecastService(cfg.Forecast, forecastCache),
		InventoryService: service.NewInventoryService(cfg.Replenishment),
	}

	// Initialize HTTP server
	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().
			Str("port", cfg.Server.Port).
			Bool("cache", cfg.Cache.Enabled).
			Int("max_concurrent_fits", cfg.Forecast.MaxConcurrent).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
