package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"accentdetector/internal/api"
	"accentdetector/internal/config"
	"accentdetector/internal/logger"
	"accentdetector/internal/metrics"
	"accentdetector/internal/pipeline"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New(cfg.Environment, cfg.LogLevel)

	// Set Gin mode (default to release mode)
	if cfg.GinMode == "" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(cfg.GinMode)
	}

	rec := metrics.New()
	detector, provider, err := pipeline.FromConfig(context.Background(), cfg, appLog, rec)
	if err != nil {
		appLog.WithError(err).Fatal("failed to build pipeline")
	}
	appLog.WithField("stt_provider", provider.Name()).Info("STT provider initialized")

	r := api.NewRouter(detector, api.Options{
		MaxUploadBytes: cfg.MaxUploadBytes(),
		STTProvider:    provider.Name(),
		StaticDir:      cfg.StaticDir,
		Logger:         appLog,
		Metrics:        rec,
	})

	appLog.WithField("port", cfg.Port).Info("accent detector running")
	if err := r.Run(":" + cfg.Port); err != nil {
		appLog.WithError(err).Fatal("failed to start server")
	}
}
