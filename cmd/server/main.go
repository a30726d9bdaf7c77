package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/convertsrv/pdfconvert/config"
	"github.com/convertsrv/pdfconvert/convert"
	"github.com/convertsrv/pdfconvert/logger"
	"github.com/convertsrv/pdfconvert/ocr"
	"github.com/convertsrv/pdfconvert/pdf"
	"github.com/convertsrv/pdfconvert/server"
	"github.com/convertsrv/pdfconvert/upload"
	"github.com/convertsrv/pdfconvert/version"
	"github.com/convertsrv/pdfconvert/vision"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if configFile := os.Getenv("CONFIG_FILE"); configFile != "" {
		if err := cfg.LoadFile(configFile); err != nil {
			slog.Error("failed to load config file", "file", configFile, "error", err)
			os.Exit(1)
		}
	}

	var log logger.Logger
	if cfg.Debug {
		log = logger.NewText(os.Stderr, slog.LevelDebug)
	} else {
		log = logger.NewJSON(os.Stderr, logger.ParseLevel(cfg.LogLevel))
	}

	log.Info("starting pdfconvert", "version", version.Version, "addr", cfg.Addr, "ocr_enabled", cfg.OCREnabled)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Error("failed to parse redis URL", "error", err)
			os.Exit(1)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		log.Info("redis connection established")
	}

	raster := pdf.NewRasterizer(cfg.RasterDPI)

	var engine ocr.Engine
	if cfg.OCREnabled {
		engine = ocr.NewTesseract(cfg.OCRLanguages...)
	}
	v1 := convert.NewTextConverter(convert.TextConverterConfig{
		OCREnabled:   cfg.OCREnabled,
		MinTextChars: cfg.OCRMinTextChars,
	}, raster, engine, log)

	var v2 convert.Converter
	if cfg.VisionConfigured() {
		visionClient, err := vision.NewClient(ctx, cfg.VisionProject, cfg.VisionRegion, cfg.VisionModel)
		if err != nil {
			log.Error("failed to create vision client", "error", err)
			os.Exit(1)
		}
		defer visionClient.Close()

		v2 = convert.NewModelConverter(raster, visionClient, log)
		log.Info("model backend enabled", "model", visionClient.ModelName())
	} else {
		log.Info("model backend disabled (GCP_PROJECT not set)")
	}

	validator := upload.NewValidator(cfg.MaxUploadSize, cfg.AllowedExtensions)
	handler := server.NewHandler(validator, v1, v2, log)

	srv := server.New(handler, log, &server.Config{
		CORSOrigins:       cfg.CORSOrigins,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
		RedisClient:       redisClient,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info("received shutdown signal", "signal", sig.String())
		cancel()
	}()

	if err := srv.StartWithShutdown(ctx, cfg.Addr); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server shutdown complete")
}
