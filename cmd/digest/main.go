package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/mvbarbosa/pdfdigest/internal/cache"
	"github.com/mvbarbosa/pdfdigest/internal/common"
	"github.com/mvbarbosa/pdfdigest/internal/digest"
	"github.com/mvbarbosa/pdfdigest/internal/extract"
	"github.com/mvbarbosa/pdfdigest/internal/layout/doclingserve"
	"github.com/mvbarbosa/pdfdigest/internal/llm/openai"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err)
	}

	var (
		file    = flag.String("file", "", "path to the PDF trade note (required)")
		noCache = flag.Bool("no-cache", false, "skip the result cache")
		pretty  = flag.Bool("pretty", false, "indent the JSON output")
	)
	flag.Parse()

	if *file == "" {
		logger.Error("usage: digest -file <statement.pdf> [-no-cache] [-pretty]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx := context.Background()

	svc := digest.NewService(
		cfg,
		doclingserve.NewClient(doclingserve.Config{
			BaseURL: cfg.Layout.BaseURL,
			Timeout: cfg.Layout.Timeout,
		}, logger),
		extract.New(openai.NewClient(openai.Config{
			APIKey:      cfg.Agent.APIKey,
			BaseURL:     cfg.Agent.BaseURL,
			Model:       cfg.Agent.Model,
			Temperature: cfg.Agent.Temperature,
			Timeout:     cfg.Agent.Timeout,
		}, logger), extract.Config{MaxAttempts: cfg.Digest.MaxAttempts}, logger),
		buildCache(ctx, cfg, *noCache, logger),
		logger,
	)

	res, err := svc.Extract(ctx, *file)
	if err != nil {
		logger.Error("extraction failed", "file", *file, "code", common.ErrorCode(err), "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(res); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
}

func buildCache(ctx context.Context, cfg *common.Config, noCache bool, logger *slog.Logger) *cache.Cache {
	if noCache || !cfg.Cache.Enabled {
		return cache.New(ctx, nil, cfg.Cache.TTL, logger)
	}
	store, err := cache.NewRedisStore(cfg.Cache.RedisURL)
	if err != nil {
		logger.Warn("redis store unavailable, running uncached", "error", err)
		return cache.New(ctx, nil, cfg.Cache.TTL, logger)
	}
	return cache.New(ctx, store, cfg.Cache.TTL, logger)
}
