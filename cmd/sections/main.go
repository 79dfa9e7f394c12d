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
		file    = flag.String("file", "", "path to the PDF statement (required)")
		noCache = flag.Bool("no-cache", false, "skip the result cache")
	)
	flag.Parse()

	if *file == "" {
		logger.Error("usage: sections -file <statement.pdf> [-no-cache]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx := context.Background()

	var store cache.Store
	if cfg.Cache.Enabled && !*noCache {
		if rs, err := cache.NewRedisStore(cfg.Cache.RedisURL); err != nil {
			logger.Warn("redis store unavailable, running uncached", "error", err)
		} else {
			store = rs
		}
	}

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
		cache.New(ctx, store, cfg.Cache.TTL, logger),
		logger,
	)

	secs, err := svc.Sections(ctx, *file)
	if err != nil {
		logger.Error("section split failed", "file", *file, "code", common.ErrorCode(err), "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(secs); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
}
