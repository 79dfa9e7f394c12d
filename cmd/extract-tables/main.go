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
	"github.com/mvbarbosa/pdfdigest/internal/tables"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err)
	}

	var (
		file   = flag.String("file", "", "path to the PDF document (required)")
		format = flag.String("format", "json", "export format: json, csv, excel, html")
		outDir = flag.String("out", "", "directory to save one file per table (optional)")
	)
	flag.Parse()

	if *file == "" {
		logger.Error("usage: extract-tables -file <document.pdf> [-format json|csv|excel|html] [-out dir]")
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
		cache.New(ctx, nil, cfg.Cache.TTL, logger),
		logger,
	)

	res, err := svc.ExtractTables(ctx, *file, tables.ParseFormat(*format))
	if err != nil {
		logger.Error("table extraction failed", "file", *file, "code", common.ErrorCode(err), "error", err)
		os.Exit(1)
	}

	if *outDir != "" {
		saved, err := svc.SaveTables(ctx, res, *outDir)
		if err != nil {
			logger.Error("save tables failed", "out", *outDir, "error", err)
			os.Exit(1)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(saved); err != nil {
			logger.Error("encode result", "error", err)
			os.Exit(1)
		}
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
}
