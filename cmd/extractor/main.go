package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"nygaming/internal/config"
	"nygaming/internal/extractor"
	"nygaming/internal/infrastructure"
	"nygaming/internal/snapshot"
)

func main() {
	os.Exit(run())
}

func run() int {
	inDir := flag.String("in", "", "directory of downloaded Excel reports (required)")
	flag.Parse()

	if *inDir == "" {
		fmt.Fprintln(os.Stderr, "Error: -in is required")
		flag.Usage()
		return 1
	}

	paths, err := config.GetPaths()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize paths: %v\n", err)
		return 1
	}
	if err := paths.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create required directories: %v\n", err)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config, using defaults: %v\n", err)
		cfg = config.Default()
	}
	cfg.Logging.FilePath = paths.GetLogPath("extractor.log")

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger, using default: %v\n", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithTraceID(context.Background(), infrastructure.NewTraceID())

	ext := extractor.New(logger, config.DefaultSources())
	snap, err := ext.ExtractAll(ctx, *inDir)
	if err != nil {
		logger.ErrorContext(ctx, "extraction failed", slog.String("error", err.Error()))
		return 1
	}

	store := snapshot.NewStore(logger, paths)
	if err := store.SaveCurrent(snap); err != nil {
		logger.ErrorContext(ctx, "failed to save snapshot", slog.String("error", err.Error()))
		return 1
	}

	fmt.Printf("Extracted %d records across %d brands to %s\n",
		snap.RecordCount, len(snap.Brands()), paths.CurrentSnapshotCSV)

	return 0
}
