package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nygaming/internal/collector"
	"nygaming/internal/config"
	"nygaming/internal/infrastructure"
)

func main() {
	os.Exit(run())
}

func run() int {
	outDir := flag.String("out", "", "download directory (default: data/downloads/<timestamp>)")
	flag.Parse()

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
	cfg.Logging.FilePath = paths.GetLogPath("collector.log")

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger, using default: %v\n", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithTraceID(context.Background(), infrastructure.NewTraceID())
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	destDir := *outDir
	if destDir == "" {
		destDir = paths.RunDownloadDir(time.Now())
	}

	c := collector.New(logger, cfg.Collector, config.DefaultSources())
	result, err := c.Collect(ctx, destDir)
	if err != nil {
		logger.ErrorContext(ctx, "collection failed", slog.String("error", err.Error()))
		return 1
	}

	fmt.Printf("Downloaded %d of %d reports to %s\n",
		len(result.Succeeded()), len(result.Results), result.Dir)
	for _, brand := range result.Failed() {
		fmt.Printf("  failed: %s\n", brand)
	}

	return 0
}
