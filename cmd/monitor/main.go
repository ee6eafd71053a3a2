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

	"nygaming/internal/analytics"
	"nygaming/internal/analyzer"
	"nygaming/internal/collector"
	"nygaming/internal/config"
	"nygaming/internal/extractor"
	"nygaming/internal/infrastructure"
	"nygaming/internal/notifier"
	"nygaming/internal/operations"
	"nygaming/internal/reporter"
	"nygaming/internal/snapshot"
)

func main() {
	os.Exit(run())
}

func run() int {
	skipCollect := flag.Bool("skip-collect", false, "reuse an existing download directory instead of fetching")
	downloadDir := flag.String("download-dir", "", "download directory to extract from (with -skip-collect)")
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
	if cfg.Logging.FilePath == "" || cfg.Logging.FilePath == "logs/monitor.log" {
		cfg.Logging.FilePath = paths.GetLogPath("monitor.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger, using default: %v\n", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	runID := infrastructure.NewTraceID()
	ctx := infrastructure.WithTraceID(context.Background(), runID)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.InfoContext(ctx, "starting monitoring run",
		slog.String("app", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("run_id", runID))

	sources := config.DefaultSources()
	store := snapshot.NewStore(logger, paths)
	changeLog := snapshot.NewChangeLog(paths.ChangeLogFile, config.ChangeLogMaxEntries)

	var steps []operations.Step
	if !*skipCollect {
		steps = append(steps, &operations.CollectStep{
			Collector: collector.New(logger, cfg.Collector, sources),
			Paths:     paths,
		})
	}
	steps = append(steps,
		&operations.ExtractStep{
			Extractor: extractor.New(logger, sources),
			Store:     store,
		},
		&operations.AnalyzeStep{
			Analyzer: analyzer.New(logger, cfg.Analyzer),
			Store:    store,
			Log:      changeLog,
			Logger:   logger,
		},
		&operations.ReportStep{
			Calculator: analytics.NewCalculator(logger, cfg.Analyzer),
			Reporter:   reporter.New(logger),
			Paths:      paths,
		},
		&operations.NotifyStep{
			Notifier: notifier.NewEmailNotifier(logger, cfg.SMTP),
			Paths:    paths,
			Logger:   logger,
		},
		&operations.ArchiveStep{Store: store},
	)

	state := &operations.RunState{
		RunID:   runID,
		RunTime: time.Now(),
	}
	if *skipCollect {
		if *downloadDir == "" {
			fmt.Fprintln(os.Stderr, "Error: -skip-collect requires -download-dir")
			return 1
		}
		state.DownloadDir = *downloadDir
	}

	runner := operations.NewRunner(logger, steps)
	summary, err := runner.Run(ctx, state)
	if err != nil {
		logger.ErrorContext(ctx, "monitoring run failed",
			slog.String("run_id", runID),
			slog.String("error", err.Error()))
		return 1
	}

	logger.InfoContext(ctx, "monitoring run succeeded",
		slog.String("run_id", runID),
		slog.Duration("duration", summary.Duration),
		slog.Bool("notified", state.Notified),
		slog.Int("events", state.Comparison.EventCount()))

	return 0
}
