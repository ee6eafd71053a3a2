package operations

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"nygaming/internal/analytics"
	"nygaming/internal/analyzer"
	"nygaming/internal/collector"
	"nygaming/internal/config"
	"nygaming/internal/extractor"
	"nygaming/internal/notifier"
	"nygaming/internal/reporter"
	"nygaming/internal/snapshot"
)

// CollectStep downloads the operator reports into the per-run directory.
type CollectStep struct {
	Collector *collector.Collector
	Paths     *config.Paths
}

func (s *CollectStep) ID() string   { return StepIDCollect }
func (s *CollectStep) Name() string { return StepNameCollect }

func (s *CollectStep) Execute(ctx context.Context, state *RunState) error {
	state.DownloadDir = s.Paths.RunDownloadDir(state.RunTime)

	result, err := s.Collector.Collect(ctx, state.DownloadDir)
	if err != nil {
		return err
	}

	// Partial failure is a warning, not a stop: the analyzer operates on
	// whatever data made it through.
	state.FailedFetch = result.Failed()
	return nil
}

// ExtractStep normalizes the downloaded reports into the current snapshot
// and persists it.
type ExtractStep struct {
	Extractor *extractor.Extractor
	Store     *snapshot.Store
}

func (s *ExtractStep) ID() string   { return StepIDExtract }
func (s *ExtractStep) Name() string { return StepNameExtract }

func (s *ExtractStep) Execute(ctx context.Context, state *RunState) error {
	snap, err := s.Extractor.ExtractAll(ctx, state.DownloadDir)
	if err != nil {
		return err
	}
	if err := s.Store.SaveCurrent(snap); err != nil {
		return err
	}
	state.Current = snap
	return nil
}

// AnalyzeStep loads the previous snapshot, runs the comparison, and
// appends the result to the change log.
type AnalyzeStep struct {
	Analyzer *analyzer.Analyzer
	Store    *snapshot.Store
	Log      *snapshot.ChangeLog
	Logger   *slog.Logger
}

func (s *AnalyzeStep) ID() string   { return StepIDAnalyze }
func (s *AnalyzeStep) Name() string { return StepNameAnalyze }

func (s *AnalyzeStep) Execute(ctx context.Context, state *RunState) error {
	previous, err := s.Store.LoadPrevious()
	if err != nil {
		return err
	}
	state.Previous = previous

	result, err := s.Analyzer.Compare(ctx, state.Current, previous)
	if err != nil {
		return err
	}
	state.Comparison = result

	entry := snapshot.RunEntry{
		Timestamp: state.RunTime,
		RunID:     state.RunID,
		Result:    result,
		Warnings:  state.Warnings(),
	}
	if err := s.Log.Append(entry); err != nil {
		// The change log is audit-only; a write failure should not mask
		// the comparison outcome
		s.Logger.WarnContext(ctx, "failed to append change log",
			slog.String("error", err.Error()))
	}

	return nil
}

// ReportStep builds the metric tables and renders the workbook when the
// run detected changes.
type ReportStep struct {
	Calculator *analytics.Calculator
	Reporter   *reporter.Reporter
	Paths      *config.Paths
}

func (s *ReportStep) ID() string   { return StepIDReport }
func (s *ReportStep) Name() string { return StepNameReport }

func (s *ReportStep) Execute(ctx context.Context, state *RunState) error {
	if !s.Reporter.ShouldNotify(state.Comparison) {
		return Skipped("no changes detected")
	}

	tables, err := s.Calculator.BuildTables(ctx, state.Current)
	if err != nil {
		return err
	}
	state.Tables = tables

	workbook, err := s.Reporter.Render(ctx, tables)
	if err != nil {
		return err
	}
	state.Workbook = workbook

	state.WorkbookPath = s.Paths.WorkbookPath(state.RunTime)
	if err := os.WriteFile(state.WorkbookPath, workbook, 0644); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}

// NotifyStep dispatches the notification when the run detected changes.
// An unconfigured notifier skips with a warning; a dispatch failure fails
// the run before the archive step can demote the baseline.
type NotifyStep struct {
	Notifier notifier.Notifier
	Paths    *config.Paths
	Logger   *slog.Logger
}

func (s *NotifyStep) ID() string   { return StepIDNotify }
func (s *NotifyStep) Name() string { return StepNameNotify }

func (s *NotifyStep) Execute(ctx context.Context, state *RunState) error {
	if state.Comparison == nil || !state.Comparison.HasChanges {
		return Skipped("no changes detected")
	}
	if !s.Notifier.Configured() {
		s.Logger.WarnContext(ctx, "email credentials not configured, skipping notification")
		return Skipped("notifier not configured")
	}

	snapshotCSV, err := os.ReadFile(s.Paths.CurrentSnapshotCSV)
	if err != nil {
		return fmt.Errorf("failed to read snapshot for attachment: %w", err)
	}

	payload := notifier.BuildPayload(state.Comparison, state.Warnings(), state.RunTime, state.Workbook, snapshotCSV)
	if err := s.Notifier.Send(ctx, payload); err != nil {
		return err
	}

	state.Notified = true
	return nil
}

// ArchiveStep demotes the current snapshot to the comparison baseline.
// It runs even when nothing changed; the baseline tracks the newest
// successful extraction.
type ArchiveStep struct {
	Store *snapshot.Store
}

func (s *ArchiveStep) ID() string   { return StepIDArchive }
func (s *ArchiveStep) Name() string { return StepNameArchive }

func (s *ArchiveStep) Execute(ctx context.Context, state *RunState) error {
	_, err := s.Store.Archive(state.RunTime)
	return err
}
