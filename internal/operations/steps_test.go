package operations

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"nygaming/internal/analytics"
	"nygaming/internal/analyzer"
	"nygaming/internal/config"
	"nygaming/internal/extractor"
	"nygaming/internal/notifier"
	"nygaming/internal/reporter"
	"nygaming/internal/snapshot"
	"nygaming/pkg/contracts/domain"
)

var pipelineSources = []domain.ReportSource{
	{Brand: "FanDuel", URL: "https://example.com/fanduel", Filename: "fanduel.xlsx"},
	{Brand: "DraftKings", URL: "https://example.com/draftkings", Filename: "draftkings.xlsx"},
}

type fakeNotifier struct {
	configured bool
	sendErr    error
	payloads   []notifier.Payload
}

func (n *fakeNotifier) Configured() bool { return n.configured }

func (n *fakeNotifier) Send(ctx context.Context, p notifier.Payload) error {
	if n.sendErr != nil {
		return n.sendErr
	}
	n.payloads = append(n.payloads, p)
	return nil
}

// writeWeeklyReport builds a raw operator workbook with one row per date.
func writeWeeklyReport(t *testing.T, path string, dates ...string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Mobile Sports Wagering Weekly Report"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Week-Ending"))
	require.NoError(t, f.SetCellValue("Sheet1", "C2", "Handle"))
	require.NoError(t, f.SetCellValue("Sheet1", "F2", "GGR"))

	for i, d := range dates {
		row := i + 3
		require.NoError(t, f.SetCellValue("Sheet1", cellName(t, 1, row), d))
		require.NoError(t, f.SetCellValue("Sheet1", cellName(t, 3, row), "1,000,000"))
		require.NoError(t, f.SetCellValue("Sheet1", cellName(t, 6, row), "90,000"))
	}

	require.NoError(t, f.SaveAs(path))
}

func cellName(t *testing.T, col, row int) string {
	t.Helper()
	name, err := excelize.CoordinatesToCellName(col, row)
	require.NoError(t, err)
	return name
}

type pipeline struct {
	paths    *config.Paths
	store    *snapshot.Store
	log      *snapshot.ChangeLog
	notifier *fakeNotifier
	steps    []Step
}

func newPipeline(t *testing.T, base string, n *fakeNotifier) *pipeline {
	t.Helper()

	paths := config.PathsFrom(base)
	require.NoError(t, paths.EnsureDirectories())

	store := snapshot.NewStore(nil, paths)
	changeLog := snapshot.NewChangeLog(paths.ChangeLogFile, config.ChangeLogMaxEntries)
	policy := config.AnalyzerConfig{GGRChangeThreshold: 0.20, YoYLookbackDays: 364}

	steps := []Step{
		&ExtractStep{
			Extractor: extractor.New(nil, pipelineSources),
			Store:     store,
		},
		&AnalyzeStep{
			Analyzer: analyzer.New(nil, policy),
			Store:    store,
			Log:      changeLog,
			Logger:   slog.Default(),
		},
		&ReportStep{
			Calculator: analytics.NewCalculator(nil, policy),
			Reporter:   reporter.New(nil),
			Paths:      paths,
		},
		&NotifyStep{
			Notifier: n,
			Paths:    paths,
			Logger:   slog.Default(),
		},
		&ArchiveStep{Store: store},
	}

	return &pipeline{paths: paths, store: store, log: changeLog, notifier: n, steps: steps}
}

func (p *pipeline) run(t *testing.T, downloadDir string, runTime time.Time) (*RunSummary, *RunState, error) {
	t.Helper()
	state := &RunState{
		RunID:       "run-" + runTime.Format("150405"),
		RunTime:     runTime,
		DownloadDir: downloadDir,
	}
	summary, err := NewRunner(nil, p.steps).Run(context.Background(), state)
	return summary, state, err
}

func TestPipelineFirstRun(t *testing.T) {
	base := t.TempDir()
	downloadDir := filepath.Join(base, "downloads")
	require.NoError(t, os.MkdirAll(downloadDir, 0755))
	writeWeeklyReport(t, filepath.Join(downloadDir, "fanduel.xlsx"), "2024-01-07", "2024-01-14")
	writeWeeklyReport(t, filepath.Join(downloadDir, "draftkings.xlsx"), "2024-01-07")

	p := newPipeline(t, base, &fakeNotifier{configured: true})
	runTime := time.Date(2024, 1, 15, 6, 30, 0, 0, time.UTC)

	summary, state, err := p.run(t, downloadDir, runTime)
	require.NoError(t, err)
	assert.Empty(t, summary.Err)

	require.NotNil(t, state.Comparison)
	assert.True(t, state.Comparison.IsNewData)
	assert.True(t, state.Notified)

	assert.FileExists(t, p.paths.CurrentSnapshotCSV)
	assert.FileExists(t, p.paths.WorkbookPath(runTime))
	assert.FileExists(t, p.paths.PreviousSnapshotCSV())

	require.Len(t, p.notifier.payloads, 1)
	assert.Len(t, p.notifier.payloads[0].Attachments, 2)

	entries, err := p.log.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Result.IsNewData)
}

func TestPipelineNoChangesSkipsReportAndNotify(t *testing.T) {
	base := t.TempDir()
	downloadDir := filepath.Join(base, "downloads")
	require.NoError(t, os.MkdirAll(downloadDir, 0755))
	writeWeeklyReport(t, filepath.Join(downloadDir, "fanduel.xlsx"), "2024-01-07")

	p := newPipeline(t, base, &fakeNotifier{configured: true})

	_, _, err := p.run(t, downloadDir, time.Date(2024, 1, 15, 6, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// Same data again; nothing changed.
	summary, state, err := p.run(t, downloadDir, time.Date(2024, 1, 22, 6, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.False(t, state.Comparison.HasChanges)
	assert.Equal(t, StepStatusSkipped, summary.Steps[2].Status)
	assert.Equal(t, StepStatusSkipped, summary.Steps[3].Status)
	assert.Equal(t, StepStatusCompleted, summary.Steps[4].Status)
	assert.Len(t, p.notifier.payloads, 1)
}

func TestPipelineNotifyFailureBlocksArchive(t *testing.T) {
	base := t.TempDir()
	downloadDir := filepath.Join(base, "downloads")
	require.NoError(t, os.MkdirAll(downloadDir, 0755))
	writeWeeklyReport(t, filepath.Join(downloadDir, "fanduel.xlsx"), "2024-01-07")

	p := newPipeline(t, base, &fakeNotifier{configured: true, sendErr: errors.New("smtp unavailable")})

	summary, _, err := p.run(t, downloadDir, time.Date(2024, 1, 15, 6, 0, 0, 0, time.UTC))
	require.Error(t, err)

	// The baseline was never demoted, so the next run still sees the
	// change instead of silently losing it.
	assert.NoFileExists(t, p.paths.PreviousSnapshotCSV())
	assert.Equal(t, StepStatusFailed, summary.Steps[3].Status)
	assert.Equal(t, StepStatusPending, summary.Steps[4].Status)
}

func TestPipelineUnconfiguredNotifierStillArchives(t *testing.T) {
	base := t.TempDir()
	downloadDir := filepath.Join(base, "downloads")
	require.NoError(t, os.MkdirAll(downloadDir, 0755))
	writeWeeklyReport(t, filepath.Join(downloadDir, "fanduel.xlsx"), "2024-01-07")

	p := newPipeline(t, base, &fakeNotifier{configured: false})

	summary, state, err := p.run(t, downloadDir, time.Date(2024, 1, 15, 6, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, state.Comparison.HasChanges)
	assert.False(t, state.Notified)
	assert.Equal(t, StepStatusSkipped, summary.Steps[3].Status)
	assert.FileExists(t, p.paths.PreviousSnapshotCSV())
	assert.Empty(t, p.notifier.payloads)
}
