package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathsFrom(t *testing.T) {
	base := t.TempDir()
	paths := PathsFrom(base)

	assert.Equal(t, base, paths.ExecutableDir)
	assert.Equal(t, filepath.Join(base, "data"), paths.DataDir)
	assert.Equal(t, filepath.Join(base, "data", "downloads"), paths.DownloadsDir)
	assert.Equal(t, filepath.Join(base, "data", "ny_gaming_data.csv"), paths.CurrentSnapshotCSV)
	assert.Equal(t, filepath.Join(base, "data", "data_changes.json"), paths.ChangeLogFile)
	assert.Equal(t, filepath.Join(base, "data", "archive", "latest"), paths.LatestArchiveDir)
	assert.Equal(t, filepath.Join(paths.LatestArchiveDir, "ny_gaming_data.csv"), paths.PreviousSnapshotCSV())
}

func TestEnsureDirectories(t *testing.T) {
	paths := PathsFrom(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.DataDir, paths.DownloadsDir, paths.ReportsDir, paths.ArchiveDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestRunScopedPaths(t *testing.T) {
	paths := PathsFrom(filepath.Join(string(filepath.Separator), "app"))
	runTime := time.Date(2024, 6, 30, 6, 30, 0, 0, time.UTC)

	assert.Equal(t,
		filepath.Join(paths.DownloadsDir, "20240630_063000"),
		paths.RunDownloadDir(runTime))
	assert.Equal(t,
		filepath.Join(paths.ArchiveDir, "20240630_063000"),
		paths.RunArchiveDir(runTime))
	assert.Equal(t,
		filepath.Join(paths.ReportsDir, "ny_gaming_analysis_20240630_063000.xlsx"),
		paths.WorkbookPath(runTime))
	assert.Equal(t,
		filepath.Join(paths.LogsDir, "monitor.log"),
		paths.GetLogPath("monitor.log"))
}
