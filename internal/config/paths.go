package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations: raw downloads,
// the canonical snapshot CSV, the timestamped archive, generated
// workbooks, and logs.
type Paths struct {
	ExecutableDir string
	DataDir       string
	DownloadsDir  string
	ReportsDir    string
	ArchiveDir    string
	LogsDir       string

	// Well-known files
	CurrentSnapshotCSV string
	ChangeLogFile      string
	LatestArchiveDir   string
}

// GetPaths returns the application paths relative to the executable
// location. Paths are never resolved against the working directory; the
// scheduler invokes the binary from an arbitrary cwd.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return PathsFrom(filepath.Dir(exe)), nil
}

// PathsFrom builds the path set rooted at the given base directory.
// Split out from GetPaths so tests can root everything in a temp dir.
//
// Directory structure:
//
//	base/
//	  ├── data/
//	  │   ├── downloads/<run timestamp>/   (raw Excel files)
//	  │   ├── ny_gaming_data.csv           (current snapshot)
//	  │   ├── data_changes.json            (append-only change log)
//	  │   ├── archive/<run timestamp>/     (archived snapshots)
//	  │   ├── archive/latest/              (previous-snapshot pointer)
//	  │   └── reports/                     (generated workbooks)
//	  └── logs/
func PathsFrom(baseDir string) *Paths {
	dataDir := filepath.Join(baseDir, "data")
	archiveDir := filepath.Join(dataDir, "archive")

	return &Paths{
		ExecutableDir: baseDir,
		DataDir:       dataDir,
		DownloadsDir:  filepath.Join(dataDir, "downloads"),
		ReportsDir:    filepath.Join(dataDir, "reports"),
		ArchiveDir:    archiveDir,
		LogsDir:       filepath.Join(baseDir, "logs"),

		CurrentSnapshotCSV: filepath.Join(dataDir, SnapshotCSVName),
		ChangeLogFile:      filepath.Join(dataDir, ChangeLogName),
		LatestArchiveDir:   filepath.Join(archiveDir, LatestArchiveName),
	}
}

// EnsureDirectories creates all required directories.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.DataDir,
		p.DownloadsDir,
		p.ReportsDir,
		p.ArchiveDir,
		p.LogsDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// RunDownloadDir returns the per-run directory raw files are fetched into.
func (p *Paths) RunDownloadDir(runTime time.Time) string {
	return filepath.Join(p.DownloadsDir, runTime.Format(ArchiveTimestampLayout))
}

// RunArchiveDir returns the timestamped archive directory for a run.
func (p *Paths) RunArchiveDir(runTime time.Time) string {
	return filepath.Join(p.ArchiveDir, runTime.Format(ArchiveTimestampLayout))
}

// WorkbookPath returns the deterministic per-run workbook file path.
func (p *Paths) WorkbookPath(runTime time.Time) string {
	name := fmt.Sprintf("%s_%s.xlsx", WorkbookPrefix, runTime.Format(ArchiveTimestampLayout))
	return filepath.Join(p.ReportsDir, name)
}

// GetLogPath returns a path within the logs directory.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// PreviousSnapshotCSV returns the path the previous snapshot is read from.
func (p *Paths) PreviousSnapshotCSV() string {
	return filepath.Join(p.LatestArchiveDir, SnapshotCSVName)
}
