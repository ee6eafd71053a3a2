// Package snapshot persists the canonical dataset. The current snapshot
// lives at a fixed CSV path; each successful run archives it into a
// timestamped directory, and archive/latest holds the baseline the next
// run compares against.
package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"nygaming/internal/config"
	apperrors "nygaming/internal/errors"
	"nygaming/pkg/contracts/domain"
)

var csvHeader = []string{"Date", "Handle", "GGR", "Brand"}

// Store reads and writes snapshot CSVs and manages the archive layout.
type Store struct {
	logger *slog.Logger
	paths  *config.Paths
}

// NewStore creates a snapshot store over the application paths.
func NewStore(logger *slog.Logger, paths *config.Paths) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger, paths: paths}
}

// SaveCurrent writes the snapshot to the current-snapshot CSV. Snapshots
// are immutable; a new extraction always replaces the file wholesale.
func (s *Store) SaveCurrent(snap *domain.Snapshot) error {
	return s.writeCSV(s.paths.CurrentSnapshotCSV, snap)
}

// LoadCurrent reads the current snapshot CSV.
func (s *Store) LoadCurrent() (*domain.Snapshot, error) {
	return s.readCSV(s.paths.CurrentSnapshotCSV)
}

// LoadPrevious reads the most recently archived snapshot. An absent file
// means a first run and returns (nil, nil); anything else that stops the
// file from loading is a hard comparison failure, never treated as absent.
func (s *Store) LoadPrevious() (*domain.Snapshot, error) {
	path := s.paths.PreviousSnapshotCSV()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		s.logger.Info("no previous snapshot found, first run")
		return nil, nil
	}

	snap, err := s.readCSV(path)
	if err != nil {
		return nil, apperrors.Comparison("previous snapshot is unreadable", err)
	}
	return snap, nil
}

// Archive copies the current snapshot into the timestamped archive
// directory for this run and demotes it to archive/latest, making it the
// baseline for the next comparison.
func (s *Store) Archive(runTime time.Time) (string, error) {
	runDir := s.paths.RunArchiveDir(runTime)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := os.MkdirAll(s.paths.LatestArchiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create latest directory: %w", err)
	}

	src := s.paths.CurrentSnapshotCSV
	if err := copyFile(src, filepath.Join(runDir, config.SnapshotCSVName)); err != nil {
		return "", fmt.Errorf("failed to archive snapshot: %w", err)
	}
	if err := copyFile(src, s.paths.PreviousSnapshotCSV()); err != nil {
		return "", fmt.Errorf("failed to update latest snapshot: %w", err)
	}

	s.logger.Info("archived snapshot",
		slog.String("archive_dir", runDir))

	return runDir, nil
}

// writeCSV writes a snapshot in the canonical column order. Absent handle
// cells are written blank so they round-trip as absent, not zero.
func (s *Store) writeCSV(path string, snap *domain.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range snap.Records {
		handle := ""
		if v, ok := r.Handle.Float(); ok {
			handle = strconv.FormatFloat(v, 'f', -1, 64)
		}
		row := []string{
			r.Date.Format("2006-01-02"),
			handle,
			strconv.FormatFloat(r.GGR, 'f', -1, 64),
			r.Brand,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := writer.Error(); err != nil {
		return err
	}

	s.logger.Info("wrote snapshot",
		slog.String("path", path),
		slog.Int("record_count", snap.RecordCount))

	return nil
}

// readCSV loads a snapshot, rejecting malformed rows.
func (s *Store) readCSV(path string) (*domain.Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, fmt.Errorf("unexpected snapshot header: %v", header)
	}

	var records []domain.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot row: %w", err)
		}

		date, err := time.Parse("2006-01-02", row[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid date %q: %w", line, row[0], err)
		}

		handle := domain.Absent()
		if row[1] != "" {
			v, err := strconv.ParseFloat(row[1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid handle %q: %w", line, row[1], err)
			}
			handle = domain.Value(v)
		}

		ggr, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid GGR %q: %w", line, row[2], err)
		}

		if row[3] == "" {
			return nil, fmt.Errorf("line %d: missing brand", line)
		}

		records = append(records, domain.Record{
			Date:   date,
			Handle: handle,
			GGR:    ggr,
			Brand:  row[3],
		})
	}

	return domain.NewSnapshot(info.ModTime(), records), nil
}

// copyFile copies src to dst, syncing before close.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}

	return out.Sync()
}
