// Package extractor normalizes the heterogeneous operator report layouts
// into the canonical row-oriented dataset. Each operator file is handled
// by the shared weekly-report parser; the extractor composes the
// per-source results into one validated snapshot.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "nygaming/internal/errors"
	"nygaming/pkg/contracts/domain"
)

// Extractor builds canonical snapshots from a directory of raw reports.
type Extractor struct {
	logger   *slog.Logger
	sources  map[string]domain.ReportSource
	validate *validator.Validate
	now      func() time.Time
}

// New creates an extractor over the given source catalog.
func New(logger *slog.Logger, sources []domain.ReportSource) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		logger:   logger,
		sources:  domain.SourceByFilename(sources),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
}

// ExtractAll parses every known report file in dir into one snapshot.
// Files from the catalog that are missing (a failed download) are simply
// absent from the snapshot; files that exist but cannot be parsed fail the
// extraction. A directory with no usable report at all is an error.
func (e *Extractor) ExtractAll(ctx context.Context, dir string) (*domain.Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read reports directory: %w", err)
	}

	var records []domain.Record
	parsed := 0

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "~$") {
			continue
		}
		src, known := e.sources[entry.Name()]
		if !known {
			e.logger.DebugContext(ctx, "skipping unrecognized file",
				slog.String("file", entry.Name()))
			continue
		}

		fileRecords, err := ParseFile(e.logger, filepath.Join(dir, entry.Name()), src.Brand)
		if err != nil {
			return nil, fmt.Errorf("failed to extract %s: %w", src.Brand, err)
		}
		records = append(records, fileRecords...)
		parsed++
	}

	if parsed == 0 {
		return nil, fmt.Errorf("no operator reports found in %s", dir)
	}

	snapshot := domain.NewSnapshot(e.now(), records)
	if err := e.ValidateSnapshot(snapshot); err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "extraction complete",
		slog.Int("files_parsed", parsed),
		slog.Int("record_count", snapshot.RecordCount),
		slog.Int("brand_count", len(snapshot.Brands())),
		slog.String("date_range", snapshot.DateRange()))

	return snapshot, nil
}

// ValidateSnapshot rejects malformed records (missing date, brand, or GGR)
// and duplicate (date, brand) keys before the snapshot enters the store.
func (e *Extractor) ValidateSnapshot(s *domain.Snapshot) error {
	seen := make(map[domain.RecordKey]int, len(s.Records))

	for i, r := range s.Records {
		if err := e.validate.Struct(r); err != nil {
			return apperrors.Validation("record is missing required fields",
				fmt.Sprintf("row %d (%s): %v", i, r.Key(), err))
		}
		if r.GGR == 0 {
			return apperrors.Validation("record is missing GGR",
				fmt.Sprintf("row %d (%s)", i, r.Key()))
		}
		if prev, dup := seen[r.Key()]; dup {
			return apperrors.Validation("duplicate (date, brand) key in snapshot",
				fmt.Sprintf("rows %d and %d share key %s", prev, i, r.Key()))
		}
		seen[r.Key()] = i
	}

	return nil
}
