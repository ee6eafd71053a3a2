// Package analyzer owns change detection between the current and previous
// snapshots. It is pure computation: no I/O, no shared state, identical
// inputs always produce identical results.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"nygaming/internal/config"
	apperrors "nygaming/internal/errors"
	"nygaming/pkg/contracts/domain"
)

// Analyzer compares snapshots under the configured change policy.
type Analyzer struct {
	logger    *slog.Logger
	threshold float64
}

// New creates an analyzer with the given policy configuration.
func New(logger *slog.Logger, cfg config.AnalyzerConfig) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger, threshold: cfg.GGRChangeThreshold}
}

// Compare detects changes between the current snapshot and the previous
// one. previous may be nil (first run), which bootstraps history with a
// single new-data event. Both snapshots are validated first; a malformed
// record fails the whole comparison, there is no partial result.
func (a *Analyzer) Compare(ctx context.Context, current, previous *domain.Snapshot) (*domain.ComparisonResult, error) {
	if err := validateRecords(current); err != nil {
		return nil, err
	}

	result := &domain.ComparisonResult{
		TotalRecords: current.RecordCount,
		DateRange:    current.DateRange(),
		BrandCount:   len(current.Brands()),
	}

	if previous == nil {
		a.logger.InfoContext(ctx, "no previous snapshot, treating as new data")
		result.IsNewData = true
		result.Events = []domain.ChangeEvent{domain.NewWeekDataEvent(current)}
		result.HasChanges = true
		return result, nil
	}

	if err := validateRecords(previous); err != nil {
		return nil, err
	}

	var events []domain.ChangeEvent

	// The most recent week's first appearance is itself a change, whether
	// or not anything else moved.
	if current.MaxDate().After(previous.MaxDate()) {
		events = append(events, domain.NewWeekDataEvent(current))
	}

	events = append(events, a.ggrChanges(current, previous)...)
	events = append(events, brandChanges(current, previous)...)

	if current.RecordCount != previous.RecordCount {
		events = append(events, domain.RecordCountChangedEvent(previous.RecordCount, current.RecordCount))
	}

	result.Events = events
	result.HasChanges = len(events) > 0

	a.logger.InfoContext(ctx, "comparison complete",
		slog.Bool("has_changes", result.HasChanges),
		slog.Int("event_count", len(events)))

	return result, nil
}

// ggrChanges emits a significant-change event for every (date, brand) key
// present in both snapshots whose GGR moved beyond the threshold. A zero
// old value leaves the percentage undefined and emits nothing.
func (a *Analyzer) ggrChanges(current, previous *domain.Snapshot) []domain.ChangeEvent {
	prevByKey := previous.ByKey()

	var events []domain.ChangeEvent
	for _, rec := range current.Records {
		old, ok := prevByKey[rec.Key()]
		if !ok || old.GGR == 0 {
			continue
		}
		pct := (rec.GGR - old.GGR) / old.GGR
		if pct > a.threshold || pct < -a.threshold {
			events = append(events, domain.SignificantGGRChangeEvent(
				rec.Brand, rec.Date, old.GGR, rec.GGR, pct))
		}
	}

	// Records are already date-then-brand ordered, so events inherit a
	// deterministic order.
	return events
}

// brandChanges diffs the distinct brand sets. Added brands sort before
// removed ones, each alphabetically.
func brandChanges(current, previous *domain.Snapshot) []domain.ChangeEvent {
	currBrands := toSet(current.Brands())
	prevBrands := toSet(previous.Brands())

	var added, removed []string
	for b := range currBrands {
		if !prevBrands[b] {
			added = append(added, b)
		}
	}
	for b := range prevBrands {
		if !currBrands[b] {
			removed = append(removed, b)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)

	var events []domain.ChangeEvent
	for _, b := range added {
		events = append(events, domain.BrandAddedEvent(b))
	}
	for _, b := range removed {
		events = append(events, domain.BrandRemovedEvent(b))
	}
	return events
}

// validateRecords rejects malformed records before comparison: a missing
// date, brand, or GGR, or a duplicate (date, brand) key.
func validateRecords(s *domain.Snapshot) error {
	seen := make(map[domain.RecordKey]int, len(s.Records))
	for i, r := range s.Records {
		switch {
		case r.Date.IsZero():
			return apperrors.Validation("record is missing date", fmt.Sprintf("row %d (brand %q)", i, r.Brand))
		case r.Brand == "":
			return apperrors.Validation("record is missing brand", fmt.Sprintf("row %d (date %s)", i, r.Date.Format("2006-01-02")))
		case r.GGR == 0:
			return apperrors.Validation("record is missing GGR", fmt.Sprintf("row %d (%s)", i, r.Key()))
		}
		if prev, dup := seen[r.Key()]; dup {
			return apperrors.Validation("duplicate (date, brand) key in snapshot",
				fmt.Sprintf("rows %d and %d share key %s", prev, i, r.Key()))
		}
		seen[r.Key()] = i
	}
	return nil
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
