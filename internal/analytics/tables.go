// Package analytics computes the derived metric tables from a snapshot:
// Handle and GGR pivots, Hold, and the two year-over-year tables. Like the
// analyzer it is pure computation; the tables are rebuilt from scratch
// each run and only the rendered workbook is ever persisted.
package analytics

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"nygaming/internal/config"
	apperrors "nygaming/internal/errors"
	"nygaming/pkg/contracts/domain"
)

// Calculator builds the five derived metric tables.
type Calculator struct {
	logger       *slog.Logger
	lookbackDays int
}

// NewCalculator creates a calculator with the given policy configuration.
func NewCalculator(logger *slog.Logger, cfg config.AnalyzerConfig) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{logger: logger, lookbackDays: cfg.YoYLookbackDays}
}

// BuildTables pivots the snapshot into the five tables. An empty snapshot
// cannot produce a report and is rejected up front.
func (c *Calculator) BuildTables(ctx context.Context, snap *domain.Snapshot) (*domain.TableSet, error) {
	if snap == nil || len(snap.Records) == 0 {
		return nil, apperrors.ErrEmptySnapshot
	}

	dates := distinctDatesDesc(snap)
	brands := snap.Brands()

	handle := domain.NewTable(domain.MetricHandle, dates, brands)
	ggr := domain.NewTable(domain.MetricGGR, dates, brands)

	for _, r := range snap.Records {
		handle.Set(r.Date, r.Brand, r.Handle)
		ggr.Set(r.Date, r.Brand, domain.Value(r.GGR))
	}

	fillStatewide(handle)
	fillStatewide(ggr)

	set := &domain.TableSet{
		Handle:    handle,
		GGR:       ggr,
		Hold:      c.holdTable(handle, ggr),
		HandleYoY: c.yoyTable(domain.MetricHandleYoY, handle),
		GGRYoY:    c.yoyTable(domain.MetricGGRYoY, ggr),
	}

	c.logger.InfoContext(ctx, "built metric tables",
		slog.Int("dates", len(dates)),
		slog.Int("brands", len(brands)))

	return set, nil
}

// fillStatewide sums the brand columns into the statewide column. Absence
// does not propagate to the aggregate: an absent brand cell counts as
// zero, so the statewide value is present whenever the date exists.
func fillStatewide(t *domain.Table) {
	for _, date := range t.Dates {
		total := 0.0
		for _, brand := range t.Brands {
			total += t.Cell(date, brand).OrZero()
		}
		t.Set(date, domain.StatewideColumn, domain.Value(total))
	}
}

// holdTable computes GGR/Handle per cell. A zero or absent handle leaves
// the cell absent; division never panics or produces an error marker.
func (c *Calculator) holdTable(handle, ggr *domain.Table) *domain.Table {
	hold := domain.NewTable(domain.MetricHold, handle.Dates, handle.Brands)

	for _, date := range hold.Dates {
		for _, col := range hold.Columns() {
			h, hOK := handle.Cell(date, col).Float()
			g, gOK := ggr.Cell(date, col).Float()
			if !hOK || !gOK || h == 0 {
				continue
			}
			hold.Set(date, col, domain.Value(g/h))
		}
	}

	return hold
}

// yoyTable computes the year-over-year percentage change for every cell of
// the source table, including the statewide column, against the value at
// the exact lookback date. No record at the lookback date, or a zero
// denominator, leaves the cell absent.
func (c *Calculator) yoyTable(metric domain.Metric, source *domain.Table) *domain.Table {
	yoy := domain.NewTable(metric, source.Dates, source.Brands)

	for _, date := range yoy.Dates {
		lookback := date.AddDate(0, 0, -c.lookbackDays)
		for _, col := range yoy.Columns() {
			current, ok := source.Cell(date, col).Float()
			if !ok {
				continue
			}
			base, ok := source.Cell(lookback, col).Float()
			if !ok || base == 0 {
				continue
			}
			yoy.Set(date, col, domain.Value((current-base)/base))
		}
	}

	return yoy
}

// distinctDatesDesc returns the snapshot's distinct dates most-recent-first,
// the presentation order every table carries.
func distinctDatesDesc(snap *domain.Snapshot) []time.Time {
	seen := make(map[string]bool)
	var dates []time.Time
	for _, r := range snap.Records {
		key := r.Date.Format("2006-01-02")
		if !seen[key] {
			seen[key] = true
			dates = append(dates, r.Date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	return dates
}
