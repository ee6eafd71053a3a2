package domain

import (
	"encoding/json"
	"time"
)

// Cell is an optional float64. Derived metric tables are full of holes
// (no report for a week, zero denominators, missing lookback dates) and a
// hole must stay distinguishable from a legitimate zero, so the zero value
// of Cell is "absent", not 0.
type Cell struct {
	value   float64
	present bool
}

// Value returns a present cell holding v.
func Value(v float64) Cell {
	return Cell{value: v, present: true}
}

// Absent returns an absent cell.
func Absent() Cell {
	return Cell{}
}

// Present reports whether the cell holds a value.
func (c Cell) Present() bool {
	return c.present
}

// Float returns the held value and whether it is present.
func (c Cell) Float() (float64, bool) {
	return c.value, c.present
}

// OrZero returns the held value, or 0 when absent. Used only where the
// policy explicitly treats absence as zero (statewide summation).
func (c Cell) OrZero() float64 {
	return c.value
}

// MarshalJSON encodes an absent cell as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.present {
		return []byte("null"), nil
	}
	return json.Marshal(c.value)
}

// UnmarshalJSON decodes null as absent.
func (c *Cell) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Cell{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Value(v)
	return nil
}

// Metric identifies one of the five derived metric tables.
type Metric string

const (
	MetricHandle    Metric = "Handle"
	MetricGGR       Metric = "GGR"
	MetricHold      Metric = "Hold"
	MetricHandleYoY Metric = "Handle YoY"
	MetricGGRYoY    Metric = "GGR YoY"
)

// Percentage reports whether the metric is a ratio rendered with a
// percentage number format.
func (m Metric) Percentage() bool {
	switch m {
	case MetricHold, MetricHandleYoY, MetricGGRYoY:
		return true
	}
	return false
}

// StatewideColumn is the aggregate column summing all brand columns.
const StatewideColumn = "Statewide"

// Table is a date-by-brand grid for one metric. Dates are held
// most-recent-first; Brands excludes the statewide column and is in stable
// sorted order.
type Table struct {
	Metric Metric      `json:"metric"`
	Dates  []time.Time `json:"dates"`
	Brands []string    `json:"brands"`
	cells  map[tableKey]Cell
}

type tableKey struct {
	date  string
	brand string
}

// NewTable creates an empty table over the given axes. The caller owns the
// ordering of dates (most-recent-first) and brands (sorted).
func NewTable(metric Metric, dates []time.Time, brands []string) *Table {
	return &Table{
		Metric: metric,
		Dates:  dates,
		Brands: brands,
		cells:  make(map[tableKey]Cell, len(dates)*(len(brands)+1)),
	}
}

// Set stores a cell for (date, brand). brand may be StatewideColumn.
func (t *Table) Set(date time.Time, brand string, c Cell) {
	t.cells[tableKey{date: date.Format("2006-01-02"), brand: brand}] = c
}

// Cell returns the cell at (date, brand); unset positions are absent.
func (t *Table) Cell(date time.Time, brand string) Cell {
	return t.cells[tableKey{date: date.Format("2006-01-02"), brand: brand}]
}

// Columns returns the brand columns followed by the statewide column, the
// order sheets are rendered in.
func (t *Table) Columns() []string {
	cols := make([]string, 0, len(t.Brands)+1)
	cols = append(cols, t.Brands...)
	return append(cols, StatewideColumn)
}

// TableSet holds the five derived metric tables in their fixed sheet order.
type TableSet struct {
	Handle    *Table
	GGR       *Table
	Hold      *Table
	HandleYoY *Table
	GGRYoY    *Table
}

// Ordered returns the tables in workbook sheet order.
func (s *TableSet) Ordered() []*Table {
	return []*Table{s.Handle, s.GGR, s.Hold, s.HandleYoY, s.GGRYoY}
}
