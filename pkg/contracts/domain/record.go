package domain

import (
	"fmt"
	"sort"
	"time"
)

// Record represents one weekly observation for a single operator brand:
// the week-ending date, the total amount wagered (handle), and the gross
// gaming revenue reported for that week.
type Record struct {
	Date   time.Time `json:"date" csv:"Date" validate:"required"`
	Handle Cell      `json:"handle" csv:"Handle"`
	GGR    float64   `json:"ggr" csv:"GGR"`
	Brand  string    `json:"brand" csv:"Brand" validate:"required"`
}

// Key returns the identity of the record within a snapshot.
// (Date, Brand) is unique; a duplicate key is a data-integrity error.
func (r Record) Key() RecordKey {
	return RecordKey{Date: r.Date.Format("2006-01-02"), Brand: r.Brand}
}

// RecordKey identifies a record by its week-ending date and brand.
type RecordKey struct {
	Date  string `json:"date"`
	Brand string `json:"brand"`
}

func (k RecordKey) String() string {
	return fmt.Sprintf("%s/%s", k.Date, k.Brand)
}

// Snapshot is one complete, immutable extracted dataset from one
// collection run. Records are ordered by date, then brand.
type Snapshot struct {
	CapturedAt  time.Time `json:"captured_at"`
	RecordCount int       `json:"record_count"`
	Records     []Record  `json:"records"`
}

// NewSnapshot builds a snapshot from records, sorting them by date then
// brand and filling in the metadata fields.
func NewSnapshot(capturedAt time.Time, records []Record) *Snapshot {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].Brand < sorted[j].Brand
	})
	return &Snapshot{
		CapturedAt:  capturedAt,
		RecordCount: len(sorted),
		Records:     sorted,
	}
}

// Brands returns the distinct brand set of the snapshot in sorted order.
func (s *Snapshot) Brands() []string {
	seen := make(map[string]bool)
	var brands []string
	for _, r := range s.Records {
		if !seen[r.Brand] {
			seen[r.Brand] = true
			brands = append(brands, r.Brand)
		}
	}
	sort.Strings(brands)
	return brands
}

// MaxDate returns the most recent week-ending date in the snapshot, or the
// zero time when the snapshot is empty.
func (s *Snapshot) MaxDate() time.Time {
	var max time.Time
	for _, r := range s.Records {
		if r.Date.After(max) {
			max = r.Date
		}
	}
	return max
}

// MinDate returns the earliest week-ending date in the snapshot, or the
// zero time when the snapshot is empty.
func (s *Snapshot) MinDate() time.Time {
	var min time.Time
	for _, r := range s.Records {
		if min.IsZero() || r.Date.Before(min) {
			min = r.Date
		}
	}
	return min
}

// DateRange returns a human-readable "min to max" range for run summaries.
func (s *Snapshot) DateRange() string {
	if len(s.Records) == 0 {
		return "no data"
	}
	return fmt.Sprintf("%s to %s",
		s.MinDate().Format("2006-01-02"),
		s.MaxDate().Format("2006-01-02"))
}

// ByKey indexes the snapshot's records by (date, brand).
func (s *Snapshot) ByKey() map[RecordKey]Record {
	index := make(map[RecordKey]Record, len(s.Records))
	for _, r := range s.Records {
		index[r.Key()] = r
	}
	return index
}
