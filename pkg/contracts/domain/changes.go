package domain

import (
	"fmt"
	"time"
)

// ChangeType identifies the kind of change detected between two snapshots.
type ChangeType string

const (
	ChangeNewWeekData        ChangeType = "new_week_data"
	ChangeSignificantGGR     ChangeType = "significant_ggr_change"
	ChangeBrandAdded         ChangeType = "brand_added"
	ChangeBrandRemoved       ChangeType = "brand_removed"
	ChangeRecordCountChanged ChangeType = "record_count_changed"
)

// ChangeEvent is one detected change. Only the fields relevant to the
// event's type are populated; Description is always set and is what the
// notification body shows.
type ChangeEvent struct {
	Type        ChangeType `json:"type"`
	Description string     `json:"description"`
	Brand       string     `json:"brand,omitempty"`
	Date        string     `json:"date,omitempty"`
	OldGGR      float64    `json:"old_ggr,omitempty"`
	NewGGR      float64    `json:"new_ggr,omitempty"`
	PctChange   float64    `json:"pct_change,omitempty"`
	OldCount    int        `json:"old_count,omitempty"`
	NewCount    int        `json:"new_count,omitempty"`
}

// NewWeekDataEvent marks the arrival of a week not seen in the previous
// snapshot. On a first run it covers the whole snapshot.
func NewWeekDataEvent(s *Snapshot) ChangeEvent {
	return ChangeEvent{
		Type: ChangeNewWeekData,
		Description: fmt.Sprintf("New weekly data available (%d records, %s)",
			s.RecordCount, s.DateRange()),
		Date: s.MaxDate().Format("2006-01-02"),
	}
}

// SignificantGGRChangeEvent records a GGR revision beyond the configured
// threshold for one (date, brand) key.
func SignificantGGRChangeEvent(brand string, date time.Time, oldGGR, newGGR, pctChange float64) ChangeEvent {
	return ChangeEvent{
		Type: ChangeSignificantGGR,
		Description: fmt.Sprintf("%s: GGR changed by %.1f%% ($%.0f -> $%.0f) for week ending %s",
			brand, pctChange*100, oldGGR, newGGR, date.Format("2006-01-02")),
		Brand:     brand,
		Date:      date.Format("2006-01-02"),
		OldGGR:    oldGGR,
		NewGGR:    newGGR,
		PctChange: pctChange,
	}
}

// BrandAddedEvent records a brand present in the current snapshot only.
func BrandAddedEvent(brand string) ChangeEvent {
	return ChangeEvent{
		Type:        ChangeBrandAdded,
		Description: fmt.Sprintf("New brand detected: %s", brand),
		Brand:       brand,
	}
}

// BrandRemovedEvent records a brand present in the previous snapshot only.
func BrandRemovedEvent(brand string) ChangeEvent {
	return ChangeEvent{
		Type:        ChangeBrandRemoved,
		Description: fmt.Sprintf("Brand removed: %s", brand),
		Brand:       brand,
	}
}

// RecordCountChangedEvent records a difference in total record counts.
func RecordCountChangedEvent(oldCount, newCount int) ChangeEvent {
	return ChangeEvent{
		Type:        ChangeRecordCountChanged,
		Description: fmt.Sprintf("Total records changed from %d to %d", oldCount, newCount),
		OldCount:    oldCount,
		NewCount:    newCount,
	}
}

// ComparisonResult aggregates the changes detected between the current and
// previous snapshots, plus the summary fields the notification reports.
type ComparisonResult struct {
	IsNewData    bool          `json:"is_new_data"`
	TotalRecords int           `json:"total_records"`
	DateRange    string        `json:"date_range"`
	BrandCount   int           `json:"brand_count"`
	Events       []ChangeEvent `json:"changes"`
	HasChanges   bool          `json:"has_changes"`
}

// EventCount returns the number of detected change events.
func (r *ComparisonResult) EventCount() int {
	return len(r.Events)
}

// EventsOfType filters the event list by type.
func (r *ComparisonResult) EventsOfType(t ChangeType) []ChangeEvent {
	var out []ChangeEvent
	for _, e := range r.Events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
