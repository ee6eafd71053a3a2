package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"nygaming/pkg/contracts/domain"
)

// RunEntry is one change-log record: the run's comparison result plus
// identification. The log is append-only and audit-only; comparison never
// reads it back.
type RunEntry struct {
	Timestamp time.Time                `json:"timestamp"`
	RunID     string                   `json:"run_id"`
	Result    *domain.ComparisonResult `json:"comparison"`
	Warnings  []string                 `json:"warnings,omitempty"`
}

// ChangeLog is the structured record of every run's comparison result,
// stored as a JSON array capped to the most recent entries.
type ChangeLog struct {
	path       string
	maxEntries int
}

// NewChangeLog creates a change log at path retaining maxEntries entries.
func NewChangeLog(path string, maxEntries int) *ChangeLog {
	return &ChangeLog{path: path, maxEntries: maxEntries}
}

// Append adds an entry, trimming the log to the retention cap.
func (l *ChangeLog) Append(entry RunEntry) error {
	entries, err := l.Entries()
	if err != nil {
		return err
	}

	entries = append(entries, entry)
	if len(entries) > l.maxEntries {
		entries = entries[len(entries)-l.maxEntries:]
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode change log: %w", err)
	}

	if err := os.WriteFile(l.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write change log: %w", err)
	}

	return nil
}

// Entries reads the log; an absent file is an empty log.
func (l *ChangeLog) Entries() ([]RunEntry, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read change log: %w", err)
	}

	var entries []RunEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode change log: %w", err)
	}
	return entries, nil
}
