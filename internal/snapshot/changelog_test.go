package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nygaming/pkg/contracts/domain"
)

func testEntry(runID string) RunEntry {
	return RunEntry{
		Timestamp: time.Date(2024, 1, 15, 6, 30, 0, 0, time.UTC),
		RunID:     runID,
		Result: &domain.ComparisonResult{
			TotalRecords: 10,
			DateRange:    "2024-01-07 to 2024-01-14",
			HasChanges:   true,
			Events: []domain.ChangeEvent{
				domain.BrandAddedEvent("Fanatics"),
			},
		},
	}
}

func TestChangeLogAppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data_changes.json")
	log := NewChangeLog(path, 100)

	require.NoError(t, log.Append(testEntry("run-1")))
	require.NoError(t, log.Append(testEntry("run-2")))

	entries, err := log.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "run-1", entries[0].RunID)
	assert.Equal(t, "run-2", entries[1].RunID)

	require.NotNil(t, entries[1].Result)
	assert.True(t, entries[1].Result.HasChanges)
	require.Len(t, entries[1].Result.Events, 1)
	assert.Equal(t, domain.ChangeBrandAdded, entries[1].Result.Events[0].Type)
}

func TestChangeLogEmptyWhenAbsent(t *testing.T) {
	log := NewChangeLog(filepath.Join(t.TempDir(), "missing.json"), 100)

	entries, err := log.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestChangeLogRetentionCap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data_changes.json")
	log := NewChangeLog(path, 5)

	for i := 0; i < 8; i++ {
		require.NoError(t, log.Append(testEntry(fmt.Sprintf("run-%d", i))))
	}

	entries, err := log.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 5)
	// Oldest entries fall off first.
	assert.Equal(t, "run-3", entries[0].RunID)
	assert.Equal(t, "run-7", entries[4].RunID)
}

func TestChangeLogCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data_changes.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	log := NewChangeLog(path, 100)
	_, err := log.Entries()
	assert.Error(t, err)
}
