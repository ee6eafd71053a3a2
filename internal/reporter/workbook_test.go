package reporter

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "nygaming/internal/errors"
	"nygaming/pkg/contracts/domain"
)

func week(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testTables() *domain.TableSet {
	dates := []time.Time{week("2024-01-14"), week("2024-01-07")}
	brands := []string{"DraftKings", "FanDuel"}

	handle := domain.NewTable(domain.MetricHandle, dates, brands)
	handle.Set(week("2024-01-07"), "FanDuel", domain.Value(1000000))
	handle.Set(week("2024-01-07"), "DraftKings", domain.Value(800000))
	handle.Set(week("2024-01-14"), "FanDuel", domain.Value(1100000))
	handle.Set(week("2024-01-07"), domain.StatewideColumn, domain.Value(1800000))
	handle.Set(week("2024-01-14"), domain.StatewideColumn, domain.Value(1100000))

	ggr := domain.NewTable(domain.MetricGGR, dates, brands)
	ggr.Set(week("2024-01-07"), "FanDuel", domain.Value(90000))
	ggr.Set(week("2024-01-07"), "DraftKings", domain.Value(70000))
	ggr.Set(week("2024-01-14"), "FanDuel", domain.Value(100000))
	ggr.Set(week("2024-01-07"), domain.StatewideColumn, domain.Value(160000))
	ggr.Set(week("2024-01-14"), domain.StatewideColumn, domain.Value(100000))

	hold := domain.NewTable(domain.MetricHold, dates, brands)
	hold.Set(week("2024-01-07"), "FanDuel", domain.Value(0.09))
	hold.Set(week("2024-01-07"), domain.StatewideColumn, domain.Value(0.0889))

	handleYoY := domain.NewTable(domain.MetricHandleYoY, dates, brands)
	ggrYoY := domain.NewTable(domain.MetricGGRYoY, dates, brands)

	return &domain.TableSet{
		Handle:    handle,
		GGR:       ggr,
		Hold:      hold,
		HandleYoY: handleYoY,
		GGRYoY:    ggrYoY,
	}
}

func TestRenderEmptyTables(t *testing.T) {
	r := New(nil)

	_, err := r.Render(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrEmptySnapshot)

	empty := &domain.TableSet{
		Handle:    domain.NewTable(domain.MetricHandle, nil, nil),
		GGR:       domain.NewTable(domain.MetricGGR, nil, nil),
		Hold:      domain.NewTable(domain.MetricHold, nil, nil),
		HandleYoY: domain.NewTable(domain.MetricHandleYoY, nil, nil),
		GGRYoY:    domain.NewTable(domain.MetricGGRYoY, nil, nil),
	}
	_, err = r.Render(context.Background(), empty)
	assert.ErrorIs(t, err, apperrors.ErrEmptySnapshot)
}

func TestRenderSheetLayout(t *testing.T) {
	data, err := New(nil).Render(context.Background(), testTables())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Handle", "GGR", "Hold", "Handle YoY", "GGR YoY"}, f.GetSheetList())

	rows, err := f.GetRows("Handle")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)

	assert.Equal(t, []string{"Date", "DraftKings", "FanDuel", "Statewide"}, rows[0])

	// Most recent date first.
	assert.Equal(t, "2024-01-14", rows[1][0])
	assert.Equal(t, "2024-01-07", rows[2][0])

	fanduel, err := f.GetCellValue("Handle", "C3")
	require.NoError(t, err)
	assert.Equal(t, "1000000", fanduel)
}

func TestRenderAbsentCellsStayBlank(t *testing.T) {
	data, err := New(nil).Render(context.Background(), testTables())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	// DraftKings did not report for the 14th.
	v, err := f.GetCellValue("Handle", "B2")
	require.NoError(t, err)
	assert.Empty(t, v)

	// The whole YoY grid is absent here; the sheet still has its header.
	rows, err := f.GetRows("Handle YoY")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "Date", rows[0][0])
}

func TestRenderPercentFormatting(t *testing.T) {
	data, err := New(nil).Render(context.Background(), testTables())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	styleID, err := f.GetCellStyle("Hold", "C3")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	assert.Equal(t, 10, style.NumFmt)

	// Value sheets stay unformatted.
	plainID, err := f.GetCellStyle("Handle", "C3")
	require.NoError(t, err)
	plain, err := f.GetStyle(plainID)
	require.NoError(t, err)
	assert.Equal(t, 0, plain.NumFmt)
}

func TestShouldNotify(t *testing.T) {
	r := New(nil)

	assert.False(t, r.ShouldNotify(nil))
	assert.False(t, r.ShouldNotify(&domain.ComparisonResult{HasChanges: false}))
	assert.True(t, r.ShouldNotify(&domain.ComparisonResult{HasChanges: true}))
}
