// Package reporter renders the notification workbook: one sheet per
// derived metric table, percentage formatting on the ratio sheets, and
// blank cells wherever data is absent so "no data" never reads as zero.
package reporter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	apperrors "nygaming/internal/errors"
	"nygaming/pkg/contracts/domain"
)

// percentNumFmt is the builtin "0.00%" number format.
const percentNumFmt = 10

// Reporter renders workbooks and decides whether a run notifies.
type Reporter struct {
	logger *slog.Logger
}

// New creates a reporter.
func New(logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{logger: logger}
}

// ShouldNotify reports whether the comparison warrants a notification.
func (r *Reporter) ShouldNotify(result *domain.ComparisonResult) bool {
	return result != nil && result.HasChanges
}

// Render produces the workbook bytes for the table set: five fixed sheets
// in order Handle, GGR, Hold, Handle YoY, GGR YoY. Absent cells stay
// blank. Rendering a table set with no dates is a generation error.
func (r *Reporter) Render(ctx context.Context, tables *domain.TableSet) ([]byte, error) {
	if tables == nil || tables.Handle == nil || len(tables.Handle.Dates) == 0 {
		return nil, apperrors.ErrEmptySnapshot
	}

	f := excelize.NewFile()
	defer f.Close()

	percentStyle, err := f.NewStyle(&excelize.Style{NumFmt: percentNumFmt})
	if err != nil {
		return nil, apperrors.Render("failed to create percentage style", err)
	}

	for i, table := range tables.Ordered() {
		sheet := string(table.Metric)
		if i == 0 {
			// excelize seeds new workbooks with "Sheet1"
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, apperrors.Render("failed to rename sheet", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, apperrors.Render("failed to create sheet", err)
			}
		}

		if err := r.renderSheet(f, sheet, table, percentStyle); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.Render("failed to serialize workbook", err)
	}

	r.logger.InfoContext(ctx, "rendered workbook",
		slog.Int("sheets", len(tables.Ordered())),
		slog.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}

// renderSheet writes one table: header row, then one row per date with the
// brand columns in stable order and the statewide column last.
func (r *Reporter) renderSheet(f *excelize.File, sheet string, table *domain.Table, percentStyle int) error {
	columns := table.Columns()

	header := append([]string{"Date"}, columns...)
	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return apperrors.Render("invalid header coordinates", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return apperrors.Render("failed to write header", err)
		}
	}

	for rowIdx, date := range table.Dates {
		row := rowIdx + 2
		dateCell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return apperrors.Render("invalid date coordinates", err)
		}
		if err := f.SetCellValue(sheet, dateCell, date.Format("2006-01-02")); err != nil {
			return apperrors.Render("failed to write date", err)
		}

		for colIdx, column := range columns {
			value, present := table.Cell(date, column).Float()
			if !present {
				// Blank, never zero or an error marker
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+2, row)
			if err != nil {
				return apperrors.Render("invalid cell coordinates", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return apperrors.Render("failed to write cell", err)
			}
		}
	}

	if table.Metric.Percentage() && len(table.Dates) > 0 {
		first, err := excelize.CoordinatesToCellName(2, 2)
		if err != nil {
			return apperrors.Render("invalid style coordinates", err)
		}
		last, err := excelize.CoordinatesToCellName(len(columns)+1, len(table.Dates)+1)
		if err != nil {
			return apperrors.Render("invalid style coordinates", err)
		}
		if err := f.SetCellStyle(sheet, first, last, percentStyle); err != nil {
			return apperrors.Render(fmt.Sprintf("failed to style sheet %s", sheet), err)
		}
	}

	return nil
}
