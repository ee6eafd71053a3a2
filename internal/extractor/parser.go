package extractor

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"nygaming/pkg/contracts/domain"
)

// Raw report layout shared by the operator workbooks: a preamble of
// disclaimer rows, then a header row whose first cell contains
// "Week-Ending", then one row per week. Handle and GGR sit at fixed
// offsets from the date column.
const (
	headerMarker    = "Week-Ending"
	dateColumn      = 0
	handleColumn    = 2
	ggrColumn       = 5
	minDataColumns  = 6
)

// dateLayouts are the formats seen across operator files. excelize returns
// formatted cell text, so the same workbook column can surface differently
// depending on the operator's cell styles.
var dateLayouts = []string{
	"2006-01-02",
	"01-02-06",
	"1/2/06",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"2-Jan-06",
}

// ParseFile reads one operator's weekly report and extracts its records,
// tagged with the given brand. Every sheet is scanned; sheets without the
// header marker are skipped.
func ParseFile(logger *slog.Logger, filePath, brand string) ([]domain.Record, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var records []domain.Record

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			logger.Warn("failed to read sheet",
				slog.String("file", filePath),
				slog.String("sheet", sheet),
				slog.String("error", err.Error()))
			continue
		}

		headerRow := findHeaderRow(rows)
		if headerRow < 0 {
			logger.Debug("no header row in sheet",
				slog.String("file", filePath),
				slog.String("sheet", sheet))
			continue
		}

		sheetRecords := parseDataRows(rows[headerRow+1:], brand)
		records = append(records, sheetRecords...)

		logger.Info("extracted sheet",
			slog.String("file", filePath),
			slog.String("sheet", sheet),
			slog.String("brand", brand),
			slog.Int("records", len(sheetRecords)))
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no weekly data found in %s", filePath)
	}

	return records, nil
}

// findHeaderRow locates the row whose first cell carries the week-ending
// marker, or -1 when the sheet has no tabular data.
func findHeaderRow(rows [][]string) int {
	for i, row := range rows {
		if len(row) > 0 && strings.Contains(row[0], headerMarker) {
			return i
		}
	}
	return -1
}

// parseDataRows converts the rows after the header into records. Rows
// without a parseable date or a positive GGR are skipped; a blank handle
// is kept as an absent value, not zero.
func parseDataRows(rows [][]string, brand string) []domain.Record {
	var records []domain.Record

	for _, row := range rows {
		if len(row) < minDataColumns {
			continue
		}

		date, ok := parseDate(row[dateColumn])
		if !ok {
			continue
		}

		ggr, ok := parseAmount(row[ggrColumn])
		if !ok || ggr <= 0 {
			// Zero/negative GGR rows are placeholder weeks in the raw files
			continue
		}

		handle := domain.Absent()
		if v, ok := parseAmount(row[handleColumn]); ok {
			handle = domain.Value(v)
		}

		records = append(records, domain.Record{
			Date:   date,
			Handle: handle,
			GGR:    ggr,
			Brand:  brand,
		})
	}

	return records
}

// parseDate tries the known date layouts against the trimmed cell text.
func parseDate(cell string) (time.Time, bool) {
	text := strings.TrimSpace(cell)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, text); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// parseAmount parses a monetary cell, tolerating thousand separators,
// currency symbols, and accounting-style parentheses for negatives.
func parseAmount(cell string) (float64, bool) {
	text := strings.TrimSpace(cell)
	if text == "" || text == "-" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		negative = true
		text = text[1 : len(text)-1]
	}

	text = strings.NewReplacer(",", "", "$", "", " ", "").Replace(text)

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}
