package roster

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// headerKeyword marks the roster column in the first row.
const headerKeyword = "npsn"

// XLSXExtractor reads the first sheet of a workbook. If a cell in the first
// row contains "npsn" (any case) that column is read from the second row on;
// otherwise the first column is read from the first row on.
type XLSXExtractor struct{}

// Extract implements Extractor.
func (XLSXExtractor) Extract(data []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableWorkbook, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: no sheets", ErrUnreadableWorkbook)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %w", ErrUnreadableWorkbook, sheets[0], err)
	}
	return columnValues(rows), nil
}

func columnValues(rows [][]string) []string {
	col, start := 0, 0
	if len(rows) > 0 {
		for i, cell := range rows[0] {
			if strings.Contains(strings.ToLower(cell), headerKeyword) {
				col, start = i, 1
				break
			}
		}
	}

	var out []string
	for _, row := range rows[min(start, len(rows)):] {
		if col >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[col]); v != "" {
			out = append(out, v)
		}
	}
	return out
}
