package content

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"mediabrief/internal/domain"
)

const sheetHeaderPrefix = "=== Sheet: "

// extractSpreadsheet serializes every sheet's cell grid into pipe-delimited
// text rows, keeping sheet order, row order and column positions. Each sheet's
// first non-blank row is its header; the workbook needs at least one row below
// a header somewhere.
func extractSpreadsheet(data []byte) (*domain.CanonicalContent, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: opening workbook: %v", domain.ErrEmptyDocument, err)
	}
	defer func() { _ = f.Close() }()

	var rows []string
	records := 0
	for _, sheet := range f.GetSheetList() {
		grid, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
		}
		sheetRows := serializeGrid(grid)
		if len(sheetRows) == 0 {
			continue
		}
		rows = append(rows, sheetHeaderPrefix+sheet+" ===")
		rows = append(rows, sheetRows...)
		records += len(sheetRows) - 1
	}

	if records == 0 {
		return nil, domain.ErrEmptyDocument
	}
	return &domain.CanonicalContent{Rows: rows}, nil
}

func serializeGrid(grid [][]string) []string {
	var out []string
	for _, row := range grid {
		blank := true
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = strings.TrimSpace(cell)
			if cells[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		out = append(out, strings.Join(cells, " | "))
	}
	return out
}

// dataRowCount counts rows that are not sheet boundary markers.
func dataRowCount(rows []string) int {
	n := 0
	for _, r := range rows {
		if !strings.HasPrefix(r, sheetHeaderPrefix) {
			n++
		}
	}
	return n
}
