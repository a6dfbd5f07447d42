package services

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrMissingSheet is returned when the workbook has no usable sheet.
	ErrMissingSheet = errors.New("workbook has no usable sheet")
	// ErrEmptySheet is returned when the selected sheet has no data rows.
	ErrEmptySheet = errors.New("sheet has no data rows")
)

// preferredSheetLabels are the sheet names the EPI planners use for the
// import tab; matching is case-insensitive. When none matches, the first
// sheet wins.
var preferredSheetLabels = []string{"organizar"}

// SpreadsheetRow is one physical data row, mapped header label -> raw cell
// value. Blank cells are present with an explicit "" so forward-fill can tell
// "not provided" apart from a missing key.
type SpreadsheetRow struct {
	Number int // physical sheet row (the header is row 1)
	Cells  map[string]string
}

// Get returns the raw value under the given header label ("" when absent).
func (r SpreadsheetRow) Get(header string) string {
	return r.Cells[header]
}

// ReadWorkbook decodes an uploaded spreadsheet into an ordered sequence of
// SpreadsheetRows. Merged-cell rectangles are resolved before row extraction:
// the top-left value is copied into every covered cell that does not already
// hold one, otherwise every non-top-left cell inside a merge reads as empty.
func ReadWorkbook(data []byte) ([]SpreadsheetRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}
	defer f.Close()

	sheetName, err := selectSheet(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("error reading rows from sheet %s: %w", sheetName, err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptySheet
	}

	headers := rows[0]
	grid := resolveMergedRegions(f, sheetName, rows)

	out := make([]SpreadsheetRow, 0, len(grid)-1)
	for i := 1; i < len(grid); i++ {
		cells := make(map[string]string, len(headers))
		empty := true
		for j, header := range headers {
			if header == "" {
				continue
			}
			if j < len(grid[i]) {
				cells[header] = grid[i][j]
			} else {
				cells[header] = ""
			}
			if strings.TrimSpace(cells[header]) != "" {
				empty = false
			}
		}
		// Fully blank separator rows are not data.
		if empty {
			continue
		}
		out = append(out, SpreadsheetRow{Number: i + 1, Cells: cells})
	}
	if len(out) == 0 {
		return nil, ErrEmptySheet
	}
	return out, nil
}

func selectSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", ErrMissingSheet
	}
	for _, sheet := range sheets {
		for _, label := range preferredSheetLabels {
			if strings.Contains(strings.ToLower(sheet), label) {
				return sheet, nil
			}
		}
	}
	return sheets[0], nil
}

// resolveMergedRegions propagates the top-left value of every declared merge
// rectangle into the covered cells of the row matrix. Cells that already hold
// a value are left alone.
func resolveMergedRegions(f *excelize.File, sheetName string, rows [][]string) [][]string {
	merges, err := f.GetMergeCells(sheetName)
	if err != nil {
		return rows
	}

	for _, mc := range merges {
		startCol, startRow, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
		if err != nil {
			continue
		}
		endCol, endRow, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err != nil {
			continue
		}

		value := cellAt(rows, startRow-1, startCol-1)
		if value == "" {
			continue
		}

		for r := startRow - 1; r <= endRow-1 && r < len(rows); r++ {
			for c := startCol - 1; c <= endCol-1; c++ {
				for len(rows[r]) <= c {
					rows[r] = append(rows[r], "")
				}
				if rows[r][c] == "" {
					rows[r][c] = value
				}
			}
		}
	}
	return rows
}

func cellAt(rows [][]string, r, c int) string {
	if r < 0 || r >= len(rows) {
		return ""
	}
	if c < 0 || c >= len(rows[r]) {
		return ""
	}
	return rows[r][c]
}
