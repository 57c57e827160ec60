// Package workbook opens uploaded spreadsheets and exposes their sheets as
// raw string grids for the layout strategies.
package workbook

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnreadable is returned when the upload is not a workbook excelize can decode.
	ErrUnreadable = errors.New("workbook is unreadable")
	// ErrNoSheets is returned for a workbook without any worksheet.
	ErrNoSheets = errors.New("workbook has no sheets")
)

// Options controls how cell values are read.
type Options struct {
	// FormattedValues returns the display text of each cell (number formats
	// applied) instead of the stored raw value. Raw values keep numbers in
	// their stored form so locale-specific parsing stays in the coercer.
	FormattedValues bool
}

// Workbook wraps an excelize file and caches the grids it has read.
type Workbook struct {
	file  *excelize.File
	opts  Options
	grids map[string][][]string
}

// Open decodes a workbook from r.
func Open(r io.Reader, opts Options) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return &Workbook{file: f, opts: opts, grids: make(map[string][][]string)}, nil
}

// OpenFile decodes the workbook stored at path.
func OpenFile(path string, opts Options) (*Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Open(f, opts)
}

// Close releases the temporary files excelize may have created.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// SheetList returns the worksheet names in workbook order.
func (w *Workbook) SheetList() []string {
	return w.file.GetSheetList()
}

// FindSheet returns the sheet to read for a preferred name.
// An exact match wins, then a case-insensitive one, then the first sheet.
// The second return value reports whether the preferred sheet was found.
func (w *Workbook) FindSheet(preferred string) (string, bool, error) {
	sheets := w.file.GetSheetList()
	if len(sheets) == 0 {
		return "", false, ErrNoSheets
	}
	if preferred == "" {
		return sheets[0], true, nil
	}

	for _, sheet := range sheets {
		if sheet == preferred {
			return sheet, true, nil
		}
	}
	want := strings.TrimSpace(preferred)
	for _, sheet := range sheets {
		if strings.EqualFold(strings.TrimSpace(sheet), want) {
			return sheet, true, nil
		}
	}

	return sheets[0], false, nil
}

// Grid returns every row of sheet as cell text. Rows may be ragged because
// trailing empty cells are not materialised.
func (w *Workbook) Grid(sheet string) ([][]string, error) {
	if grid, ok := w.grids[sheet]; ok {
		return grid, nil
	}

	rows, err := w.file.GetRows(sheet, excelize.Options{RawCellValue: !w.opts.FormattedValues})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %w", ErrUnreadable, sheet, err)
	}

	w.grids[sheet] = rows
	return rows, nil
}

// Width returns the widest row length of a grid.
func Width(grid [][]string) int {
	width := 0
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// Cell returns the trimmed text at row/col, or "" when the grid is shorter.
func Cell(grid [][]string, row, col int) string {
	if row < 0 || row >= len(grid) {
		return ""
	}
	if col < 0 || col >= len(grid[row]) {
		return ""
	}
	return strings.TrimSpace(grid[row][col])
}
