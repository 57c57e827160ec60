package fixtures

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Block is a rectangle of values written at Origin (an A1 reference).
type Block struct {
	Origin string
	Rows   [][]any
}

// Sheet is one worksheet of a generated workbook.
type Sheet struct {
	Name   string
	Blocks []Block
}

// Rows is shorthand for a sheet with a single block anchored at A1.
func Rows(name string, rows [][]any) Sheet {
	return Sheet{Name: name, Blocks: []Block{{Origin: "A1", Rows: rows}}}
}

// WorkbookBytes renders sheets into an in-memory .xlsx.
func WorkbookBytes(sheets ...Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet.Name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", sheet.Name, err)
		}

		for _, block := range sheet.Blocks {
			if err := writeBlock(f, sheet.Name, block); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeBlock(f *excelize.File, sheet string, block Block) error {
	col, row, err := excelize.CellNameToCoordinates(block.Origin)
	if err != nil {
		return fmt.Errorf("bad origin %q: %w", block.Origin, err)
	}
	for i := range block.Rows {
		cell, err := excelize.CoordinatesToCellName(col, row+i)
		if err != nil {
			return err
		}
		values := block.Rows[i]
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
