package layout

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/workbook"
)

// Region is a fixed rectangle of a sheet: a header row followed by at most
// RowCount data rows across an inclusive column span such as "Q:S".
type Region struct {
	Name        string
	Sheet       string
	HeaderRow   int // 0-based
	RowCount    int
	Columns     string
	ColumnNames []string
}

// Span returns the 0-based first and last column indices of the region.
func (r Region) Span() (int, int, error) {
	first, last, found := strings.Cut(strings.ToUpper(strings.TrimSpace(r.Columns)), ":")
	if !found {
		last = first
	}

	from, err := excelize.ColumnNameToNumber(first)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: column %q: %w", ErrInvalidRegion, first, err)
	}
	to, err := excelize.ColumnNameToNumber(last)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: column %q: %w", ErrInvalidRegion, last, err)
	}
	if to < from {
		return 0, 0, fmt.Errorf("%w: span %s is reversed", ErrInvalidRegion, r.Columns)
	}
	return from - 1, to - 1, nil
}

// Validate checks the declaration without touching a workbook.
func (r Region) Validate() error {
	if r.HeaderRow < 0 {
		return fmt.Errorf("%w: header row %d", ErrInvalidRegion, r.HeaderRow)
	}
	if r.RowCount <= 0 {
		return fmt.Errorf("%w: row count %d", ErrInvalidRegion, r.RowCount)
	}
	first, last, err := r.Span()
	if err != nil {
		return err
	}
	if len(r.ColumnNames) != last-first+1 {
		return fmt.Errorf("%w: %d column names for span %s", ErrInvalidRegion, len(r.ColumnNames), r.Columns)
	}
	return nil
}

// String renders the region as an A1 range including its header row.
func (r Region) String() string {
	first, last, err := r.Span()
	if err != nil {
		return r.Sheet + "!" + r.Columns
	}
	from, _ := excelize.CoordinatesToCellName(first+1, r.HeaderRow+1)
	to, _ := excelize.CoordinatesToCellName(last+1, r.HeaderRow+1+r.RowCount)
	if r.Sheet == "" {
		return from + ":" + to
	}
	return r.Sheet + "!" + from + ":" + to
}

// RegionExtractor reads declared regions out of a sheet grid.
type RegionExtractor struct{}

// Extract returns the region's data rows relabelled with ColumnNames.
// The header row itself is skipped. Rows whose first column is blank are
// dropped, and a sheet shorter than the region simply yields fewer rows.
func (RegionExtractor) Extract(grid [][]string, region Region) (*workbook.RawTable, error) {
	if err := region.Validate(); err != nil {
		return nil, err
	}
	first, last, _ := region.Span()

	if len(grid) <= region.HeaderRow || workbook.Width(grid) <= last {
		return nil, &LayoutError{
			Diagnostic: Diagnostic{Sheet: region.Sheet, Region: region.String()},
			Err:        ErrRegionRead,
		}
	}

	table := workbook.NewRawTable(region.Sheet, region.ColumnNames)
	end := region.HeaderRow + region.RowCount
	for row := region.HeaderRow + 1; row <= end && row < len(grid); row++ {
		if workbook.Cell(grid, row, first) == "" {
			continue
		}
		values := make([]any, 0, last-first+1)
		for col := first; col <= last; col++ {
			values = append(values, workbook.TextValue(workbook.Cell(grid, row, col)))
		}
		table.Append(row+1, values)
	}
	return table, nil
}

// FixedRegion resolves the consumption table from one declared region.
// It assumes the sheet layout is frozen.
type FixedRegion struct {
	Region Region
}

// NewFixedRegion returns a FixedRegion strategy for region.
func NewFixedRegion(region Region) *FixedRegion {
	return &FixedRegion{Region: region}
}

func (s *FixedRegion) Name() string {
	return KindFixedRegion
}

func (s *FixedRegion) Resolve(ctx context.Context, wb *workbook.Workbook) (*workbook.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	region := s.Region
	sheet, _, err := wb.FindSheet(region.Sheet)
	if err != nil {
		return nil, err
	}
	region.Sheet = sheet

	grid, err := wb.Grid(sheet)
	if err != nil {
		return nil, err
	}

	table, err := RegionExtractor{}.Extract(grid, region)
	if err != nil {
		if le, ok := AsLayoutError(err); ok {
			le.Strategy = s.Name()
		}
		return nil, err
	}
	return table, nil
}

// RegionSet is a group of regions read from the same workbook.
type RegionSet []Region

// ExtractAll reads every region, keyed by Region.Name. The first failing
// region aborts the read.
func (rs RegionSet) ExtractAll(ctx context.Context, wb *workbook.Workbook) (map[string]*workbook.RawTable, error) {
	out := make(map[string]*workbook.RawTable, len(rs))
	for _, region := range rs {
		table, err := NewFixedRegion(region).Resolve(ctx, wb)
		if err != nil {
			return nil, fmt.Errorf("region %s: %w", region.Name, err)
		}
		out[region.Name] = table
	}
	return out, nil
}
