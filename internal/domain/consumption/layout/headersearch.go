package layout

import (
	"context"
	"strconv"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/workbook"
)

// AutoDetect asks HeaderSearch to find the header row itself.
const AutoDetect = -1

const defaultScanRows = 30

// HeaderSearch resolves columns by header text rather than position, so it
// survives inserted or reordered columns.
type HeaderSearch struct {
	Sheet     string
	HeaderRow int
	ScanRows  int

	resolver *ColumnResolver
	matcher  *ahocorasick.Matcher
}

// NewHeaderSearch creates a header search over sheet. An empty sheet name
// reads the first sheet; headerRow AutoDetect scans for the header.
func NewHeaderSearch(sheet string, headerRow int, aliases []FieldAlias) *HeaderSearch {
	resolver := NewColumnResolver(aliases)

	var dictionary []string
	for _, alias := range resolver.NormalizedAliases() {
		if alias != "" {
			dictionary = append(dictionary, alias)
		}
	}

	return &HeaderSearch{
		Sheet:     sheet,
		HeaderRow: headerRow,
		ScanRows:  defaultScanRows,
		resolver:  resolver,
		matcher:   ahocorasick.NewStringMatcher(dictionary),
	}
}

func (s *HeaderSearch) Name() string {
	return KindHeaderSearch
}

func (s *HeaderSearch) Resolve(ctx context.Context, wb *workbook.Workbook) (*workbook.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sheet, _, err := wb.FindSheet(s.Sheet)
	if err != nil {
		return nil, err
	}
	grid, err := wb.Grid(sheet)
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return nil, &LayoutError{Strategy: s.Name(), Diagnostic: Diagnostic{Sheet: sheet}, Err: ErrEmptySheet}
	}

	headerRow := s.HeaderRow
	if headerRow < 0 {
		headerRow = s.detectHeaderRow(grid)
	}
	if headerRow >= len(grid) {
		return nil, &LayoutError{
			Strategy:   s.Name(),
			Diagnostic: Diagnostic{Sheet: sheet, Region: "row " + strconv.Itoa(headerRow+1)},
			Err:        ErrRegionRead,
		}
	}

	headers := rowText(grid, headerRow)
	mapping, err := s.resolver.Resolve(headers)
	if err != nil {
		if le, ok := AsLayoutError(err); ok {
			le.Strategy = s.Name()
			le.Sheet = sheet
		}
		return nil, err
	}

	fields := make([]string, 0, len(mapping))
	for _, field := range s.resolver.Fields() {
		if _, ok := mapping[field]; ok {
			fields = append(fields, field)
		}
	}

	table := workbook.NewRawTable(sheet, fields)
	for row := headerRow + 1; row < len(grid); row++ {
		values := make([]any, len(fields))
		blank := true
		for i, field := range fields {
			text := workbook.Cell(grid, row, mapping[field].Index)
			if text != "" {
				blank = false
			}
			values[i] = workbook.TextValue(text)
		}
		if blank {
			continue
		}
		table.Append(row+1, values)
	}
	return table, nil
}

// detectHeaderRow scores the first ScanRows rows by how many distinct
// aliases occur in them and returns the best one. Ties go to the earlier
// row. Without any hit the first non-blank row is used, so the resolver
// can still report what it found there.
func (s *HeaderSearch) detectHeaderRow(grid [][]string) int {
	limit := s.ScanRows
	if limit <= 0 || limit > len(grid) {
		limit = len(grid)
	}

	best, bestScore, firstNonBlank := -1, 0, -1
	for row := 0; row < limit; row++ {
		cells := rowText(grid, row)
		keys := make([]string, 0, len(cells))
		for _, c := range cells {
			if c != "" {
				keys = append(keys, NormalizeHeader(c))
			}
		}
		if len(keys) == 0 {
			continue
		}
		if firstNonBlank < 0 {
			firstNonBlank = row
		}

		// The separator keeps aliases from matching across cells.
		hits := s.matcher.MatchThreadSafe([]byte(strings.Join(keys, "\x00")))
		if len(hits) > bestScore {
			best, bestScore = row, len(hits)
		}
	}

	if best >= 0 {
		return best
	}
	if firstNonBlank >= 0 {
		return firstNonBlank
	}
	return 0
}

func rowText(grid [][]string, row int) []string {
	out := make([]string, len(grid[row]))
	for col := range grid[row] {
		out[col] = workbook.Cell(grid, row, col)
	}
	return out
}
