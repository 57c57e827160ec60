package workbook

// RawRow is one data row of a RawTable, keyed by column label.
// Values are the untouched cell text or nil for an empty cell.
type RawRow struct {
	Line   int // 1-based row number in the source sheet
	Values map[string]any
}

// Field returns the value stored under name.
func (r RawRow) Field(name string) (any, bool) {
	v, ok := r.Values[name]
	return v, ok
}

// RawTable is the untyped table a layout strategy produces.
type RawTable struct {
	Sheet   string
	Columns []string
	Rows    []RawRow
}

// NewRawTable returns an empty table with the given column labels.
func NewRawTable(sheet string, columns []string) *RawTable {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &RawTable{Sheet: sheet, Columns: cols}
}

// Append adds a row whose values line up with Columns. Missing trailing
// values are stored as nil.
func (t *RawTable) Append(line int, values []any) {
	row := RawRow{Line: line, Values: make(map[string]any, len(t.Columns))}
	for i, col := range t.Columns {
		if i < len(values) {
			row.Values[col] = values[i]
		} else {
			row.Values[col] = nil
		}
	}
	t.Rows = append(t.Rows, row)
}

// Len returns the number of data rows.
func (t *RawTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether name is one of the table's labels.
func (t *RawTable) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// Column returns the values of one column in row order.
func (t *RawTable) Column(name string) []any {
	values := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row.Values[name]
	}
	return values
}

// TextValue converts a grid cell into a RawRow value. Blank cells become nil.
func TextValue(s string) any {
	if s == "" {
		return nil
	}
	return s
}
