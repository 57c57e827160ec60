package workbook

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/smart-water-tracker/pkg/fixtures"
)

func openFixture(t *testing.T, sheets ...fixtures.Sheet) *Workbook {
	t.Helper()
	data, err := fixtures.WorkbookBytes(sheets...)
	require.NoError(t, err)

	wb, err := Open(bytes.NewReader(data), Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = wb.Close() })
	return wb
}

func TestOpen_Unreadable(t *testing.T) {
	_, err := Open(bytes.NewReader([]byte("not a workbook")), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestFindSheet(t *testing.T) {
	wb := openFixture(t,
		fixtures.Rows("Resumo", [][]any{{"x"}}),
		fixtures.Rows("Dados Dashboard", [][]any{{"y"}}),
	)

	tests := []struct {
		name      string
		preferred string
		want      string
		found     bool
	}{
		{"exact", "Dados Dashboard", "Dados Dashboard", true},
		{"case insensitive", "dados dashboard ", "Dados Dashboard", true},
		{"empty picks first", "", "Resumo", true},
		{"missing falls back to first", "Planilha1", "Resumo", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found, err := wb.FindSheet(tt.preferred)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.found, found)
		})
	}
}

func TestGrid_RawValues(t *testing.T) {
	wb := openFixture(t, fixtures.Rows("Dados", [][]any{
		{"Data", "Volume", "Valor"},
		{"02/jan", 100.5, "350,00"},
	}))

	grid, err := wb.Grid("Dados")
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.Equal(t, []string{"02/jan", "100.5", "350,00"}, grid[1])

	_, err = wb.Grid("Nope")
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestCellAndWidth(t *testing.T) {
	grid := [][]string{{"a"}, {"b", " c ", "d"}}
	assert.Equal(t, 3, Width(grid))
	assert.Equal(t, "c", Cell(grid, 1, 1))
	assert.Equal(t, "", Cell(grid, 0, 2))
	assert.Equal(t, "", Cell(grid, 5, 0))
}

func TestRawTable(t *testing.T) {
	table := NewRawTable("Dados", []string{"Data", "Valor"})
	table.Append(5, []any{"02/jan", "1,50"})
	table.Append(6, []any{"03/jan"})

	assert.Equal(t, 2, table.Len())
	assert.True(t, table.HasColumn("Valor"))
	assert.False(t, table.HasColumn("Volume"))
	assert.Equal(t, []any{"1,50", nil}, table.Column("Valor"))

	v, ok := table.Rows[1].Field("Valor")
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, 6, table.Rows[1].Line)
	assert.Nil(t, TextValue(""))
}
