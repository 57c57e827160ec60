package layout

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/workbook"
	"github.com/FACorreiaa/smart-water-tracker/pkg/fixtures"
)

func openWorkbook(t *testing.T, sheets ...fixtures.Sheet) *workbook.Workbook {
	t.Helper()
	data, err := fixtures.WorkbookBytes(sheets...)
	require.NoError(t, err)

	wb, err := workbook.Open(bytes.NewReader(data), workbook.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = wb.Close() })
	return wb
}

func TestRegion_Span(t *testing.T) {
	first, last, err := Region{Columns: "Q:S"}.Span()
	require.NoError(t, err)
	assert.Equal(t, 16, first)
	assert.Equal(t, 18, last)

	first, last, err = Region{Columns: "b"}.Span()
	require.NoError(t, err)
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, last)

	_, _, err = Region{Columns: "C:A"}.Span()
	assert.ErrorIs(t, err, ErrInvalidRegion)
}

func TestRegion_String(t *testing.T) {
	assert.Equal(t, "Dados Dashboard!Q4:S506", DailyRegion(DashboardSheet).String())
}

func TestRegionExtractor_Extract(t *testing.T) {
	grid := [][]string{
		{"title"},
		{"", "Data", "Valor"},
		{"", "01/jan", "1,00"},
		{"", "", "2,00"},
		{"", "03/jan", ""},
		{"", "04/jan", "4,00"},
	}
	region := Region{Sheet: "S", HeaderRow: 1, RowCount: 3, Columns: "B:C", ColumnNames: []string{"Data", "Valor"}}

	table, err := RegionExtractor{}.Extract(grid, region)
	require.NoError(t, err)

	// The row count bounds the read: 04/jan lies past it.
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "01/jan", table.Rows[0].Values["Data"])
	assert.Equal(t, "1,00", table.Rows[0].Values["Valor"])
	assert.Equal(t, 3, table.Rows[0].Line)
	assert.Equal(t, "03/jan", table.Rows[1].Values["Data"])
	assert.Nil(t, table.Rows[1].Values["Valor"])
}

func TestRegionExtractor_ShortSheet(t *testing.T) {
	grid := [][]string{{"Data", "Valor"}, {"01/jan", "1"}}
	region := Region{HeaderRow: 0, RowCount: 50, Columns: "A:B", ColumnNames: []string{"Data", "Valor"}}

	table, err := RegionExtractor{}.Extract(grid, region)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestRegionExtractor_OutOfBounds(t *testing.T) {
	grid := [][]string{{"Data", "Valor"}, {"01/jan", "1"}}

	tests := []struct {
		name   string
		region Region
		want   error
	}{
		{
			name:   "columns beyond sheet",
			region: Region{HeaderRow: 0, RowCount: 5, Columns: "Q:S", ColumnNames: []string{"a", "b", "c"}},
			want:   ErrRegionRead,
		},
		{
			name:   "header beyond sheet",
			region: Region{HeaderRow: 9, RowCount: 5, Columns: "A:B", ColumnNames: []string{"a", "b"}},
			want:   ErrRegionRead,
		},
		{
			name:   "names do not match span",
			region: Region{HeaderRow: 0, RowCount: 5, Columns: "A:B", ColumnNames: []string{"a"}},
			want:   ErrInvalidRegion,
		},
		{
			name:   "zero rows",
			region: Region{HeaderRow: 0, RowCount: 0, Columns: "A:B", ColumnNames: []string{"a", "b"}},
			want:   ErrInvalidRegion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RegionExtractor{}.Extract(grid, tt.region)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFixedRegion_Resolve(t *testing.T) {
	wb := openWorkbook(t, fixtures.Sheet{
		Name: DashboardSheet,
		Blocks: []fixtures.Block{{
			Origin: "Q4",
			Rows: [][]any{
				{"Rótulos de Linha", "Média de Qtd.m³ (Potável)", "Média de Valor2"},
				{"02/jan", "100,5", "350,00"},
				{"03/jan", "0", "10,00"},
				{"bad", "5", "5"},
			},
		}},
	})

	table, err := NewFixedRegion(DailyRegion(DashboardSheet)).Resolve(context.Background(), wb)
	require.NoError(t, err)

	assert.Equal(t, []string{FieldDate, FieldVolume, FieldAmount}, table.Columns)
	require.Equal(t, 3, table.Len())
	assert.Equal(t, "100,5", table.Rows[0].Values[FieldVolume])
	assert.Equal(t, 5, table.Rows[0].Line)
}

func TestFixedRegion_OutOfBoundsCarriesStrategy(t *testing.T) {
	wb := openWorkbook(t, fixtures.Rows(DashboardSheet, [][]any{{"Data", "Valor"}}))

	_, err := NewFixedRegion(DailyRegion(DashboardSheet)).Resolve(context.Background(), wb)
	require.ErrorIs(t, err, ErrRegionRead)

	le, ok := AsLayoutError(err)
	require.True(t, ok)
	assert.Equal(t, KindFixedRegion, le.Strategy)
	assert.Equal(t, "Dados Dashboard!Q4:S506", le.Region)
}

func TestRegionSet_ExtractAll(t *testing.T) {
	wb := openWorkbook(t, fixtures.Sheet{
		Name: DashboardSheet,
		Blocks: []fixtures.Block{
			{Origin: "A4", Rows: [][]any{{"Rótulos de Linha", "Soma", "Soma"}, {"Janeiro", "10", "30"}}},
			{Origin: "G4", Rows: [][]any{{"Rótulos de Linha", "Média", "Média"}, {"Segunda-feira", "1", "2"}}},
			{Origin: "Q4", Rows: [][]any{{"Rótulos de Linha", "Média", "Média"}, {"02/jan", "1", "2"}}},
			{Origin: "A22", Rows: [][]any{{"Fornecedor", "m³"}, {"CAGECE", "7"}, {"Total Geral", "7"}}},
			{Origin: "G22", Rows: [][]any{{"Fornecedor", "Valor"}, {"CAGECE", "21"}}},
		},
	})

	tables, err := DashboardRegions(DashboardSheet).ExtractAll(context.Background(), wb)
	require.NoError(t, err)
	require.Len(t, tables, 5)
	assert.Equal(t, 1, tables[RegionMonthly].Len())
	assert.Equal(t, 2, tables[RegionSupplierVolume].Len())
	assert.Equal(t, "CAGECE", tables[RegionSupplierValue].Rows[0].Values[FieldSupplier])
	assert.Equal(t, "Segunda-feira", tables[RegionWeekday].Rows[0].Values[FieldWeekday])
	assert.Equal(t, "02/jan", tables[RegionDaily].Rows[0].Values[FieldDate])
}
