package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/layout"
	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/workbook"
	"github.com/FACorreiaa/smart-water-tracker/pkg/fixtures"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dashboardWorkbook(t *testing.T, daily [][]any) []byte {
	t.Helper()
	rows := append([][]any{{"Rótulos de Linha", "Média de Qtd.m³ (Potável)", "Média de Valor2"}}, daily...)
	data, err := fixtures.WorkbookBytes(fixtures.Sheet{
		Name:   layout.DashboardSheet,
		Blocks: []fixtures.Block{{Origin: "Q4", Rows: rows}},
	})
	require.NoError(t, err)
	return data
}

func regionService(t *testing.T) *ConsumptionService {
	t.Helper()
	svc, err := NewConsumptionService(Config{
		Layout:        layout.Config{Kind: layout.KindFixedRegion},
		ReferenceYear: 2025,
	}, testLogger())
	require.NoError(t, err)
	return svc
}

func TestProcess_FixedRegion(t *testing.T) {
	svc := regionService(t)
	data := dashboardWorkbook(t, [][]any{
		{"02/jan", "100,5", "350,00"},
		{"03/jan", "0", "10,00"},
		{"bad", "5", "5"},
	})

	job, err := svc.Process(context.Background(), "consumo.xlsx", data)
	require.NoError(t, err)

	assert.Equal(t, StatusSucceeded, job.Status)
	assert.Equal(t, layout.KindFixedRegion, job.Strategy)
	assert.Equal(t, layout.DashboardSheet, job.Sheet)
	assert.Equal(t, 3, job.Stats.TotalRows)
	assert.Equal(t, 1, job.Stats.ValidRows)
	require.Equal(t, 1, job.Table.Len())
	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), job.Table.Rows[0].Date)
	assert.Equal(t, "350.00", job.Summary.TotalAmount.String())
	assert.Len(t, job.Checksum, 64)
	assert.False(t, job.Cached)
}

func TestProcess_Empty(t *testing.T) {
	svc := regionService(t)
	data := dashboardWorkbook(t, [][]any{{"bad", "0", "0"}})

	job, err := svc.Process(context.Background(), "vazio.xlsx", data)
	require.NoError(t, err)
	assert.Equal(t, StatusEmpty, job.Status)
	assert.Equal(t, 0, job.Table.Len())
	assert.NotEmpty(t, job.Warnings)
}

func TestProcess_Unreadable(t *testing.T) {
	svc := regionService(t)

	_, err := svc.Process(context.Background(), "notes.txt", []byte("hello"))
	assert.ErrorIs(t, err, workbook.ErrUnreadable)
}

func TestProcess_LayoutError(t *testing.T) {
	svc, err := NewConsumptionService(Config{
		Layout:        layout.Config{Kind: layout.KindHeaderSearch, HeaderRow: layout.AutoDetect},
		ReferenceYear: 2025,
	}, testLogger())
	require.NoError(t, err)

	data, err := fixtures.WorkbookBytes(fixtures.Rows(layout.DashboardSheet, [][]any{
		{"Data", "Quantidade", "Preço"},
		{"02/jan", "1", "2"},
	}))
	require.NoError(t, err)

	_, err = svc.Process(context.Background(), "x.xlsx", data)
	require.ErrorIs(t, err, layout.ErrUnresolvedFields)

	le, ok := layout.AsLayoutError(err)
	require.True(t, ok)
	assert.Contains(t, le.MissingFields, layout.FieldVolume)
}

func TestProcess_TypedCells(t *testing.T) {
	for _, kind := range []string{layout.KindHeaderSearch, layout.KindFixedRegion} {
		t.Run(kind, func(t *testing.T) {
			svc, err := NewConsumptionService(Config{
				Layout:        layout.Config{Kind: kind, HeaderRow: layout.AutoDetect},
				ReferenceYear: 2025,
			}, testLogger())
			require.NoError(t, err)

			data, err := fixtures.WorkbookBytes(fixtures.Sheet{
				Name: layout.DashboardSheet,
				Blocks: []fixtures.Block{{Origin: "Q4", Rows: [][]any{
					{"Rótulos de Linha", "Média de Qtd.m³ (Potável)", "Média de Valor2"},
					{time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC), 100.5, 350.0},
					{time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC), 2024, 7},
				}}},
			})
			require.NoError(t, err)

			job, err := svc.Process(context.Background(), "typed.xlsx", data)
			require.NoError(t, err)
			require.Equal(t, 2, job.Table.Len())

			row := job.Table.Rows[0]
			assert.Equal(t, time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC), row.Date)
			assert.Equal(t, "100.5", row.Volume.String())
			assert.Equal(t, "350", row.Amount.String())
			assert.Equal(t, "2024", job.Table.Rows[1].Volume.String())
		})
	}
}

func TestProcess_SheetFallbackWarning(t *testing.T) {
	svc, err := NewConsumptionService(Config{
		Layout:        layout.Config{Kind: layout.KindHeaderSearch, HeaderRow: layout.AutoDetect},
		ReferenceYear: 2025,
	}, testLogger())
	require.NoError(t, err)

	data, err := fixtures.WorkbookBytes(fixtures.Rows("Planilha1", [][]any{
		{"Data", "Volume", "Valor"},
		{"02/jan", "1", "2"},
	}))
	require.NoError(t, err)

	job, err := svc.Process(context.Background(), "x.xlsx", data)
	require.NoError(t, err)
	assert.Equal(t, "Planilha1", job.Sheet)
	require.NotEmpty(t, job.Warnings)
	assert.Contains(t, job.Warnings[0], "Planilha1")
}

func TestProcess_CacheAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	cache := NewResultCache(10)
	svc := regionService(t).WithCache(cache).WithMetrics(metrics)

	data := dashboardWorkbook(t, [][]any{{"02/jan", "100,5", "350,00"}, {"03/jan", "0", "1"}})

	first, err := svc.Process(context.Background(), "a.xlsx", data)
	require.NoError(t, err)
	second, err := svc.Process(context.Background(), "a.xlsx", data)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Cached)
	assert.False(t, first.Cached)

	found, ok := svc.Job(first.ID)
	require.True(t, ok)
	assert.Equal(t, first.Checksum, found.Checksum)

	_, err = svc.Process(context.Background(), "b.txt", []byte("nope"))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.uploads.WithLabelValues(string(StatusSucceeded))))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.uploads.WithLabelValues(string(StatusFailed))))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.rows.WithLabelValues("valid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.rows.WithLabelValues("dropped")))
}

func TestProcess_Dashboard(t *testing.T) {
	svc, err := NewConsumptionService(Config{
		Layout:        layout.Config{Kind: layout.KindFixedRegion},
		ReferenceYear: 2025,
		Dashboard:     true,
	}, testLogger())
	require.NoError(t, err)

	data, err := fixtures.WorkbookBytes(fixtures.Sheet{
		Name: layout.DashboardSheet,
		Blocks: []fixtures.Block{
			{Origin: "A4", Rows: [][]any{{"Rótulos de Linha", "Soma", "Soma"}, {"Janeiro", "10", "30"}}},
			{Origin: "G4", Rows: [][]any{{"Rótulos de Linha", "Média", "Média"}, {"Quinta-feira", "10", "30"}}},
			{Origin: "Q4", Rows: [][]any{{"Rótulos de Linha", "Média", "Média"}, {"02/jan", "10", "30"}}},
			{Origin: "A22", Rows: [][]any{{"Fornecedor", "m³"}, {"CAGECE", "10"}}},
			{Origin: "G22", Rows: [][]any{{"Fornecedor", "Valor"}, {"CAGECE", "30"}}},
		},
	})
	require.NoError(t, err)

	job, err := svc.Process(context.Background(), "dash.xlsx", data)
	require.NoError(t, err)
	require.NotNil(t, job.Dashboard)
	assert.Len(t, job.Dashboard.Months, 1)
	assert.Len(t, job.Dashboard.Suppliers, 1)
	assert.Len(t, job.Dashboard.Weekdays, 1)
}
