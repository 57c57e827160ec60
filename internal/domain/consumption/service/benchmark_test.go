package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/layout"
	"github.com/FACorreiaa/smart-water-tracker/pkg/fixtures"
)

// BenchmarkProcess runs the whole pipeline over generated dashboards
func BenchmarkProcess(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	for _, days := range []int{30, 180, 500} {
		gen := fixtures.NewGeneratorWithSeed(int64(days))
		data, err := fixtures.DashboardWorkbook(gen, gen.Readings(start, days))
		if err != nil {
			b.Fatal(err)
		}

		for _, kind := range []string{layout.KindFixedRegion, layout.KindHeaderSearch} {
			svc, err := NewConsumptionService(Config{
				Layout:        layout.Config{Kind: kind, HeaderRow: layout.AutoDetect},
				ReferenceYear: 2025,
				Dashboard:     kind == layout.KindFixedRegion,
			}, logger)
			if err != nil {
				b.Fatal(err)
			}

			b.Run(fmt.Sprintf("%s_%d_days", kind, days), func(b *testing.B) {
				b.SetBytes(int64(len(data)))
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					if _, err := svc.Process(context.Background(), "bench.xlsx", data); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
