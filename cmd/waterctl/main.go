// Command waterctl normalizes a consumption workbook from the command line.
//
//	waterctl -strategy header -year 2024 -format csv consumo.xlsx
//	waterctl -generate sample.xlsx -days 90
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/layout"
	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/service"
	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/workbook"
	"github.com/FACorreiaa/smart-water-tracker/pkg/fixtures"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("waterctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	strategy := fs.String("strategy", layout.KindFixedRegion, "Layout strategy: region or header")
	sheet := fs.String("sheet", layout.DashboardSheet, "Sheet to read; falls back to the first sheet")
	headerRow := fs.Int("header-row", layout.AutoDetect, "0-based header row for the header strategy; -1 auto-detects")
	year := fs.Int("year", 2025, "Reference year for dates written without one")
	currency := fs.String("currency", "BRL", "ISO-4217 currency of the amounts")
	format := fs.String("format", "summary", "Output format: summary, json or csv")
	formatted := fs.Bool("formatted", false, "Read display-formatted cell text instead of raw values")
	verbose := fs.Bool("v", false, "Log pipeline details to stderr")
	generate := fs.String("generate", "", "Write a sample dashboard workbook to this path and exit")
	days := fs.Int("days", 60, "Days of readings in a generated workbook")
	seed := fs.Int64("seed", 0, "Seed for a generated workbook; 0 is random")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *generate != "" {
		if err := writeSample(*generate, *days, *year, *seed); err != nil {
			fmt.Fprintf(stderr, "generate: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "wrote %s\n", *generate)
		return 0
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: waterctl [flags] workbook.xlsx")
		fs.PrintDefaults()
		return 2
	}
	path := fs.Arg(0)

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	svc, err := service.NewConsumptionService(service.Config{
		Layout: layout.Config{
			Kind:      *strategy,
			Sheet:     *sheet,
			HeaderRow: *headerRow,
		},
		ReferenceYear: *year,
		Currency:      *currency,
		Read:          workbook.Options{FormattedValues: *formatted},
		Dashboard:     *strategy == layout.KindFixedRegion,
	}, logger)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 2
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "read: %v\n", err)
		return 1
	}

	job, err := svc.Process(context.Background(), path, data)
	if err != nil {
		reportError(stderr, err)
		return 1
	}

	if err := render(stdout, job, *format); err != nil {
		fmt.Fprintf(stderr, "render: %v\n", err)
		return 1
	}
	return 0
}

func reportError(w io.Writer, err error) {
	le, ok := layout.AsLayoutError(err)
	if !ok {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}

	fmt.Fprintf(w, "layout error: %v\n", le.Err)
	if le.Region != "" {
		fmt.Fprintf(w, "  region: %s\n", le.Region)
	}
	for _, field := range le.MissingFields {
		fmt.Fprintf(w, "  missing %s", field)
		if s := le.Suggestions[field]; len(s) > 0 {
			fmt.Fprintf(w, " (did you mean %q?)", s)
		}
		fmt.Fprintln(w)
	}
	if len(le.DiscoveredHeaders) > 0 {
		fmt.Fprintf(w, "  headers found: %q\n", le.DiscoveredHeaders)
	}
}

func render(w io.Writer, job *service.Job, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(job)
	case "csv":
		return job.Table.WriteCSV(w)
	case "summary":
		return renderSummary(w, job)
	default:
		return errors.New("unknown format " + format)
	}
}

func renderSummary(w io.Writer, job *service.Job) error {
	s := job.Summary
	fmt.Fprintf(w, "sheet %q, %d of %d rows valid\n", job.Sheet, job.Stats.ValidRows, job.Stats.TotalRows)
	for _, warning := range job.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	if s.Days == 0 {
		return nil
	}

	fmt.Fprintf(w, "%s to %s: %s m³, %s (%s per m³)\n\n",
		s.From.Format(time.DateOnly), s.To.Format(time.DateOnly),
		s.TotalVolume.String(), s.TotalAmount.Display(), s.UnitCost.Display())

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Período\tDias\tm³\tValor\t")
	for _, p := range s.ByPeriod {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t\n", p.Label, p.Days, p.Volume.String(), p.Amount.Display())
	}
	fmt.Fprintln(tw, "\t\t\t\t")
	for _, d := range s.ByWeekday {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t\n", d.Weekday, d.Days, d.Volume.String(), d.Amount.Display())
	}
	return tw.Flush()
}

func writeSample(path string, days, year int, seed int64) error {
	gen := fixtures.NewGenerator()
	if seed != 0 {
		gen = fixtures.NewGeneratorWithSeed(seed)
	}
	readings := gen.Readings(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), days)
	data, err := fixtures.DashboardWorkbook(gen, readings)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
