// Package normalizer turns a coerced RawTable into a CleanTable: it filters
// invalid rows, derives calendar features and orders rows by date.
package normalizer

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/coerce"
	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/layout"
	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/workbook"
)

// ErrMissingColumn is returned when a RawTable lacks a required column.
var ErrMissingColumn = errors.New("raw table is missing a column")

// FieldTarget declares how one column is coerced.
type FieldTarget struct {
	Field    string
	Target   coerce.Target
	Required bool
}

// DefaultTargets are the three consumption columns.
func DefaultTargets() []FieldTarget {
	return []FieldTarget{
		{Field: layout.FieldDate, Target: coerce.TargetDate, Required: true},
		{Field: layout.FieldVolume, Target: coerce.TargetQuantity, Required: true},
		{Field: layout.FieldAmount, Target: coerce.TargetCurrency, Required: true},
	}
}

// Stats counts what happened to the rows of one run.
type Stats struct {
	TotalRows     int `json:"total_rows"`
	ValidRows     int `json:"valid_rows"`
	MissingDate   int `json:"missing_date"`
	MissingVolume int `json:"missing_volume"`
	MissingAmount int `json:"missing_amount"`
	NonPositive   int `json:"non_positive"`
	CoerceMisses  int `json:"coerce_misses"`
}

// Dropped returns the number of rejected rows.
func (s Stats) Dropped() int {
	return s.TotalRows - s.ValidRows
}

// Result is the outcome of Normalize.
type Result struct {
	Table CleanTable `json:"table"`
	Stats Stats      `json:"stats"`
}

// Normalizer runs coercion, filtering and derivation.
type Normalizer struct {
	coercer *coerce.Coercer
	targets []FieldTarget
}

// New returns a Normalizer with the default targets.
func New(c *coerce.Coercer) *Normalizer {
	return &Normalizer{coercer: c, targets: DefaultTargets()}
}

// Normalize coerces raw column by column, drops invalid rows and returns
// the remaining rows sorted by date. An empty result is not an error.
func (n *Normalizer) Normalize(raw *workbook.RawTable) (*Result, error) {
	stats := Stats{TotalRows: raw.Len()}

	columns := make(map[string][]any, len(n.targets))
	var required []string
	for _, t := range n.targets {
		if !raw.HasColumn(t.Field) {
			if t.Required {
				return nil, fmt.Errorf("%w: %s", ErrMissingColumn, t.Field)
			}
			continue
		}
		res := n.coercer.Column(raw.Column(t.Field), t.Target)
		stats.CoerceMisses += res.Misses
		columns[t.Field] = res.Values
		if t.Required {
			required = append(required, t.Field)
		}
	}

	records := make([]Record, raw.Len())
	for i, row := range raw.Rows {
		fields := make(map[string]any, len(columns))
		for field, values := range columns {
			fields[field] = values[i]
		}
		records[i] = Record{Line: row.Line, Fields: fields}
	}

	for _, rec := range records {
		switch Classify(rec, required) {
		case MissingDate:
			stats.MissingDate++
		case MissingVolume:
			stats.MissingVolume++
		case MissingAmount:
			stats.MissingAmount++
		case NonPositive:
			stats.NonPositive++
		}
	}

	kept := Filter(records, required)
	rows := make([]CleanRow, 0, len(kept))
	for _, rec := range kept {
		rows = append(rows, toCleanRow(rec))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	stats.ValidRows = len(rows)
	return &Result{Table: CleanTable{Rows: rows}, Stats: stats}, nil
}

func toCleanRow(rec Record) CleanRow {
	date, _ := rec.Fields[layout.FieldDate].(time.Time)
	volume, _ := rec.Fields[layout.FieldVolume].(decimal.Decimal)
	amount, _ := rec.Fields[layout.FieldAmount].(decimal.Decimal)
	weekday, period := Derive(date)

	return CleanRow{
		Date:    date,
		Volume:  volume,
		Amount:  amount,
		Weekday: weekday,
		Period:  period,
		Line:    rec.Line,
	}
}
