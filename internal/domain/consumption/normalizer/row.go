package normalizer

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/layout"
)

// Derived column names.
const (
	FieldWeekday = layout.FieldWeekday
	FieldPeriod  = "Periodo"
)

// Row is anything the filter can read fields from.
type Row interface {
	Field(name string) (any, bool)
}

// Record is a coerced row before filtering. Missing values are nil.
type Record struct {
	Line   int
	Fields map[string]any
}

func (r Record) Field(name string) (any, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// CleanRow is one validated daily reading with its derived features.
type CleanRow struct {
	Date    time.Time
	Volume  decimal.Decimal
	Amount  decimal.Decimal
	Weekday Weekday
	Period  Period
	Line    int
}

func (r CleanRow) Field(name string) (any, bool) {
	switch name {
	case layout.FieldDate:
		return r.Date, true
	case layout.FieldVolume:
		return r.Volume, true
	case layout.FieldAmount:
		return r.Amount, true
	case FieldWeekday:
		return r.Weekday, true
	case FieldPeriod:
		return r.Period, true
	default:
		return nil, false
	}
}

// UnitCost returns the amount paid per m³.
func (r CleanRow) UnitCost() decimal.Decimal {
	return r.Amount.Div(r.Volume).Round(4)
}

func (r CleanRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date    string          `json:"date"`
		Volume  decimal.Decimal `json:"volume_m3"`
		Amount  decimal.Decimal `json:"amount"`
		Weekday Weekday         `json:"weekday"`
		Period  Period          `json:"period"`
		Line    int             `json:"source_row,omitempty"`
	}{
		Date:    r.Date.Format(time.DateOnly),
		Volume:  r.Volume,
		Amount:  r.Amount,
		Weekday: r.Weekday,
		Period:  r.Period,
		Line:    r.Line,
	})
}

// CleanTable holds validated rows in ascending date order.
type CleanTable struct {
	Rows []CleanRow `json:"rows"`
}

// Len returns the number of rows.
func (t CleanTable) Len() int {
	return len(t.Rows)
}

// Span returns the first and last dates of the table.
func (t CleanTable) Span() (time.Time, time.Time, bool) {
	if len(t.Rows) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return t.Rows[0].Date, t.Rows[len(t.Rows)-1].Date, true
}
