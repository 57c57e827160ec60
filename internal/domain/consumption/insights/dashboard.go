package insights

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/coerce"
	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/layout"
	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/normalizer"
	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/workbook"
	"github.com/FACorreiaa/smart-water-tracker/pkg/money"
)

// MonthFigure is one row of the dashboard's monthly pivot. A figure the
// cell did not hold stays invalid (Volume) or nil (Amount).
type MonthFigure struct {
	Label  string              `json:"label"`
	Month  time.Month          `json:"month,omitempty"`
	Volume decimal.NullDecimal `json:"volume_m3"`
	Amount *money.Money        `json:"amount"`
}

// SupplierFigure joins a supplier's volume and billed amount.
type SupplierFigure struct {
	Name   string          `json:"name"`
	Volume decimal.Decimal `json:"volume_m3"`
	Amount *money.Money    `json:"amount"`
	Share  decimal.Decimal `json:"amount_share_pct"`
}

// WeekdayFigure is one row of the dashboard's weekday pivot.
type WeekdayFigure struct {
	Weekday normalizer.Weekday `json:"weekday"`
	Volume  decimal.Decimal    `json:"volume_m3"`
	Amount  *money.Money       `json:"amount"`
}

// Dashboard holds the side tables of the dashboard sheet.
type Dashboard struct {
	Months            []MonthFigure    `json:"months"`
	MonthlyMeanVolume decimal.Decimal  `json:"mean_monthly_volume_m3"`
	MonthlyMeanAmount *money.Money     `json:"mean_monthly_amount"`
	Suppliers         []SupplierFigure `json:"suppliers"`
	Weekdays          []WeekdayFigure  `json:"weekdays"`
}

// BuildDashboard reads the side tables extracted by layout.DashboardRegions.
func BuildDashboard(tables map[string]*workbook.RawTable, c *coerce.Coercer, currency string) (*Dashboard, error) {
	for _, name := range []string{layout.RegionMonthly, layout.RegionSupplierVolume, layout.RegionSupplierValue, layout.RegionWeekday} {
		if tables[name] == nil {
			return nil, fmt.Errorf("dashboard region %q was not extracted", name)
		}
	}

	months := MonthlyFromRaw(tables[layout.RegionMonthly], c, currency)
	meanVolume, meanAmount, err := MonthlyMeans(months, currency)
	if err != nil {
		return nil, fmt.Errorf("failed to average monthly figures: %w", err)
	}

	suppliers, err := MergeSuppliers(tables[layout.RegionSupplierVolume], tables[layout.RegionSupplierValue], c, currency)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Months:            months,
		MonthlyMeanVolume: meanVolume,
		MonthlyMeanAmount: meanAmount,
		Suppliers:         suppliers,
		Weekdays:          WeekdaysFromRaw(tables[layout.RegionWeekday], c, currency),
	}, nil
}

// isAggregateLabel matches the pivot's grand-total row and blank labels
// rendered as "nan".
func isAggregateLabel(label string) bool {
	l := strings.ToLower(strings.TrimSpace(label))
	return l == "" || l == "nan" || strings.HasPrefix(l, "total") || strings.HasSuffix(l, " total")
}

func label(row workbook.RawRow, field string) string {
	v, _ := row.Field(field)
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// MonthlyFromRaw reads the monthly pivot, skipping the total row and rows
// with no figures at all.
func MonthlyFromRaw(raw *workbook.RawTable, c *coerce.Coercer, currency string) []MonthFigure {
	var out []MonthFigure
	for _, row := range raw.Rows {
		name := label(row, layout.FieldMonth)
		if isAggregateLabel(name) {
			continue
		}
		volume, okVolume := c.Decimal(row.Values[layout.FieldVolume])
		amount, okAmount := c.Decimal(row.Values[layout.FieldAmount])
		if !okVolume && !okAmount {
			continue
		}
		month, _ := normalizer.ParseMonthName(name)
		figure := MonthFigure{
			Label:  name,
			Month:  month,
			Volume: decimal.NullDecimal{Decimal: volume, Valid: okVolume},
		}
		if okAmount {
			figure.Amount = money.NewFromDecimal(amount, currency)
		}
		out = append(out, figure)
	}
	return out
}

// MonthlyMeans averages volume and amount separately, each over the months
// that hold that figure. A figure no month holds averages to zero.
func MonthlyMeans(months []MonthFigure, currency string) (decimal.Decimal, *money.Money, error) {
	volume := decimal.Zero
	var volumes int64
	var amounts []*money.Money
	for _, m := range months {
		if m.Volume.Valid {
			volume = volume.Add(m.Volume.Decimal)
			volumes++
		}
		if m.Amount != nil {
			amounts = append(amounts, m.Amount)
		}
	}

	meanVolume := decimal.Zero
	if volumes > 0 {
		meanVolume = volume.Div(decimal.NewFromInt(volumes)).Round(3)
	}

	total, err := money.Sum(currency, amounts...)
	if err != nil {
		return decimal.Zero, nil, err
	}
	return meanVolume, total.DivideDecimal(decimal.NewFromInt(int64(len(amounts)))), nil
}

// MergeSuppliers joins the supplier volume and value tables on the supplier
// name. Suppliers present in only one table are left out, as are total rows.
func MergeSuppliers(volumes, values *workbook.RawTable, c *coerce.Coercer, currency string) ([]SupplierFigure, error) {
	amountBy := make(map[string]decimal.Decimal)
	for _, row := range values.Rows {
		name := label(row, layout.FieldSupplier)
		if isAggregateLabel(name) {
			continue
		}
		if amount, ok := c.Decimal(row.Values[layout.FieldAmount]); ok {
			amountBy[name] = amount
		}
	}

	var out []SupplierFigure
	var amounts []*money.Money
	for _, row := range volumes.Rows {
		name := label(row, layout.FieldSupplier)
		if isAggregateLabel(name) {
			continue
		}
		volume, ok := c.Decimal(row.Values[layout.FieldVolume])
		if !ok {
			continue
		}
		amount, ok := amountBy[name]
		if !ok {
			continue
		}
		m := money.NewFromDecimal(amount, currency)
		out = append(out, SupplierFigure{Name: name, Volume: volume, Amount: m})
		amounts = append(amounts, m)
	}

	total, err := money.Sum(currency, amounts...)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Share = out[i].Amount.PercentageOf(total)
	}
	return out, nil
}

// WeekdaysFromRaw reads the weekday pivot in Monday-first order. Labels
// outside the weekday vocabulary and rows missing either figure are skipped.
func WeekdaysFromRaw(raw *workbook.RawTable, c *coerce.Coercer, currency string) []WeekdayFigure {
	byDay := make(map[normalizer.Weekday]WeekdayFigure)
	for _, row := range raw.Rows {
		day, ok := normalizer.ParseWeekday(label(row, layout.FieldWeekday))
		if !ok {
			continue
		}
		volume, ok := c.Decimal(row.Values[layout.FieldVolume])
		if !ok {
			continue
		}
		amount, ok := c.Decimal(row.Values[layout.FieldAmount])
		if !ok {
			continue
		}
		byDay[day] = WeekdayFigure{Weekday: day, Volume: volume, Amount: money.NewFromDecimal(amount, currency)}
	}

	var out []WeekdayFigure
	for _, day := range normalizer.Weekdays() {
		if f, ok := byDay[day]; ok {
			out = append(out, f)
		}
	}
	return out
}
