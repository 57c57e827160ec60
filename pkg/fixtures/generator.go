// Package fixtures builds realistic consumption workbooks for tests and demos.
package fixtures

import (
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
)

// Generator produces daily water readings using gofakeit.
type Generator struct {
	faker *gofakeit.Faker
}

// NewGenerator creates a generator with a random seed.
func NewGenerator() *Generator {
	return &Generator{faker: gofakeit.New(0)}
}

// NewGeneratorWithSeed creates a generator with a fixed seed for reproducible fixtures.
func NewGeneratorWithSeed(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Reading is one generated day of consumption.
type Reading struct {
	Date   time.Time
	Volume decimal.Decimal // m³, one decimal place
	Amount decimal.Decimal // currency, two decimal places
}

// Readings returns n consecutive days starting at start. Volumes are strictly
// positive and amounts follow a per-m³ tariff with a little noise.
func (g *Generator) Readings(start time.Time, n int) []Reading {
	readings := make([]Reading, n)
	tariff := decimal.NewFromFloat(g.faker.Float64Range(2.5, 4.5)).Round(2)
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	for i := 0; i < n; i++ {
		volume := decimal.NewFromFloat(g.faker.Float64Range(0.5, 250)).Round(1)
		if !volume.IsPositive() {
			volume = decimal.NewFromInt(1)
		}
		noise := decimal.NewFromFloat(g.faker.Float64Range(0.95, 1.05))
		readings[i] = Reading{
			Date:   day.AddDate(0, 0, i),
			Volume: volume,
			Amount: volume.Mul(tariff).Mul(noise).Round(2),
		}
	}
	return readings
}

// Supplier returns a supplier label in the upper-case style of the dashboards.
func (g *Generator) Supplier() string {
	return strings.ToUpper(g.faker.Company())
}

// Suppliers returns n distinct supplier labels.
func (g *Generator) Suppliers(n int) []string {
	seen := make(map[string]bool, n)
	out := make([]string, 0, n)
	for len(out) < n {
		name := g.Supplier()
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// DailyRows renders readings the way the dashboard sheet shows them:
// "02/jan" dates and decimal-comma numbers.
func DailyRows(readings []Reading) [][]any {
	rows := make([][]any, len(readings))
	for i, r := range readings {
		rows[i] = []any{DayMonth(r.Date), DecimalComma(r.Volume, 1), DecimalComma(r.Amount, 2)}
	}
	return rows
}

var monthAbbrev = [...]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// DayMonth formats t as "dd/mon" with a Portuguese month abbreviation.
func DayMonth(t time.Time) string {
	return t.Format("02") + "/" + monthAbbrev[t.Month()-1]
}

// DecimalComma formats d with a comma decimal separator and period thousands.
func DecimalComma(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if frac != "" {
		out += "," + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}
