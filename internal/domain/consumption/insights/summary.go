// Package insights aggregates cleaned consumption into the figures the
// dashboard displays.
package insights

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/normalizer"
	"github.com/FACorreiaa/smart-water-tracker/pkg/money"
)

// Bucket is a total over a group of days.
type Bucket struct {
	Days   int             `json:"days"`
	Volume decimal.Decimal `json:"volume_m3"`
	Amount *money.Money    `json:"amount"`
}

// PeriodTotal is the total of one year-month.
type PeriodTotal struct {
	Period normalizer.Period `json:"period"`
	Label  string            `json:"label"`
	Bucket
}

// WeekdayTotal is the total of one weekday across the table.
type WeekdayTotal struct {
	Weekday normalizer.Weekday `json:"weekday"`
	Bucket
}

// Summary holds the headline figures of a cleaned table.
type Summary struct {
	Days        int                  `json:"days"`
	From        time.Time            `json:"from"`
	To          time.Time            `json:"to"`
	TotalVolume decimal.Decimal      `json:"total_volume_m3"`
	TotalAmount *money.Money         `json:"total_amount"`
	DailyVolume decimal.Decimal      `json:"mean_daily_volume_m3"`
	DailyAmount *money.Money         `json:"mean_daily_amount"`
	UnitCost    *money.Money         `json:"cost_per_m3"`
	MonthlyMean *money.Money         `json:"mean_monthly_amount"`
	ByPeriod    []PeriodTotal        `json:"by_period"`
	ByWeekday   []WeekdayTotal       `json:"by_weekday"`
	PeakDay     *normalizer.CleanRow `json:"peak_day,omitempty"`
}

// Summarize totals table in currency. An empty table gives zero totals.
func Summarize(table normalizer.CleanTable, currency string) (*Summary, error) {
	s := &Summary{
		TotalVolume: decimal.Zero,
		TotalAmount: money.Zero(currency),
		DailyVolume: decimal.Zero,
		DailyAmount: money.Zero(currency),
		UnitCost:    money.Zero(currency),
		MonthlyMean: money.Zero(currency),
	}
	if table.Len() == 0 {
		return s, nil
	}

	periods := make(map[normalizer.Period]*PeriodTotal)
	weekdays := make(map[normalizer.Weekday]*WeekdayTotal)

	for _, row := range table.Rows {
		amount := money.NewFromDecimal(row.Amount, currency)

		var err error
		s.TotalVolume = s.TotalVolume.Add(row.Volume)
		if s.TotalAmount, err = s.TotalAmount.Add(amount); err != nil {
			return nil, err
		}

		p, ok := periods[row.Period]
		if !ok {
			p = &PeriodTotal{Period: row.Period, Label: row.Period.Label(), Bucket: emptyBucket(currency)}
			periods[row.Period] = p
		}
		if err := p.add(row.Volume, amount); err != nil {
			return nil, err
		}

		w, ok := weekdays[row.Weekday]
		if !ok {
			w = &WeekdayTotal{Weekday: row.Weekday, Bucket: emptyBucket(currency)}
			weekdays[row.Weekday] = w
		}
		if err := w.add(row.Volume, amount); err != nil {
			return nil, err
		}

		if s.PeakDay == nil || row.Volume.GreaterThan(s.PeakDay.Volume) {
			peak := row
			s.PeakDay = &peak
		}
	}

	days := decimal.NewFromInt(int64(table.Len()))
	s.Days = table.Len()
	s.From, s.To, _ = table.Span()
	s.DailyVolume = s.TotalVolume.Div(days).Round(3)
	s.DailyAmount = s.TotalAmount.DivideDecimal(days)
	s.UnitCost = s.TotalAmount.DivideDecimal(s.TotalVolume)
	s.MonthlyMean = s.TotalAmount.DivideDecimal(decimal.NewFromInt(int64(len(periods))))

	for _, p := range periods {
		s.ByPeriod = append(s.ByPeriod, *p)
	}
	sort.Slice(s.ByPeriod, func(i, j int) bool {
		return s.ByPeriod[i].Period.Before(s.ByPeriod[j].Period)
	})

	for _, day := range normalizer.Weekdays() {
		if w, ok := weekdays[day]; ok {
			s.ByWeekday = append(s.ByWeekday, *w)
		}
	}
	return s, nil
}

func emptyBucket(currency string) Bucket {
	return Bucket{Volume: decimal.Zero, Amount: money.Zero(currency)}
}

func (b *Bucket) add(volume decimal.Decimal, amount *money.Money) error {
	total, err := b.Amount.Add(amount)
	if err != nil {
		return err
	}
	b.Days++
	b.Volume = b.Volume.Add(volume)
	b.Amount = total
	return nil
}
