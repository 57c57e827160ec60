package normalizer

import (
	"fmt"
	"time"
)

// Weekday is a day of the week starting on Monday.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{
	"Segunda-feira",
	"Terça-feira",
	"Quarta-feira",
	"Quinta-feira",
	"Sexta-feira",
	"Sábado",
	"Domingo",
}

// Weekdays returns the days in display order, Monday first.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// WeekdayOf returns the weekday of t.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// ParseWeekday maps a Portuguese weekday label back to a Weekday.
func ParseWeekday(s string) (Weekday, bool) {
	for i, name := range weekdayNames {
		if name == s {
			return Weekday(i), true
		}
	}
	return 0, false
}

func (w Weekday) String() string {
	if w < Monday || w > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

func (w Weekday) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthName returns the Portuguese name of m.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return m.String()
	}
	return monthNames[m-1]
}

// ParseMonthName maps a Portuguese month name to its month.
func ParseMonthName(s string) (time.Month, bool) {
	for i, name := range monthNames {
		if name == s {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

// Period is a calendar year-month.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the year-month of t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// String renders the period as "2025-01".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Label renders the period as "Janeiro/2025".
func (p Period) Label() string {
	return fmt.Sprintf("%s/%d", MonthName(p.Month), p.Year)
}

// Before reports whether p is earlier than o.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Derive computes the calendar features of a date.
func Derive(date time.Time) (Weekday, Period) {
	return WeekdayOf(date), PeriodOf(date)
}
