// Package coerce converts raw cell values into typed dates and decimals.
// A value that cannot be converted becomes missing; coercion never fails a
// whole table.
package coerce

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Target is the type a column is coerced to.
type Target int

const (
	TargetDate Target = iota
	TargetQuantity
	TargetCurrency
)

func (t Target) String() string {
	switch t {
	case TargetDate:
		return "date"
	case TargetQuantity:
		return "quantity"
	case TargetCurrency:
		return "currency"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}

// Coercer converts cells for a given reference year.
type Coercer struct {
	// ReferenceYear is assigned to dates written without a year.
	ReferenceYear int
}

// New returns a Coercer. A non-positive year falls back to the current year.
func New(referenceYear int) *Coercer {
	if referenceYear <= 0 {
		referenceYear = time.Now().Year()
	}
	return &Coercer{ReferenceYear: referenceYear}
}

// Decimal converts raw to a decimal. Already-typed decimals pass through.
func (c *Coercer) Decimal(raw any) (decimal.Decimal, bool) {
	return toDecimal(raw)
}

// Date converts raw to a midnight UTC date. Already-typed dates pass through.
func (c *Coercer) Date(raw any) (time.Time, bool) {
	return toDate(raw, c.ReferenceYear)
}

// Coerce converts raw to target. The second return is false when the value
// is missing, in which case the first is nil.
func (c *Coercer) Coerce(raw any, target Target) (any, bool) {
	switch target {
	case TargetDate:
		if t, ok := c.Date(raw); ok {
			return t, true
		}
	case TargetQuantity, TargetCurrency:
		if d, ok := c.Decimal(raw); ok {
			return d, true
		}
	}
	return nil, false
}

// ColumnResult is the outcome of coercing a whole column.
type ColumnResult struct {
	Values []any
	Blanks int // cells that were empty to begin with
	Misses int // non-empty cells that could not be converted
}

// Column coerces every value of a column to target.
func (c *Coercer) Column(values []any, target Target) ColumnResult {
	res := ColumnResult{Values: make([]any, len(values))}
	for i, raw := range values {
		if raw == nil {
			res.Blanks++
			continue
		}
		v, ok := c.Coerce(raw, target)
		if !ok {
			res.Misses++
			continue
		}
		res.Values[i] = v
	}
	return res
}
