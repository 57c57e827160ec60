package normalizer

import (
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/layout"
)

// DropReason says why a row was rejected.
type DropReason int

const (
	Kept DropReason = iota
	MissingDate
	MissingVolume
	MissingAmount
	MissingField
	NonPositive
)

func (r DropReason) String() string {
	switch r {
	case Kept:
		return "kept"
	case MissingDate:
		return "missing_date"
	case MissingVolume:
		return "missing_volume"
	case MissingAmount:
		return "missing_amount"
	case MissingField:
		return "missing_field"
	case NonPositive:
		return "non_positive"
	default:
		return "unknown"
	}
}

// positiveFields must hold a strictly positive decimal when present.
var positiveFields = []string{layout.FieldVolume, layout.FieldAmount}

// Classify returns the reason row would be dropped, or Kept.
func Classify(row Row, required []string) DropReason {
	for _, field := range required {
		v, ok := row.Field(field)
		if !ok || v == nil {
			return missingReason(field)
		}
	}

	for _, field := range positiveFields {
		v, ok := row.Field(field)
		if !ok || v == nil {
			continue
		}
		d, isDecimal := v.(decimal.Decimal)
		if !isDecimal {
			return missingReason(field)
		}
		if !d.IsPositive() {
			return NonPositive
		}
	}
	return Kept
}

// Filter keeps the rows with every required field present and strictly
// positive volume and amount. Applying it twice gives the same result.
func Filter[R Row](rows []R, required []string) []R {
	kept := make([]R, 0, len(rows))
	for _, row := range rows {
		if Classify(row, required) == Kept {
			kept = append(kept, row)
		}
	}
	return kept
}

func missingReason(field string) DropReason {
	switch field {
	case layout.FieldDate:
		return MissingDate
	case layout.FieldVolume:
		return MissingVolume
	case layout.FieldAmount:
		return MissingAmount
	default:
		return MissingField
	}
}
