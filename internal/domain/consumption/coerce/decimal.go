package coerce

import (
	"errors"
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ErrNotNumeric is returned when a cell holds no parseable number.
var ErrNotNumeric = errors.New("value is not numeric")

// maxExponent bounds the decimal exponent of a parsed value. Larger
// exponents make every later rescale allocate an enormous coefficient.
const maxExponent = 28

// ParseDecimal parses a locale-formatted number such as "R$ 1.234,56".
//
// Text that is already a plain decimal ("100.5", "1E-3") is taken as is.
// Otherwise everything but digits and separators is dropped. When a comma is
// present it is the decimal separator and periods are thousands separators;
// several periods without a comma are thousands separators too. A minus
// sign before the first digit, or parentheses around the value, make the
// result negative. Values whose exponent lies outside ±28 are rejected.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrNotNumeric
	}
	if !strings.Contains(s, ",") {
		if d, err := decimal.NewFromString(s); err == nil {
			return bounded(d)
		}
	}

	negative := isNegative(s)
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == ',' || r == '.' {
			return r
		}
		return -1
	}, s)
	if strings.IndexFunc(cleaned, unicode.IsDigit) < 0 {
		return decimal.Zero, ErrNotNumeric
	}

	switch {
	case strings.Contains(cleaned, ","):
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case strings.Count(cleaned, ".") > 1:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, ErrNotNumeric
	}
	if negative {
		d = d.Neg()
	}
	return bounded(d)
}

func bounded(d decimal.Decimal) (decimal.Decimal, error) {
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, ErrNotNumeric
	}
	return d, nil
}

func isNegative(s string) bool {
	firstDigit := strings.IndexFunc(s, unicode.IsDigit)
	if firstDigit < 0 {
		return false
	}
	if minus := strings.IndexByte(s, '-'); minus >= 0 && minus < firstDigit {
		return true
	}
	return strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
}

// toDecimal converts any supported cell value to a decimal.
func toDecimal(raw any) (decimal.Decimal, bool) {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		d, err := bounded(v)
		return d, err == nil
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, false
		}
		return toDecimal(*v)
	case decimal.NullDecimal:
		if !v.Valid {
			return decimal.Zero, false
		}
		return toDecimal(v.Decimal)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, false
		}
		d, err := bounded(decimal.NewFromFloat(v))
		return d, err == nil
	case float32:
		return toDecimal(float64(v))
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt32(v), true
	case int64:
		return decimal.NewFromInt(v), true
	case string:
		d, err := ParseDecimal(v)
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}
