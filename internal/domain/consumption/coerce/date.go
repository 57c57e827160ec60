package coerce

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrNotDate is returned when a cell holds no recognisable date.
var ErrNotDate = errors.New("value is not a date")

// Month abbreviations accepted in "dd/mon" text, Portuguese and English.
var monthAbbrev = map[string]time.Month{
	"jan": time.January,
	"fev": time.February,
	"feb": time.February,
	"mar": time.March,
	"abr": time.April,
	"apr": time.April,
	"mai": time.May,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"ago": time.August,
	"aug": time.August,
	"set": time.September,
	"sep": time.September,
	"out": time.October,
	"oct": time.October,
	"nov": time.November,
	"dez": time.December,
	"dec": time.December,
}

var dayMonthPattern = regexp.MustCompile(`^(\d{1,2})[/\-. ]+(\pL{3,})\.?(?:[/\-. ]+(\d{2,4}))?$`)

var serialPattern = regexp.MustCompile(`^\d{5,7}(\.\d+)?$`)

// minSerial is 1927-05-18. Smaller numbers are far more likely to be a
// bare year or a quantity than a date.
const minSerial = 10000

// Day-first layouts tried after the dd/mon form. Layouts without a year
// parse with year 0, which is replaced by the reference year.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"2/1/06",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01",
	"2/1",
	"02-01",
	"2 January 2006",
	"2 Jan 2006",
	"January 2 2006",
	"Jan 2 2006",
}

// cleanDateText strips the caret and comma markers the dashboards add, and
// any leading symbols before the first letter or digit.
func cleanDateText(s string) string {
	s = strings.NewReplacer("^", "", ",", "").Replace(s)
	s = strings.TrimSpace(s)
	return strings.TrimLeftFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ParseDate parses date text, assigning referenceYear when none is written.
// Explicit years are kept as written. The result is midnight UTC.
func ParseDate(s string, referenceYear int) (time.Time, error) {
	s = cleanDateText(s)
	if s == "" {
		return time.Time{}, ErrNotDate
	}

	if t, ok := parseDayMonth(s, referenceYear); ok {
		return t, nil
	}

	if serialPattern.MatchString(s) {
		serial, err := strconv.ParseFloat(s, 64)
		if err == nil {
			if t, err := fromSerial(serial); err == nil {
				return t, nil
			}
		}
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		year := t.Year()
		if year == 0 {
			year = referenceYear
		}
		return civil(year, t.Month(), t.Day())
	}

	return time.Time{}, ErrNotDate
}

// parseDayMonth handles "02/jan", "2-fev-2024", "15 março" and similar.
func parseDayMonth(s string, referenceYear int) (time.Time, bool) {
	m := dayMonthPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}

	token := foldAccents(strings.ToLower(m[2]))
	month, ok := monthAbbrev[token[:3]]
	if !ok {
		return time.Time{}, false
	}

	year := referenceYear
	if m[3] != "" {
		year, err = strconv.Atoi(m[3])
		if err != nil {
			return time.Time{}, false
		}
		if len(m[3]) == 2 {
			year += 2000
		}
	}

	t, err := civil(year, month, day)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// civil builds a UTC midnight date and rejects overflowing days like 31/fev.
func civil(year int, month time.Month, day int) (time.Time, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, ErrNotDate
	}
	return t, nil
}

func fromSerial(serial float64) (time.Time, error) {
	if serial < minSerial {
		return time.Time{}, ErrNotDate
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, ErrNotDate
	}
	return civil(t.Year(), t.Month(), t.Day())
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// toDate converts any supported cell value to a date.
func toDate(raw any, referenceYear int) (time.Time, bool) {
	switch v := raw.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		year := v.Year()
		if year == 0 {
			year = referenceYear
		}
		t, err := civil(year, v.Month(), v.Day())
		return t, err == nil
	case float64:
		t, err := fromSerial(v)
		return t, err == nil
	case int:
		t, err := fromSerial(float64(v))
		return t, err == nil
	case int64:
		t, err := fromSerial(float64(v))
		return t, err == nil
	case string:
		t, err := ParseDate(v, referenceYear)
		return t, err == nil
	default:
		return time.Time{}, false
	}
}
