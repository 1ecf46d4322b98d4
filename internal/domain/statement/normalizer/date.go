// Package normalizer converts raw statement cells into canonical values.
package normalizer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/FACorreiaa/statement-processor/internal/domain/statement/grid"
)

// SerialThreshold is the smallest number read as a spreadsheet serial date.
// Anything at or below it is too small to be a plausible statement date.
const SerialThreshold = 30000

// serialEpoch is day zero of the 1900 date system, adjusted for the
// phantom 1900-02-29 so serial 45743 lands on 2025-03-27.
var serialEpoch = civil.Date{Year: 1899, Month: time.December, Day: 30}

// writtenLayouts are tried before the day/month/year split.
// Slash-separated numeric forms are left to the split, which reads day first.
var writtenLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02-Jan-2006",
	"2-Jan-2006",
	"02-Jan-06",
	"2-Jan-06",
	"02 Jan 2006",
	"2 Jan 2006",
	"02 Jan 06",
	"Jan 2, 2006",
	"Jan 02, 2006",
	"January 2, 2006",
	"2 January 2006",
	"02-January-2006",
	"Mon Jan 2 2006",
}

var numericRe = regexp.MustCompile(`^\d+(\.\d+)?$`)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Date normalizes a cell into a calendar date.
//
// Date cells are taken as is. Numbers above SerialThreshold, and text holding
// such a number, are spreadsheet serials. Other text is tried against common
// written layouts and finally split on "/" or "-" as day, month, year.
// The second result is false when no strategy yields a valid date.
func Date(c grid.Cell) (civil.Date, bool) {
	switch c.Kind() {
	case grid.KindDate:
		t, _ := c.Time()
		return civil.DateOf(t), true
	case grid.KindNumber:
		f, _ := c.Float()
		return fromSerial(f)
	case grid.KindText:
		return ParseDate(c.String())
	default:
		return civil.Date{}, false
	}
}

// ParseDate applies the text strategies of Date to s
func ParseDate(s string) (civil.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Date{}, false
	}

	if numericRe.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return civil.Date{}, false
		}
		return fromSerial(f)
	}

	for _, layout := range writtenLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(t), true
		}
	}

	return splitDate(s)
}

func fromSerial(f float64) (civil.Date, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= SerialThreshold {
		return civil.Date{}, false
	}
	return serialEpoch.AddDays(int(math.Floor(f))), true
}

// splitDate reads dd/mm/yyyy, dd-mm-yy or dd-Mon-yyyy style strings
func splitDate(s string) (civil.Date, bool) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '-' })
	if len(parts) != 3 || strings.Count(s, "/")+strings.Count(s, "-") != 2 {
		return civil.Date{}, false
	}

	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return civil.Date{}, false
	}

	month, ok := parseMonth(strings.TrimSpace(parts[1]))
	if !ok {
		return civil.Date{}, false
	}

	yearText := strings.TrimSpace(parts[2])
	if len(yearText) == 2 {
		yearText = "20" + yearText
	}
	if len(yearText) != 4 {
		return civil.Date{}, false
	}
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return civil.Date{}, false
	}

	d := civil.Date{Year: year, Month: month, Day: day}
	if !d.IsValid() {
		return civil.Date{}, false
	}
	return d, true
}

func parseMonth(s string) (time.Month, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, false
		}
		return time.Month(n), true
	}
	if len(s) < 3 {
		return 0, false
	}
	m, ok := monthsByPrefix[strings.ToLower(s[:3])]
	return m, ok
}
