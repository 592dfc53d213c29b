package gradebook

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
	"github.com/xuri/excelize/v2"
)

// monthPrefixes maps the first three letters of a month name, folded, to
// the month. Portuguese first, then the English spellings that differ.
var monthPrefixes = map[string]time.Month{
	"jan": time.January, "fev": time.February, "mar": time.March,
	"abr": time.April, "mai": time.May, "jun": time.June,
	"jul": time.July, "ago": time.August, "set": time.September,
	"out": time.October, "nov": time.November, "dez": time.December,

	"feb": time.February, "apr": time.April, "may": time.May,
	"aug": time.August, "sep": time.September, "oct": time.October,
	"dec": time.December,
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"2/1/06",
	"2006/01/02",
}

// Excel serials outside this range are grades or counts, not dates.
const (
	minDateSerial = 20000 // 1954-10-03
	maxDateSerial = 80000 // 2119-01-10
)

// ParseSessionDate reads the date label of a session block. Labels such
// as "11-fev-2025", "3-mar.-25", "2025-02-11", "11/02/2025" and Excel
// serial numbers are understood. Anything else, including the positional
// "Aula_<n>" labels, gives a null date.
func ParseSessionDate(label string) null.Time {
	label = strings.TrimSpace(label)
	if label == "" || strings.Contains(label, "Aula") {
		return null.Time{}
	}

	if t, ok := parseMonthName(label); ok {
		return null.TimeFrom(t)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, label); err == nil {
			return null.TimeFrom(t)
		}
	}

	if serial, err := strconv.ParseFloat(label, 64); err == nil &&
		serial >= minDateSerial && serial <= maxDateSerial && !math.IsNaN(serial) {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return null.TimeFrom(t)
		}
	}

	return null.Time{}
}

// parseMonthName handles day-month-year with a written month, separated by
// '-', '/' or spaces.
func parseMonthName(label string) (time.Time, bool) {
	parts := strings.FieldsFunc(label, func(r rune) bool {
		return r == '-' || r == '/' || r == ' '
	})
	if len(parts) != 3 {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}

	name := strings.TrimSuffix(foldText(parts[1]), ".")
	if len([]rune(name)) < 3 {
		return time.Time{}, false
	}
	month, ok := monthPrefixes[string([]rune(name)[:3])]
	if !ok {
		return time.Time{}, false
	}

	year, err := strconv.Atoi(parts[2])
	if err != nil || year < 0 {
		return time.Time{}, false
	}
	if len(parts[2]) <= 2 {
		year += 2000
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalises 31-fev into March; reject it instead.
	if t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
