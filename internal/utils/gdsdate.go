package utils // package utils provides small GDS parsing and formatting helpers

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// monthNumbers maps GDS month abbreviations to calendar months.
var monthNumbers = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

var monthNames = [...]string{
	"JAN", "FEB", "MAR", "APR", "MAY", "JUN",
	"JUL", "AUG", "SEP", "OCT", "NOV", "DEC",
}

var gdsDateRe = regexp.MustCompile(`^(\d{1,2})([A-Z]{3})(\d{2})?$`)

// ErrBadDate is returned by ParseGDSDate for tokens that do not form a
// valid GDS travel date.
var ErrBadDate = errors.New("invalid gds date")

// ParseGDSDate parses a GDS date token such as "25DEC" or "25DEC26"
// into a concrete UTC date.  A token without a year resolves to the
// nearest future occurrence relative to now: if day+month has already
// passed this year, it rolls to next year.  An explicit two-digit year
// always wins and is interpreted as 20YY.
func ParseGDSDate(s string, now time.Time) (time.Time, error) {
	m := gdsDateRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, ErrBadDate
	}
	day, _ := strconv.Atoi(m[1])
	month, ok := monthNumbers[m[2]]
	if !ok || day < 1 || day > 31 {
		return time.Time{}, ErrBadDate
	}

	now = now.UTC()
	year := now.Year()
	if m[3] != "" {
		yy, _ := strconv.Atoi(m[3])
		year = 2000 + yy
	} else {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Before(today) {
			year++
		}
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// FormatGDSDate renders a date as the terminal shows it: "25DEC".
func FormatGDSDate(t time.Time) string {
	return fmt.Sprintf("%02d%s", t.Day(), monthNames[t.Month()-1])
}

// ISODate renders a date as "YYYY-MM-DD" for storage.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}
