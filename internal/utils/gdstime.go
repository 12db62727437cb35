package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatGDSTime converts a database clock time ("17:20:00" or "17:20")
// into the terminal's 12-hour form: "520P", "1015A".  Midnight renders
// as 12xxA.  Malformed input is returned unchanged so one bad row
// never breaks a whole display.
func FormatGDSTime(clock string) string {
	parts := strings.Split(clock, ":")
	if len(parts) < 2 {
		return clock
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return clock
	}
	suffix := "A"
	if hours >= 12 {
		suffix = "P"
	}
	switch {
	case hours == 0:
		hours = 12
	case hours > 12:
		hours -= 12
	}
	return strconv.Itoa(hours) + parts[1] + suffix
}

// FormatDuration renders block minutes as "H:MM".
func FormatDuration(mins int) string {
	return fmt.Sprintf("%d:%02d", mins/60, mins%60)
}
