package setlist

import (
	"strings"
	"time"
)

// DateLayout is the stored form of LiveEvent.Date.
const DateLayout = "2006.01.02"

var weekdayJA = [...]string{"日", "月", "火", "水", "木", "金", "土"}

// ParseDate parses a YYYY.MM.DD date.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(date))
}

// Weekday derives the day of week of a YYYY.MM.DD date.
func Weekday(date string) (time.Weekday, bool) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, false
	}
	return t.Weekday(), true
}

// FormatDateWithDay renders "2025.09.13（土）". Unparseable dates come back as-is.
func FormatDateWithDay(date string) string {
	wd, ok := Weekday(date)
	if !ok {
		return date
	}
	return date + "（" + weekdayJA[wd] + "）"
}
