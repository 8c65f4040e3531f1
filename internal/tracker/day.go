package tracker

import "time"

// dayLayout is the calendar-date format used for completion days. Lexical
// order of these strings matches chronological order.
const dayLayout = "2006-01-02"

// FormatDay renders a timestamp as a UTC calendar date.
func FormatDay(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// ParseDay parses a YYYY-MM-DD date string.
func ParseDay(day string) (time.Time, error) {
	return time.Parse(dayLayout, day)
}

// PrevDay returns the calendar day before the given one. Uses AddDate so the
// arithmetic follows calendar days, not fixed 24h offsets.
func PrevDay(day string) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -1).Format(dayLayout), nil
}
