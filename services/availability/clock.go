package availability

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"
const clockLayout = "15:04"

// parseDate parses a "2006-01-02" calendar date as a UTC midnight instant.
func parseDate(date string) (time.Time, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// clockMinutes converts a "15:04" wall-clock string to minutes from midnight.
func clockMinutes(clock string) (int, error) {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
