package availability

import (
	"fmt"
	"time"
)

// Interval is an absolute time window.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlapping reports whether two intervals share more than a boundary.
func (iv Interval) Overlapping(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// TimezoneAdapter converts local wall-clock values to absolute instants and
// back, and carves candidate windows out of an interval. The engine treats it
// as an external collaborator so tests can substitute a fixed-zone fake.
type TimezoneAdapter interface {
	// CombineDateTimeInTimeZone resolves a "2006-01-02" date and a "15:04"
	// wall-clock in the given IANA zone to an absolute instant.
	CombineDateTimeInTimeZone(date, clock, tz string) (time.Time, error)
	ConvertTimeZone(t time.Time, fromTZ, toTZ string) (time.Time, error)
	FormatDateTime(t time.Time, tz, layout string) (string, error)
	// GenerateTimeSlots partitions [start, end) into durationMinutes-long
	// windows stepped by duration+buffer, skipping any window that overlaps
	// a busy interval.
	GenerateTimeSlots(start, end time.Time, durationMinutes int, busy []Interval, bufferMinutes int) []Interval
	// CalculateDuration returns the whole minutes between two instants.
	CalculateDuration(start, end time.Time) int
}

// systemTimezoneAdapter implements TimezoneAdapter on the platform zone
// database.
type systemTimezoneAdapter struct{}

// NewSystemTimezoneAdapter returns the production TimezoneAdapter.
func NewSystemTimezoneAdapter() TimezoneAdapter {
	return systemTimezoneAdapter{}
}

func (systemTimezoneAdapter) CombineDateTimeInTimeZone(date, clock, tz string) (time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("unknown time zone %q: %w", tz, err)
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q: %w", date, clock, err)
	}
	return t, nil
}

func (systemTimezoneAdapter) ConvertTimeZone(t time.Time, _, toTZ string) (time.Time, error) {
	loc, err := time.LoadLocation(toTZ)
	if err != nil {
		return time.Time{}, fmt.Errorf("unknown time zone %q: %w", toTZ, err)
	}
	return t.In(loc), nil
}

func (systemTimezoneAdapter) FormatDateTime(t time.Time, tz, layout string) (string, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "", fmt.Errorf("unknown time zone %q: %w", tz, err)
	}
	if layout == "" {
		layout = time.RFC3339
	}
	return t.In(loc).Format(layout), nil
}

func (systemTimezoneAdapter) GenerateTimeSlots(start, end time.Time, durationMinutes int, busy []Interval, bufferMinutes int) []Interval {
	if durationMinutes <= 0 || !start.Before(end) {
		return nil
	}
	duration := time.Duration(durationMinutes) * time.Minute
	step := duration + time.Duration(bufferMinutes)*time.Minute

	var slots []Interval
	for cursor := start; !cursor.Add(duration).After(end); cursor = cursor.Add(step) {
		candidate := Interval{Start: cursor, End: cursor.Add(duration)}
		blocked := false
		for _, b := range busy {
			if candidate.Overlapping(b) {
				blocked = true
				break
			}
		}
		if !blocked {
			slots = append(slots, candidate)
		}
	}
	return slots
}

func (systemTimezoneAdapter) CalculateDuration(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}
