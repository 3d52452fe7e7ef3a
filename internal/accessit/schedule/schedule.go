// Package schedule evaluates daily recurring time windows of the form
// "HH:MM-HH:MM" against a wall-clock instant.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultWindow is applied when a user record carries no schedule of its own.
const DefaultWindow = "08:00-18:00"

// Window is a daily recurring interval, inclusive on both ends.
// Only the time of day matters; the date component of the evaluated
// instant is ignored.
type Window struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

// Parse parses a window spec in the literal form "HH:MM-HH:MM".
// Hours must be in [0,23] and minutes in [0,59].
func Parse(spec string) (Window, error) {
	halves := strings.Split(spec, "-")
	if len(halves) != 2 {
		return Window{}, fmt.Errorf("window %q: want two halves separated by '-', got %d", spec, len(halves))
	}

	sh, sm, err := parseClock(halves[0])
	if err != nil {
		return Window{}, fmt.Errorf("window %q start: %w", spec, err)
	}
	eh, em, err := parseClock(halves[1])
	if err != nil {
		return Window{}, fmt.Errorf("window %q end: %w", spec, err)
	}

	return Window{StartHour: sh, StartMinute: sm, EndHour: eh, EndMinute: em}, nil
}

// Contains reports whether t's time of day falls inside the window,
// inclusive on both ends.  Seconds and sub-second precision are ignored.
//
// The comparison is a plain start <= t <= end on minutes-of-day: a window
// whose start is later than its end (e.g. "22:00-06:00") never matches.
// Windows do not wrap past midnight.
func (w Window) Contains(t time.Time) bool {
	now := t.Hour()*60 + t.Minute()
	start := w.StartHour*60 + w.StartMinute
	end := w.EndHour*60 + w.EndMinute
	return start <= now && now <= end
}

// Evaluate parses spec and reports whether now falls inside it.  Any parse
// failure (malformed spec, out-of-range values, empty string) evaluates
// to true: a missing or broken schedule does not restrict access.  Callers
// that need to distinguish the two cases use Parse directly.
func Evaluate(spec string, now time.Time) bool {
	w, err := Parse(spec)
	if err != nil {
		return true
	}
	return w.Contains(now)
}

func parseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("clock %q: want HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("clock %q hour: %w", s, err)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("clock %q minute: %w", s, err)
	}
	if hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("clock %q: hour %d out of range", s, hour)
	}
	if minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("clock %q: minute %d out of range", s, minute)
	}
	return hour, minute, nil
}
