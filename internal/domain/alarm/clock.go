package alarm

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	// DefaultLeadTime is the number of minutes a pre-alert fires before its alarm.
	DefaultLeadTime = 6
	// MaxLeadTime is the largest accepted lead time. Anything from a full day on
	// would never produce a future pre-alert.
	MaxLeadTime = 24*60 - 1
)

// timePattern is the strict two-digit-hour:two-digit-minute format.
var timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// ParseTime splits an "HH:MM" value into hour and minute,
// rejecting anything outside 00:00-23:59.
func ParseTime(value string) (hour, minute int, err error) {
	if !timePattern.MatchString(value) {
		return 0, 0, fmt.Errorf("%q: %w", value, ErrInvalidTime)
	}

	// The pattern guarantees both halves are digits.
	hour, _ = strconv.Atoi(value[:2])
	minute, _ = strconv.Atoi(value[3:])

	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("%q: %w", value, ErrInvalidTime)
	}

	return hour, minute, nil
}

// ValidateTime reports whether value is an acceptable alarm time.
func ValidateTime(value string) error {
	_, _, err := ParseTime(value)

	return err
}

// ValidateLeadTime checks the lead time range.
func ValidateLeadTime(minutes int) error {
	if minutes < 0 || minutes > MaxLeadTime {
		return fmt.Errorf("%d: %w", minutes, ErrInvalidLeadTime)
	}

	return nil
}

// NextOccurrence returns the next instant the "HH:MM" time of day happens
// strictly after now, on the wall clock of now's location. An alarm at
// exactly now is already past and moves to the following day.
func NextOccurrence(value string, now time.Time) (time.Time, error) {
	hour, minute, err := ParseTime(value)
	if err != nil {
		return time.Time{}, err
	}

	year, month, day := now.Date()
	candidate := time.Date(year, month, day, hour, minute, 0, 0, now.Location())

	if !candidate.After(now) {
		candidate = time.Date(year, month, day+1, hour, minute, 0, 0, now.Location())
	}

	return candidate, nil
}

// AlertInstant returns the pre-alert instant for an alarm at the given instant.
func AlertInstant(alarmAt time.Time, leadMinutes int) time.Time {
	return alarmAt.Add(-time.Duration(leadMinutes) * time.Minute)
}
