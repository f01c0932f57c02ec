package alarm

import "errors"

var (
	// ErrInvalidTime is returned when a time of day is not a valid "HH:MM" value.
	ErrInvalidTime = errors.New("time must be in HH:MM format (00:00-23:59)")
	// ErrDuplicateTime is returned when a theme already contains the time.
	ErrDuplicateTime = errors.New("time already exists in theme")
	// ErrTimeNotFound is returned when a theme has no entry with the time.
	ErrTimeNotFound = errors.New("time not found in theme")
	// ErrThemeExists is returned when adding a theme under a taken key.
	ErrThemeExists = errors.New("theme key already exists")
	// ErrThemeNotFound is returned when no theme is stored under the key.
	ErrThemeNotFound = errors.New("theme not found")
	// ErrInvalidTheme is returned when a theme key or name is empty.
	ErrInvalidTheme = errors.New("theme key and name must not be empty")
	// ErrLastTheme is returned when deleting the only remaining theme.
	ErrLastTheme = errors.New("at least one theme must remain")
	// ErrInvalidLeadTime is returned when the lead time is outside 0..MaxLeadTime minutes.
	ErrInvalidLeadTime = errors.New("lead time must be between 0 and 1439 minutes")
	// ErrAlertNotFound is returned when no open alert session has the ID.
	ErrAlertNotFound = errors.New("alert not found")
)
