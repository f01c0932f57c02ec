package alarm

import (
	"fmt"
	"time"
)

// Alert is the payload of one fired pre-alert handed to the presentation layer.
type Alert struct {
	// ID identifies the open alert session.
	ID string
	// Time is the "HH:MM" alarm time the pre-alert belongs to.
	Time string
	// ThemeName is the theme's display name captured when the trigger was armed.
	ThemeName string
	// ThemeKey identifies the theme in the collection.
	ThemeKey string
	// FiredAt is when the session was opened.
	FiredAt time.Time
	// Snoozes counts how many times this alarm was snoozed before this session.
	Snoozes int
}

// Message renders the alert text shown to the user.
func (a *Alert) Message(leadMinutes int) string {
	return fmt.Sprintf("%s alarm (%s) in %d minutes", a.ThemeName, a.Time, leadMinutes)
}
