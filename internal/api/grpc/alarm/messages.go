package alarm

import (
	"time"

	domain "github.com/oshokin/theme-alarm/internal/domain/alarm"
	"github.com/oshokin/theme-alarm/internal/scheduler"
)

// Empty is the request or response of calls without data.
type Empty struct{}

// TimeEntry is one alarm time of a theme.
type TimeEntry struct {
	Time    string `json:"time"`
	Enabled bool   `json:"enabled"`
}

// Theme is a theme with its key.
type Theme struct {
	Key     string      `json:"key"`
	Name    string      `json:"name"`
	Enabled bool        `json:"enabled"`
	Times   []TimeEntry `json:"times"`
}

// ListThemesResponse holds every theme in collection order.
type ListThemesResponse struct {
	Themes []Theme `json:"themes"`
}

// AddThemeRequest creates a theme.
type AddThemeRequest struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// ThemeRequest addresses a theme.
type ThemeRequest struct {
	Key string `json:"key"`
}

// SetThemeEnabledRequest switches a theme.
type SetThemeEnabledRequest struct {
	Key     string `json:"key"`
	Enabled bool   `json:"enabled"`
}

// TimeRequest addresses an entry of a theme.
type TimeRequest struct {
	Key  string `json:"key"`
	Time string `json:"time"`
}

// SetTimeEnabledRequest switches an entry.
type SetTimeEnabledRequest struct {
	Key     string `json:"key"`
	Time    string `json:"time"`
	Enabled bool   `json:"enabled"`
}

// LeadTime carries the lead time in minutes.
type LeadTime struct {
	Minutes int `json:"minutes"`
}

// Trigger is a pending pre-alert.
type Trigger struct {
	ThemeKey  string    `json:"theme_key"`
	ThemeName string    `json:"theme_name"`
	Time      string    `json:"time"`
	AlertAt   time.Time `json:"alert_at"`
}

// ListPendingResponse holds the pending triggers ordered by firing instant.
type ListPendingResponse struct {
	Triggers []Trigger `json:"triggers"`
}

// Alert is a fired pre-alert.
type Alert struct {
	ID        string    `json:"id"`
	ThemeKey  string    `json:"theme_key"`
	ThemeName string    `json:"theme_name"`
	Time      string    `json:"time"`
	Message   string    `json:"message"`
	FiredAt   time.Time `json:"fired_at"`
	Snoozes   int       `json:"snoozes"`
}

// ListAlertsResponse holds the open alerts.
type ListAlertsResponse struct {
	Alerts []Alert `json:"alerts"`
}

// AlertRequest addresses an open alert.
type AlertRequest struct {
	ID string `json:"id"`
}

// ExportCalendarResponse carries an iCalendar document.
type ExportCalendarResponse struct {
	Calendar string `json:"calendar"`
}

// toThemes converts the domain collection to transport messages.
func toThemes(themes *domain.Themes) []Theme {
	result := make([]Theme, 0, themes.Len())

	for key, theme := range themes.All() {
		times := make([]TimeEntry, 0, len(theme.Times))
		for _, entry := range theme.Times {
			times = append(times, TimeEntry{Time: entry.Time, Enabled: entry.Enabled})
		}

		result = append(result, Theme{
			Key:     key,
			Name:    theme.Name,
			Enabled: theme.Enabled,
			Times:   times,
		})
	}

	return result
}

// toTriggers converts pending triggers to transport messages.
func toTriggers(triggers []scheduler.Trigger) []Trigger {
	result := make([]Trigger, 0, len(triggers))

	for _, trigger := range triggers {
		result = append(result, Trigger{
			ThemeKey:  trigger.Payload.ThemeKey,
			ThemeName: trigger.Payload.ThemeName,
			Time:      trigger.Payload.Time,
			AlertAt:   trigger.AlertAt,
		})
	}

	return result
}

// toAlert converts a domain alert, rendering its message with the lead time.
func toAlert(alert domain.Alert, leadMinutes int) Alert {
	return Alert{
		ID:        alert.ID,
		ThemeKey:  alert.ThemeKey,
		ThemeName: alert.ThemeName,
		Time:      alert.Time,
		Message:   alert.Message(leadMinutes),
		FiredAt:   alert.FiredAt,
		Snoozes:   alert.Snoozes,
	}
}
