package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	domain "github.com/oshokin/theme-alarm/internal/domain/alarm"
)

const (
	// productID identifies the generator of the feed.
	productID = "-//oshokin//theme-alarm//EN"
	// uidDomain is the right-hand side of every event UID.
	uidDomain = "theme-alarm"
	// eventLength is the duration of each alarm event.
	eventLength = "PT1M"
	// floatingLayout is a DATE-TIME without zone, read as local wall-clock time.
	floatingLayout = "20060102T150405"
)

// Encode writes a VCALENDAR with one daily VEVENT per enabled entry of every
// enabled theme. Each event carries a VALARM firing leadMinutes before it.
func Encode(w io.Writer, themes *domain.Themes, leadMinutes int, now time.Time) error {
	cal, err := Build(themes, leadMinutes, now)
	if err != nil {
		return err
	}

	if err = ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}

	return nil
}

// Build assembles the calendar without encoding it.
func Build(themes *domain.Themes, leadMinutes int, now time.Time) (*ical.Calendar, error) {
	if err := domain.ValidateLeadTime(leadMinutes); err != nil {
		return nil, err
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for key, theme := range themes.All() {
		if !theme.Enabled {
			continue
		}

		for _, entry := range theme.Times {
			if !entry.Enabled {
				continue
			}

			start, err := domain.NextOccurrence(entry.Time, now)
			if err != nil {
				return nil, fmt.Errorf("theme %q: %w", key, err)
			}

			event := ical.NewEvent()
			event.Props.SetText(ical.PropUID, eventUID(key, entry.Time))
			event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
			// Floating time: the recurrence follows the local wall clock.
			event.Props.Set(rawProp(ical.PropDateTimeStart, start.Format(floatingLayout)))
			event.Props.SetText(ical.PropSummary, theme.Name+" "+entry.Time)
			event.Props.Set(rawProp(ical.PropDuration, eventLength))
			event.Props.Set(rawProp(ical.PropRecurrenceRule, "FREQ=DAILY"))

			event.Children = append(event.Children, newAlarm(theme.Name, entry.Time, leadMinutes))
			cal.Children = append(cal.Children, event.Component)
		}
	}

	return cal, nil
}

// newAlarm builds the VALARM of one event.
func newAlarm(themeName, value string, leadMinutes int) *ical.Component {
	alarm := ical.NewComponent(ical.CompAlarm)
	alarm.Props.SetText(ical.PropAction, "DISPLAY")
	alarm.Props.SetText(ical.PropDescription,
		fmt.Sprintf("%s alarm (%s) in %d minutes", themeName, value, leadMinutes))
	alarm.Props.Set(rawProp(ical.PropTrigger, fmt.Sprintf("-PT%dM", leadMinutes)))

	return alarm
}

// eventUID returns a stable identifier for a theme entry.
func eventUID(themeKey, value string) string {
	return themeKey + "-" + strings.ReplaceAll(value, ":", "") + "@" + uidDomain
}

// rawProp creates a property whose value is written verbatim.
func rawProp(name, value string) *ical.Prop {
	prop := ical.NewProp(name)
	prop.Value = value

	return prop
}
