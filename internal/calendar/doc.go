// Package calendar renders the theme collection as an iCalendar feed so the
// alarms can be mirrored into any calendar application.
package calendar
