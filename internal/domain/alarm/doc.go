// Package alarm contains the core domain types of theme alarms.
//
// A Theme is a named, independently switchable group of daily alarm times
// (Entry values kept sorted by their "HH:MM" string). Themes is the
// insertion-ordered collection of themes keyed by a unique theme key; its
// iteration order is part of the contract because scheduling walks it.
//
// The package also holds the time arithmetic shared by the scheduler
// (next occurrence with inclusive rollover, pre-alert instant), the default
// theme set, the Alert payload and the sentinel errors used for user-visible
// rejections.
package alarm
