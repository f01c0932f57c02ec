// Package scheduler turns the theme collection into pending pre-alert
// triggers and hands fired triggers over to alert sessions.
//
// Every Rebuild cancels all owned triggers before arming new ones, so the set
// of pending triggers always reflects the latest data. A session can be
// snoozed, which re-arms the same payload outside the trigger set, or stopped.
package scheduler
