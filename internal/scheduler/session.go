package scheduler

import (
	"errors"
	"sync/atomic"
	"time"

	domain "github.com/oshokin/theme-alarm/internal/domain/alarm"
)

// ErrSessionResolved is returned when a session is snoozed or stopped twice.
var ErrSessionResolved = errors.New("alert session already resolved")

// Session is one fired pre-alert awaiting a snooze or stop.
// An unresolved session stays open indefinitely.
type Session struct {
	// id identifies the session.
	id string
	// payload is the data of the fired trigger.
	payload Payload
	// firedAt is the instant the session opened.
	firedAt time.Time
	// snoozes counts how many times the payload was snoozed so far.
	snoozes int
	// scheduler re-arms snoozed payloads.
	scheduler *Scheduler
	// resolved is set by the first Snooze or Stop.
	resolved atomic.Bool
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Payload returns the data of the fired trigger.
func (s *Session) Payload() Payload {
	return s.payload
}

// Resolved reports whether the session was snoozed or stopped.
func (s *Session) Resolved() bool {
	return s.resolved.Load()
}

// Alert returns the presentation view of the session.
func (s *Session) Alert() domain.Alert {
	return domain.Alert{
		ID:        s.id,
		Time:      s.payload.Time,
		ThemeName: s.payload.ThemeName,
		ThemeKey:  s.payload.ThemeKey,
		FiredAt:   s.firedAt,
		Snoozes:   s.snoozes,
	}
}

// Snooze closes the session and opens a new one with the same payload after
// delay. The entry itself is neither consulted nor changed, and the re-arm
// survives later rebuilds.
func (s *Session) Snooze(delay time.Duration) error {
	if !s.resolved.CompareAndSwap(false, true) {
		return ErrSessionResolved
	}

	if err := s.scheduler.rearm(s.payload, s.snoozes+1, delay); err != nil {
		s.resolved.Store(false)

		return err
	}

	return nil
}

// Stop closes the session and hands its payload to remove, which is expected
// to delete the entry, persist and rebuild. When remove fails the session
// stays open and can be resolved again.
func (s *Session) Stop(remove func(Payload) error) error {
	if !s.resolved.CompareAndSwap(false, true) {
		return ErrSessionResolved
	}

	if remove == nil {
		return nil
	}

	if err := remove(s.payload); err != nil {
		s.resolved.Store(false)

		return err
	}

	return nil
}
