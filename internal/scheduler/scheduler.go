package scheduler

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	domain "github.com/oshokin/theme-alarm/internal/domain/alarm"
	"github.com/oshokin/theme-alarm/internal/logger"
)

// ErrClosed is returned when arming on a closed scheduler.
var ErrClosed = errors.New("scheduler is closed")

// Key identifies a pending trigger.
type Key struct {
	// ThemeKey is the key of the owning theme.
	ThemeKey string
	// Time is the "HH:MM" alarm time.
	Time string
}

// String renders the key as "theme@HH:MM".
func (k Key) String() string {
	return k.ThemeKey + "@" + k.Time
}

// Payload is the data delivered when a trigger fires.
type Payload struct {
	// Time is the "HH:MM" alarm time.
	Time string
	// ThemeName is the display name of the theme at arming time.
	ThemeName string
	// ThemeKey is the key of the owning theme.
	ThemeKey string
}

// Key returns the trigger key of the payload.
func (p Payload) Key() Key {
	return Key{ThemeKey: p.ThemeKey, Time: p.Time}
}

// Trigger describes a pending trigger.
type Trigger struct {
	// Payload is delivered on firing.
	Payload Payload
	// AlertAt is the instant the pre-alert fires.
	AlertAt time.Time
}

// Handler receives the session opened by a fired trigger or snooze.
// It is called from a timer goroutine without any scheduler lock held.
type Handler func(session *Session)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the real clock, mostly with a fake one in tests.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Scheduler) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator replaces the UUID generator used for session IDs.
func WithIDGenerator(generate func() string) Option {
	return func(s *Scheduler) {
		if generate != nil {
			s.newID = generate
		}
	}
}

// trigger is an armed timer owned by the scheduler.
type trigger struct {
	// payload is delivered on firing.
	payload Payload
	// alertAt is the firing instant.
	alertAt time.Time
	// timer is the underlying deferred task.
	timer clockwork.Timer
}

// deferral is an armed snooze timer.
type deferral struct {
	timer clockwork.Timer
}

// Scheduler owns the set of pending triggers.
type Scheduler struct {
	// clock provides time and deferred tasks.
	clock clockwork.Clock
	// onFire receives opened sessions.
	onFire Handler
	// newID generates session identifiers.
	newID func() string

	// mu guards the fields below.
	mu sync.Mutex
	// triggers holds at most one trigger per key.
	triggers map[Key]*trigger
	// deferred holds snooze timers, untouched by Rebuild.
	deferred map[*deferral]struct{}
	// closed rejects further arming.
	closed bool
}

// New creates a scheduler delivering sessions to onFire.
func New(onFire Handler, opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:    clockwork.NewRealClock(),
		onFire:   onFire,
		newID:    uuid.NewString,
		triggers: make(map[Key]*trigger),
		deferred: make(map[*deferral]struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Clock returns the clock the scheduler arms timers on.
func (s *Scheduler) Clock() clockwork.Clock {
	return s.clock
}

// Rebuild cancels every pending trigger and arms one trigger per enabled entry
// of every enabled theme whose pre-alert instant is still after now.
// It returns the number of armed triggers.
func (s *Scheduler) Rebuild(ctx context.Context, themes *domain.Themes, leadMinutes int, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelTriggersLocked()

	if s.closed || themes == nil {
		return 0
	}

	armed := 0

	for themeKey, theme := range themes.All() {
		if !theme.Enabled {
			continue
		}

		for _, entry := range theme.Times {
			if !entry.Enabled {
				continue
			}

			alarmAt, err := domain.NextOccurrence(entry.Time, now)
			if err != nil {
				logger.WarnKV(ctx, "Skipping invalid alarm time", "theme", themeKey, "time", entry.Time, "error", err)

				continue
			}

			alertAt := domain.AlertInstant(alarmAt, leadMinutes)
			if !alertAt.After(now) {
				continue
			}

			s.armLocked(Payload{
				Time:      entry.Time,
				ThemeName: theme.Name,
				ThemeKey:  themeKey,
			}, alertAt, now)

			armed++
		}
	}

	logger.DebugKV(ctx, "Triggers rebuilt", "armed", armed, "lead_time", leadMinutes)

	return armed
}

// CancelAll cancels every pending trigger. Snoozed alerts stay armed.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelTriggersLocked()
}

// Close cancels triggers and snoozes and rejects any further arming.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelTriggersLocked()

	for d := range s.deferred {
		d.timer.Stop()
		delete(s.deferred, d)
	}

	s.closed = true
}

// Pending returns the pending triggers ordered by firing instant, then key.
func (s *Scheduler) Pending() []Trigger {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]Trigger, 0, len(s.triggers))
	for _, t := range s.triggers {
		result = append(result, Trigger{Payload: t.payload, AlertAt: t.alertAt})
	}

	slices.SortFunc(result, func(a, b Trigger) int {
		if c := a.AlertAt.Compare(b.AlertAt); c != 0 {
			return c
		}

		return cmp.Or(
			cmp.Compare(a.Payload.ThemeKey, b.Payload.ThemeKey),
			cmp.Compare(a.Payload.Time, b.Payload.Time),
		)
	})

	return result
}

// Snoozed returns the number of armed snooze timers.
func (s *Scheduler) Snoozed() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.deferred)
}

// armLocked arms a trigger for payload, replacing any trigger with the same key.
func (s *Scheduler) armLocked(payload Payload, alertAt, now time.Time) {
	key := payload.Key()

	if old, ok := s.triggers[key]; ok {
		old.timer.Stop()
	}

	t := &trigger{
		payload: payload,
		alertAt: alertAt,
	}

	t.timer = s.clock.AfterFunc(alertAt.Sub(now), func() {
		s.fire(key, t)
	})

	s.triggers[key] = t
}

// cancelTriggersLocked stops and forgets every owned trigger.
func (s *Scheduler) cancelTriggersLocked() {
	for key, t := range s.triggers {
		t.timer.Stop()
		delete(s.triggers, key)
	}
}

// fire opens a session for t unless t was cancelled or replaced after its
// timer had already been dispatched.
func (s *Scheduler) fire(key Key, t *trigger) {
	s.mu.Lock()

	if s.closed || s.triggers[key] != t {
		s.mu.Unlock()

		return
	}

	delete(s.triggers, key)
	session := s.newSessionLocked(t.payload, 0)

	s.mu.Unlock()

	s.onFire(session)
}

// rearm schedules a new session for payload after delay.
func (s *Scheduler) rearm(payload Payload, snoozes int, delay time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	d := new(deferral)
	d.timer = s.clock.AfterFunc(delay, func() {
		s.fireDeferred(d, payload, snoozes)
	})

	s.deferred[d] = struct{}{}

	return nil
}

// fireDeferred opens the session of a snoozed alert unless it was cancelled.
func (s *Scheduler) fireDeferred(d *deferral, payload Payload, snoozes int) {
	s.mu.Lock()

	if _, ok := s.deferred[d]; !ok || s.closed {
		s.mu.Unlock()

		return
	}

	delete(s.deferred, d)
	session := s.newSessionLocked(payload, snoozes)

	s.mu.Unlock()

	s.onFire(session)
}

// newSessionLocked builds an open session fired now.
func (s *Scheduler) newSessionLocked(payload Payload, snoozes int) *Session {
	return &Session{
		id:        s.newID(),
		payload:   payload,
		firedAt:   s.clock.Now(),
		snoozes:   snoozes,
		scheduler: s,
	}
}
