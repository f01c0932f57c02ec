package alarm

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/theme-alarm/internal/calendar"
	domain "github.com/oshokin/theme-alarm/internal/domain/alarm"
	"github.com/oshokin/theme-alarm/internal/logger"
	"github.com/oshokin/theme-alarm/internal/notify"
	repo "github.com/oshokin/theme-alarm/internal/repository/theme"
	"github.com/oshokin/theme-alarm/internal/scheduler"
)

const (
	// DefaultSnoozeDelay is used when Options.SnoozeDelay is not positive.
	DefaultSnoozeDelay = 5 * time.Minute
	// subscriberBuffer is the number of alerts queued per subscriber.
	subscriberBuffer = 16
)

// errRepositoryRequired is returned when no repository is configured.
var errRepositoryRequired = errors.New("theme repository is required")

// Options configures a Service.
type Options struct {
	// Repository loads and saves the theme collection.
	Repository repo.Repository
	// Clock provides time and timers, the real clock when nil.
	Clock clockwork.Clock
	// LeadTime is the initial number of minutes a pre-alert fires early.
	LeadTime int
	// SnoozeDelay is how long a snoozed alert waits.
	SnoozeDelay time.Duration
	// RefreshInterval is the period of the background rebuild, disabled when not positive.
	RefreshInterval time.Duration
	// Notifier receives every fired alert, optional.
	Notifier notify.Notifier
}

// Service owns the theme collection, the scheduler and the open alert sessions.
type Service struct {
	// ctx carries the logger for timer and job callbacks.
	ctx context.Context //nolint:containedctx // Timer callbacks have no caller context.
	// repo persists the theme collection.
	repo repo.Repository
	// clock provides the current time.
	clock clockwork.Clock
	// snoozeDelay is how long a snoozed alert waits.
	snoozeDelay time.Duration
	// notifier receives fired alerts.
	notifier notify.Notifier
	// scheduler owns the pending triggers.
	scheduler *scheduler.Scheduler
	// cron runs the periodic refresh, nil when disabled.
	cron gocron.Scheduler

	// mu guards themes, leadTime and sessions. It is always taken before
	// any scheduler lock.
	mu sync.Mutex
	// themes is the current collection.
	themes *domain.Themes
	// leadTime is the current lead time in minutes.
	leadTime int
	// sessions holds the open alert sessions by ID.
	sessions map[string]*scheduler.Session

	// subsMu guards subscribers.
	subsMu sync.Mutex
	// subscribers receive fired alerts.
	subscribers map[chan domain.Alert]struct{}
	// subsClosed is set by Close, later subscriptions start closed.
	subsClosed bool

	// closeOnce makes Close idempotent.
	closeOnce sync.Once
	// closeErr is the result of the first Close.
	closeErr error
}

// New loads the theme collection, arms the triggers and starts the refresh job.
func New(ctx context.Context, opts *Options) (*Service, error) {
	if opts == nil || opts.Repository == nil {
		return nil, errRepositoryRequired
	}

	if err := domain.ValidateLeadTime(opts.LeadTime); err != nil {
		return nil, err
	}

	ctx = logger.WithName(ctx, "alarm-service")

	themes, err := opts.Repository.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load themes: %w", err)
	}

	s := &Service{
		ctx:         context.WithoutCancel(ctx),
		repo:        opts.Repository,
		clock:       opts.Clock,
		snoozeDelay: opts.SnoozeDelay,
		notifier:    opts.Notifier,
		themes:      themes,
		leadTime:    opts.LeadTime,
		sessions:    make(map[string]*scheduler.Session),
		subscribers: make(map[chan domain.Alert]struct{}),
	}

	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}

	if s.snoozeDelay <= 0 {
		s.snoozeDelay = DefaultSnoozeDelay
	}

	s.scheduler = scheduler.New(s.handleFire, scheduler.WithClock(s.clock))

	s.mu.Lock()
	s.rebuildLocked(ctx)
	s.mu.Unlock()

	if opts.RefreshInterval > 0 {
		if err = s.startRefresh(ctx, opts.RefreshInterval); err != nil {
			s.scheduler.Close()

			return nil, err
		}
	}

	logger.InfoKV(ctx, "Alarm service started", "themes", themes.Len(), "lead_time", opts.LeadTime)

	return s, nil
}

// Themes returns a copy of the collection.
func (s *Service) Themes(_ context.Context) *domain.Themes {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.themes.Clone()
}

// Theme returns a copy of one theme.
func (s *Service) Theme(_ context.Context, key string) (*domain.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	theme, ok := s.themes.Get(key)
	if !ok {
		return nil, fmt.Errorf("%q: %w", key, domain.ErrThemeNotFound)
	}

	return theme.Clone(), nil
}

// AddTheme creates an enabled theme without entries.
func (s *Service) AddTheme(ctx context.Context, key, name string) error {
	return s.mutate(ctx, "theme added", func(themes *domain.Themes) error {
		return themes.Add(key, name)
	})
}

// RemoveTheme deletes a theme unless it is the last one.
func (s *Service) RemoveTheme(ctx context.Context, key string) error {
	return s.mutate(ctx, "theme removed", func(themes *domain.Themes) error {
		return themes.Remove(key)
	})
}

// SetThemeEnabled switches a whole theme.
func (s *Service) SetThemeEnabled(ctx context.Context, key string, enabled bool) error {
	return s.mutateTheme(ctx, key, "theme toggled", func(theme *domain.Theme) error {
		theme.Enabled = enabled

		return nil
	})
}

// AddTime inserts a new enabled entry.
func (s *Service) AddTime(ctx context.Context, key, value string) error {
	return s.mutateTheme(ctx, key, "time added", func(theme *domain.Theme) error {
		return theme.AddTime(value)
	})
}

// RemoveTime deletes an entry.
func (s *Service) RemoveTime(ctx context.Context, key, value string) error {
	return s.mutateTheme(ctx, key, "time removed", func(theme *domain.Theme) error {
		if !theme.RemoveTime(value) {
			return fmt.Errorf("%q: %w", value, domain.ErrTimeNotFound)
		}

		return nil
	})
}

// SetTimeEnabled switches a single entry.
func (s *Service) SetTimeEnabled(ctx context.Context, key, value string, enabled bool) error {
	return s.mutateTheme(ctx, key, "time toggled", func(theme *domain.Theme) error {
		return theme.SetTimeEnabled(value, enabled)
	})
}

// LeadTime returns the current lead time in minutes.
func (s *Service) LeadTime(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.leadTime
}

// SetLeadTime changes the lead time and rebuilds the triggers.
// The value lives in memory only.
func (s *Service) SetLeadTime(ctx context.Context, minutes int) error {
	if err := domain.ValidateLeadTime(minutes); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.leadTime = minutes
	s.rebuildLocked(ctx)

	logger.InfoKV(ctx, "Lead time changed", "lead_time", minutes)

	return nil
}

// Pending returns the armed triggers ordered by firing instant.
func (s *Service) Pending(_ context.Context) []scheduler.Trigger {
	return s.scheduler.Pending()
}

// Refresh rebuilds the triggers from the current data, re-arming entries
// whose pre-alert already fired today for tomorrow.
func (s *Service) Refresh(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rebuildLocked(ctx)
}

// ExportCalendar writes the enabled entries as an iCalendar feed.
func (s *Service) ExportCalendar(_ context.Context, w io.Writer) error {
	s.mu.Lock()
	themes, lead := s.themes.Clone(), s.leadTime
	s.mu.Unlock()

	return calendar.Encode(w, themes, lead, s.clock.Now())
}

// Close stops the refresh job, cancels every trigger and snooze and closes
// all subscriptions. Later calls return the result of the first one.
func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		if s.cron != nil {
			if err := s.cron.Shutdown(); err != nil {
				s.closeErr = fmt.Errorf("shutdown refresh job: %w", err)
			}
		}

		s.scheduler.Close()

		s.subsMu.Lock()
		s.subsClosed = true
		for ch := range s.subscribers {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.subsMu.Unlock()
	})

	return s.closeErr
}

// mutate applies change to a copy of the collection, persists it and swaps it in.
func (s *Service) mutate(ctx context.Context, event string, change func(*domain.Themes) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := s.themes.Clone()
	if err := change(updated); err != nil {
		return err
	}

	if err := s.commitLocked(ctx, updated); err != nil {
		return err
	}

	logger.DebugKV(ctx, "Themes changed", "event", event)

	return nil
}

// mutateTheme applies change to a copy of one theme.
func (s *Service) mutateTheme(ctx context.Context, key, event string, change func(*domain.Theme) error) error {
	return s.mutate(ctx, event, func(themes *domain.Themes) error {
		theme, ok := themes.Get(key)
		if !ok {
			return fmt.Errorf("%q: %w", key, domain.ErrThemeNotFound)
		}

		return change(theme)
	})
}

// commitLocked persists updated, makes it current and rebuilds.
func (s *Service) commitLocked(ctx context.Context, updated *domain.Themes) error {
	if err := s.repo.Save(ctx, updated); err != nil {
		logger.ErrorKV(ctx, "Failed to persist themes", "error", err)

		return fmt.Errorf("persist themes: %w", err)
	}

	s.themes = updated
	s.rebuildLocked(ctx)

	return nil
}

// rebuildLocked re-arms the scheduler from the current data.
func (s *Service) rebuildLocked(ctx context.Context) {
	s.scheduler.Rebuild(ctx, s.themes, s.leadTime, s.clock.Now())
}

// startRefresh schedules the periodic rebuild.
func (s *Service) startRefresh(ctx context.Context, interval time.Duration) error {
	cron, err := gocron.NewScheduler(
		gocron.WithClock(s.clock),
		gocron.WithLogger(logger.NewKVLogger(logger.WithName(ctx, "cron"), zapcore.WarnLevel)),
	)
	if err != nil {
		return fmt.Errorf("create refresh scheduler: %w", err)
	}

	_, err = cron.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			s.Refresh(s.ctx)
		}),
		gocron.WithName("refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = cron.Shutdown()

		return fmt.Errorf("create refresh job: %w", err)
	}

	cron.Start()
	s.cron = cron

	logger.DebugKV(ctx, "Refresh job started", "interval", interval)

	return nil
}

// sortAlerts orders alerts by firing instant, then ID.
func sortAlerts(alerts []domain.Alert) {
	slices.SortFunc(alerts, func(a, b domain.Alert) int {
		if c := a.FiredAt.Compare(b.FiredAt); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})
}
