package alarm

import (
	"context"
	"fmt"

	domain "github.com/oshokin/theme-alarm/internal/domain/alarm"
	"github.com/oshokin/theme-alarm/internal/logger"
	"github.com/oshokin/theme-alarm/internal/scheduler"
)

// Alerts returns the open alert sessions ordered by firing instant.
func (s *Service) Alerts(_ context.Context) []domain.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	alerts := make([]domain.Alert, 0, len(s.sessions))
	for _, session := range s.sessions {
		alerts = append(alerts, session.Alert())
	}

	sortAlerts(alerts)

	return alerts
}

// Snooze closes the alert and opens it again after the snooze delay.
func (s *Service) Snooze(ctx context.Context, alertID string) error {
	session, err := s.openSession(alertID)
	if err != nil {
		return err
	}

	if err = session.Snooze(s.snoozeDelay); err != nil {
		return fmt.Errorf("snooze alert: %w", err)
	}

	s.forgetSession(session)

	logger.InfoKV(ctx, "Alert snoozed", "alert_id", alertID, "delay", s.snoozeDelay)

	return nil
}

// Stop closes the alert and deletes its entry from the theme. If persisting
// fails the alert stays open.
func (s *Service) Stop(ctx context.Context, alertID string) error {
	session, err := s.openSession(alertID)
	if err != nil {
		return err
	}

	// A failed removal leaves the session registered and open for a retry.
	err = session.Stop(func(payload scheduler.Payload) error {
		return s.removeFired(ctx, payload)
	})
	if err != nil {
		return fmt.Errorf("stop alert: %w", err)
	}

	s.forgetSession(session)

	logger.InfoKV(ctx, "Alert stopped", "alert_id", alertID)

	return nil
}

// Subscribe returns a channel receiving every fired alert until ctx is done
// or the service is closed. A subscriber whose buffer is full is dropped.
// After Close the returned channel is already closed.
func (s *Service) Subscribe(ctx context.Context) <-chan domain.Alert {
	ch := make(chan domain.Alert, subscriberBuffer)

	s.subsMu.Lock()
	if s.subsClosed {
		s.subsMu.Unlock()
		close(ch)

		return ch
	}

	s.subscribers[ch] = struct{}{}
	s.subsMu.Unlock()

	go func() {
		<-ctx.Done()
		s.unsubscribe(ch)
	}()

	return ch
}

// openSession returns the registered session with the ID.
func (s *Service) openSession(alertID string) (*scheduler.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[alertID]
	if !ok {
		return nil, fmt.Errorf("%q: %w", alertID, domain.ErrAlertNotFound)
	}

	return session, nil
}

// forgetSession drops a resolved session from the registry.
func (s *Service) forgetSession(session *scheduler.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions[session.ID()] == session {
		delete(s.sessions, session.ID())
	}
}

// removeFired deletes the entry of a stopped alert, persists and rebuilds.
// A theme or entry deleted in the meantime makes it a no-op.
func (s *Service) removeFired(ctx context.Context, payload scheduler.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.themes.Get(payload.ThemeKey); !ok {
		logger.DebugKV(ctx, "Stopped alert belongs to a removed theme", "theme", payload.ThemeKey)

		return nil
	}

	updated := s.themes.Clone()
	theme, _ := updated.Get(payload.ThemeKey)

	if !theme.RemoveTime(payload.Time) {
		logger.DebugKV(ctx, "Stopped alert entry already removed", "theme", payload.ThemeKey, "time", payload.Time)

		return nil
	}

	return s.commitLocked(ctx, updated)
}

// handleFire registers a fired session and fans the alert out.
func (s *Service) handleFire(session *scheduler.Session) {
	alert := session.Alert()

	s.mu.Lock()
	s.sessions[alert.ID] = session
	lead := s.leadTime
	s.mu.Unlock()

	ctx := logger.WithKV(s.ctx, "alert_id", alert.ID)
	logger.InfoKV(ctx, "Alert fired", "theme", alert.ThemeKey, "time", alert.Time, "snoozes", alert.Snoozes)

	s.publish(ctx, alert)

	if s.notifier == nil {
		return
	}

	if err := s.notifier.Notify(ctx, alert, lead); err != nil {
		logger.WarnKV(ctx, "Failed to deliver alert", "error", err)
	}
}

// publish hands the alert to every subscriber, dropping those that lag behind.
func (s *Service) publish(ctx context.Context, alert domain.Alert) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for ch := range s.subscribers {
		select {
		case ch <- alert:
		default:
			logger.Warn(ctx, "Dropping slow alert subscriber")

			delete(s.subscribers, ch)
			close(ch)
		}
	}
}

// unsubscribe closes ch unless it was already dropped.
func (s *Service) unsubscribe(ch chan domain.Alert) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	if _, ok := s.subscribers[ch]; !ok {
		return
	}

	delete(s.subscribers, ch)
	close(ch)
}
