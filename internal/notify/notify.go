package notify

import (
	"context"
	"errors"

	domain "github.com/oshokin/theme-alarm/internal/domain/alarm"
	"github.com/oshokin/theme-alarm/internal/logger"
)

// Notifier delivers one fired alert.
type Notifier interface {
	Notify(ctx context.Context, alert domain.Alert, leadMinutes int) error
}

// Resolver resolves open alert sessions by ID.
type Resolver interface {
	Snooze(ctx context.Context, alertID string) error
	Stop(ctx context.Context, alertID string) error
}

// LogNotifier writes every alert to the log.
type LogNotifier struct{}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier() *LogNotifier {
	return new(LogNotifier)
}

// Notify logs the alert message with its identifiers.
func (n *LogNotifier) Notify(ctx context.Context, alert domain.Alert, leadMinutes int) error {
	logger.InfoKV(ctx, alert.Message(leadMinutes),
		"alert_id", alert.ID,
		"theme", alert.ThemeKey,
		"time", alert.Time,
		"snoozes", alert.Snoozes,
	)

	return nil
}

// Multi fans an alert out to every notifier and joins their errors.
type Multi []Notifier

// Notify calls every notifier even if some of them fail.
func (m Multi) Notify(ctx context.Context, alert domain.Alert, leadMinutes int) error {
	var errs []error

	for _, n := range m {
		if err := n.Notify(ctx, alert, leadMinutes); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
