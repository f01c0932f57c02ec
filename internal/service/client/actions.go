package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	api "github.com/oshokin/theme-alarm/internal/api/grpc/alarm"
	"github.com/oshokin/theme-alarm/internal/config"
)

// displayTimeLayout formats instants in listings.
const displayTimeLayout = "2006-01-02 15:04"

// ListThemes prints every theme with its entries. Disabled items are marked.
func ListThemes() Action {
	return func(ctx context.Context, client *api.Client, out io.Writer) error {
		themes, err := client.ListThemes(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

		for _, theme := range themes {
			times := make([]string, 0, len(theme.Times))

			for _, entry := range theme.Times {
				times = append(times, entry.Time+onOff(entry.Enabled, "", " (off)"))
			}

			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				theme.Key, theme.Name, onOff(theme.Enabled, "enabled", "disabled"), strings.Join(times, ", "))
		}

		return w.Flush()
	}
}

// AddTheme creates a theme.
func AddTheme(key, name string) Action {
	return func(ctx context.Context, client *api.Client, out io.Writer) error {
		if err := client.AddTheme(ctx, key, name); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(out, "Theme %s added\n", key)

		return nil
	}
}

// RemoveTheme deletes a theme.
func RemoveTheme(key string) Action {
	return func(ctx context.Context, client *api.Client, out io.Writer) error {
		if err := client.RemoveTheme(ctx, key); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(out, "Theme %s removed\n", key)

		return nil
	}
}

// SetThemeEnabled switches a theme.
func SetThemeEnabled(key string, enabled bool) Action {
	return func(ctx context.Context, client *api.Client, out io.Writer) error {
		if err := client.SetThemeEnabled(ctx, key, enabled); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(out, "Theme %s %s\n", key, onOff(enabled, "enabled", "disabled"))

		return nil
	}
}

// AddTime inserts an entry.
func AddTime(key, value string) Action {
	return func(ctx context.Context, client *api.Client, out io.Writer) error {
		if err := client.AddTime(ctx, key, value); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(out, "Time %s added to %s\n", value, key)

		return nil
	}
}

// RemoveTime deletes an entry.
func RemoveTime(key, value string) Action {
	return func(ctx context.Context, client *api.Client, out io.Writer) error {
		if err := client.RemoveTime(ctx, key, value); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(out, "Time %s removed from %s\n", value, key)

		return nil
	}
}

// SetTimeEnabled switches an entry.
func SetTimeEnabled(key, value string, enabled bool) Action {
	return func(ctx context.Context, client *api.Client, out io.Writer) error {
		if err := client.SetTimeEnabled(ctx, key, value, enabled); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(out, "Time %s of %s %s\n", value, key, onOff(enabled, "enabled", "disabled"))

		return nil
	}
}

// ShowLeadTime prints the lead time.
func ShowLeadTime() Action {
	return func(ctx context.Context, client *api.Client, out io.Writer) error {
		minutes, err := client.GetLeadTime(ctx)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(out, "%d\n", minutes)

		return nil
	}
}

// SetLeadTime changes the lead time.
func SetLeadTime(minutes int) Action {
	return func(ctx context.Context, client *api.Client, out io.Writer) error {
		if err := client.SetLeadTime(ctx, minutes); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(out, "Lead time set to %d minutes\n", minutes)

		return nil
	}
}

// ListPending prints the armed pre-alerts ordered by firing instant.
func ListPending() Action {
	return func(ctx context.Context, client *api.Client, out io.Writer) error {
		triggers, err := client.ListPending(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

		for _, trigger := range triggers {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n",
				trigger.AlertAt.Local().Format(displayTimeLayout), trigger.Time, trigger.ThemeName)
		}

		return w.Flush()
	}
}

// ListAlerts prints the open alerts.
func ListAlerts() Action {
	return func(ctx context.Context, client *api.Client, out io.Writer) error {
		alerts, err := client.ListAlerts(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

		for _, alert := range alerts {
			_, _ = fmt.Fprintf(w, "%s\t%s\tsnoozed %d\n", alert.ID, alert.Message, alert.Snoozes)
		}

		return w.Flush()
	}
}

// WatchAlerts prints alerts as they fire until ctx is done or the server ends the stream.
func WatchAlerts() Action {
	return func(ctx context.Context, client *api.Client, out io.Writer) error {
		watcher, err := client.WatchAlerts(ctx)
		if err != nil {
			return err
		}

		for {
			alert, err := watcher.Recv()
			if err != nil {
				if errors.Is(err, io.EOF) || ctx.Err() != nil {
					return nil
				}

				return err
			}

			_, _ = fmt.Fprintf(out, "%s\t%s\t%s\n",
				alert.FiredAt.Local().Format(displayTimeLayout), alert.ID, alert.Message)
		}
	}
}

// SnoozeAlert snoozes an open alert.
func SnoozeAlert(alertID string) Action {
	return func(ctx context.Context, client *api.Client, out io.Writer) error {
		if err := client.SnoozeAlert(ctx, alertID); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(out, "Alert %s snoozed\n", alertID)

		return nil
	}
}

// StopAlert stops an open alert, removing its entry.
func StopAlert(alertID string) Action {
	return func(ctx context.Context, client *api.Client, out io.Writer) error {
		if err := client.StopAlert(ctx, alertID); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(out, "Alert %s stopped\n", alertID)

		return nil
	}
}

// ExportCalendar writes the iCalendar feed to path, or to out when path is empty.
func ExportCalendar(path string) Action {
	return func(ctx context.Context, client *api.Client, out io.Writer) error {
		calendar, err := client.ExportCalendar(ctx)
		if err != nil {
			return err
		}

		if path == "" {
			_, err = io.WriteString(out, calendar)

			return err
		}

		if err = os.WriteFile(filepath.Clean(path), []byte(calendar), config.DefaultFilePermissions); err != nil {
			return fmt.Errorf("write calendar: %w", err)
		}

		_, _ = fmt.Fprintf(out, "Calendar written to %s\n", path)

		return nil
	}
}

// onOff picks the label for a switch state.
func onOff(enabled bool, on, off string) string {
	if enabled {
		return on
	}

	return off
}
