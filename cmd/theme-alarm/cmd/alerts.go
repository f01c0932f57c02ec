package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/theme-alarm/internal/service/client"
)

// alertsCmd groups commands for fired pre-alerts.
var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Watch, snooze and stop fired pre-alerts.",
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	alertsCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List open alerts.",
			Args:  cobra.NoArgs,
			RunE:  runAction(fixed(client.ListAlerts())),
		},
		&cobra.Command{
			Use:   "watch",
			Short: "Print alerts as they fire until interrupted.",
			Args:  cobra.NoArgs,
			RunE:  runAction(fixed(client.WatchAlerts())),
		},
		&cobra.Command{
			Use:   "snooze <id>",
			Short: "Fire the alert again after the snooze delay.",
			Args:  cobra.ExactArgs(1),
			RunE: runAction(func(args []string) (client.Action, error) {
				return client.SnoozeAlert(args[0]), nil
			}),
		},
		&cobra.Command{
			Use:   "stop <id>",
			Short: "Dismiss the alert and delete its alarm time.",
			Args:  cobra.ExactArgs(1),
			RunE: runAction(func(args []string) (client.Action, error) {
				return client.StopAlert(args[0]), nil
			}),
		},
	)

	rootCmd.AddCommand(alertsCmd)
}
