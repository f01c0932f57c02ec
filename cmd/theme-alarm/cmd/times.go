package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/theme-alarm/internal/service/client"
)

// timesCmd groups alarm time commands.
var timesCmd = &cobra.Command{
	Use:   "times",
	Short: "Edit the HH:MM alarm times of a theme.",
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	timesCmd.AddCommand(
		&cobra.Command{
			Use:   "add <theme> <HH:MM>",
			Short: "Add an enabled alarm time.",
			Args:  cobra.ExactArgs(2),
			RunE: runAction(func(args []string) (client.Action, error) {
				return client.AddTime(args[0], args[1]), nil
			}),
		},
		&cobra.Command{
			Use:   "remove <theme> <HH:MM>",
			Short: "Remove an alarm time.",
			Args:  cobra.ExactArgs(2),
			RunE: runAction(func(args []string) (client.Action, error) {
				return client.RemoveTime(args[0], args[1]), nil
			}),
		},
		&cobra.Command{
			Use:   "enable <theme> <HH:MM>",
			Short: "Enable an alarm time.",
			Args:  cobra.ExactArgs(2),
			RunE: runAction(func(args []string) (client.Action, error) {
				return client.SetTimeEnabled(args[0], args[1], true), nil
			}),
		},
		&cobra.Command{
			Use:   "disable <theme> <HH:MM>",
			Short: "Disable an alarm time.",
			Args:  cobra.ExactArgs(2),
			RunE: runAction(func(args []string) (client.Action, error) {
				return client.SetTimeEnabled(args[0], args[1], false), nil
			}),
		},
	)

	rootCmd.AddCommand(timesCmd)
}
