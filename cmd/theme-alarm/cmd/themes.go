package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/theme-alarm/internal/service/client"
)

// themesCmd groups theme management commands.
var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List and edit themes.",
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	themesCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List themes with their alarm times.",
			Args:  cobra.NoArgs,
			RunE:  runAction(fixed(client.ListThemes())),
		},
		&cobra.Command{
			Use:   "add <key> <name>",
			Short: "Add an empty enabled theme.",
			Args:  cobra.ExactArgs(2),
			RunE: runAction(func(args []string) (client.Action, error) {
				return client.AddTheme(args[0], args[1]), nil
			}),
		},
		&cobra.Command{
			Use:   "remove <key>",
			Short: "Remove a theme. The last theme cannot be removed.",
			Args:  cobra.ExactArgs(1),
			RunE: runAction(func(args []string) (client.Action, error) {
				return client.RemoveTheme(args[0]), nil
			}),
		},
		&cobra.Command{
			Use:   "enable <key>",
			Short: "Enable a theme.",
			Args:  cobra.ExactArgs(1),
			RunE: runAction(func(args []string) (client.Action, error) {
				return client.SetThemeEnabled(args[0], true), nil
			}),
		},
		&cobra.Command{
			Use:   "disable <key>",
			Short: "Disable a theme.",
			Args:  cobra.ExactArgs(1),
			RunE: runAction(func(args []string) (client.Action, error) {
				return client.SetThemeEnabled(args[0], false), nil
			}),
		},
	)

	rootCmd.AddCommand(themesCmd)
}
