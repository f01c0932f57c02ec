package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oshokin/theme-alarm/internal/service/client"
)

// leadTimeCmd shows or changes the lead time.
var leadTimeCmd = &cobra.Command{
	Use:   "lead-time [minutes]",
	Short: "Show or set how many minutes before an alarm its pre-alert fires.",
	Args:  cobra.MaximumNArgs(1),
	RunE: runAction(func(args []string) (client.Action, error) {
		if len(args) == 0 {
			return client.ShowLeadTime(), nil
		}

		minutes, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid minutes %q: %w", args[0], err)
		}

		return client.SetLeadTime(minutes), nil
	}),
}

// pendingCmd lists the armed pre-alerts.
var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List the armed pre-alerts ordered by firing time.",
	Args:  cobra.NoArgs,
	RunE:  runAction(fixed(client.ListPending())),
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(leadTimeCmd, pendingCmd)
}
