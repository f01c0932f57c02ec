package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/theme-alarm/internal/service/client"
)

// exportOutput is the calendar file path, stdout when empty.
var exportOutput string

// exportCmd writes the iCalendar feed.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export enabled alarm times as an iCalendar feed with pre-alert reminders.",
	Args:  cobra.NoArgs,
	RunE: runAction(func([]string) (client.Action, error) {
		return client.ExportCalendar(exportOutput), nil
	}),
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "calendar file path, stdout when empty")

	rootCmd.AddCommand(exportCmd)
}
