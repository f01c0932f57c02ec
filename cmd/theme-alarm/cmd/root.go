package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/theme-alarm/internal/config"
	"github.com/oshokin/theme-alarm/internal/service/client"
	"github.com/oshokin/theme-alarm/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// serverAddress overrides the server address from the configuration.
	serverAddress string

	// rootCmd represents the base command for managing the theme alarm server.
	rootCmd = &cobra.Command{
		Use:   "theme-alarm",
		Short: "Manage themes, alarm times and alerts of a theme-alarm-server.",
		Long: `Client for the theme alarm scheduler.

Themes group daily alarm times written as HH:MM. Every change is applied by the
server immediately: pending pre-alerts are cancelled and armed again.
Server address is loaded from configuration file unless --server is given.`,
		SilenceUsage: true,
	}
)

// Execute runs the theme-alarm CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runAction adapts a client action builder to a Cobra run function.
func runAction(build func(args []string) (client.Action, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		action, err := build(args)
		if err != nil {
			return err
		}

		// Setup graceful shutdown handling.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		return client.Run(ctx, &client.Options{
			ConfigPath:    configPath,
			ServerAddress: serverAddress,
			Out:           cmd.OutOrStdout(),
		}, action)
	}
}

// fixed returns a builder ignoring the arguments.
func fixed(action client.Action) func([]string) (client.Action, error) {
	return func([]string) (client.Action, error) {
		return action, nil
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringVarP(&serverAddress, "server", "a", "", "server address, overrides the configuration")
}
