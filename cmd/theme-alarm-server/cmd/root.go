package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/theme-alarm/internal/config"
	"github.com/oshokin/theme-alarm/internal/service/server"
	"github.com/oshokin/theme-alarm/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// storePath overrides the theme store location.
	storePath string
	// allowMultiple skips the single-instance check.
	allowMultiple bool

	// rootCmd represents the base command for running the alarm daemon.
	rootCmd = &cobra.Command{
		Use:   "theme-alarm-server [listen-address]",
		Short: "Run the theme alarm scheduler and its gRPC server.",
		Long: `Starts the theme alarm scheduler and the gRPC server used to manage it.

Every enabled alarm time of every enabled theme gets a pre-alert that fires
lead-time minutes before the alarm. Alerts can be snoozed or stopped through
the theme-alarm client or the Telegram buttons when the notifier is enabled.

Only the port from server_addr config is used for listening (e.g., :7001).
Listen address can be provided as argument to override config (e.g., :9090, 0.0.0.0:7001).
Themes are persisted to a JSON file or an SQLite database.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return server.Run(ctx, &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				StorePath:     storePath,
				AllowMultiple: allowMultiple,
			})
		},
	}
)

// Execute runs the theme-alarm-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&storePath, "store", "s", "", "theme store path, overrides the configuration")
	rootCmd.Flags().BoolVar(&allowMultiple, "allow-multiple", false, "do not refuse to start next to another instance")
}
