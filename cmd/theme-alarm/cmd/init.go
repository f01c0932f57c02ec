package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/oshokin/theme-alarm/internal/service/client"
)

var (
	// initOptions collects the flags of the init command.
	initOptions client.InitOptions

	// initCmd writes a settings file.
	initCmd = &cobra.Command{
		Use:   "init <server-address>",
		Short: "Write a settings file with defaults.",
		Long: `Writes the settings shared by theme-alarm and theme-alarm-server.

The server address is validated and stored as server_addr. Other settings get
their defaults and can be edited in the YAML file afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			initOptions.ConfigPath = configPath
			initOptions.ServerAddress = args[0]

			return client.InitConfig(context.Background(), &initOptions)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	initCmd.Flags().StringVar(&initOptions.StoreDriver, "store-driver", "", "theme store driver: file or sqlite")
	initCmd.Flags().StringVar(&initOptions.StorePath, "store", "", "theme store path")
	initCmd.Flags().BoolVarP(&initOptions.Force, "force", "f", false, "overwrite an existing file")

	rootCmd.AddCommand(initCmd)
}
