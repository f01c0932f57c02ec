package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/theme-alarm/internal/config"
	"github.com/oshokin/theme-alarm/internal/logger"
)

// InitOptions contains inputs for writing a settings file.
type InitOptions struct {
	// ConfigPath is where the settings are written, defaults to the standard filename.
	ConfigPath string
	// ServerAddress is the gRPC address of the alarm server.
	ServerAddress string
	// StoreDriver selects the theme store, file when empty.
	StoreDriver string
	// StorePath is the theme store location, the default filename when empty.
	StorePath string
	// Force overwrites an existing file.
	Force bool
}

// errConfigExists is returned when the settings file exists and Force is not set.
var errConfigExists = errors.New("settings file already exists, use --force to overwrite")

// InitConfig writes a settings file filled with defaults.
func InitConfig(ctx context.Context, opts *InitOptions) error {
	ctx = logger.WithName(ctx, "theme-alarm")

	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultConfigFilename
	}

	if !opts.Force {
		if _, err := os.Stat(filepath.Clean(path)); err == nil {
			return fmt.Errorf("%s: %w", path, errConfigExists)
		}
	}

	cfg := &config.Config{
		ServerAddress: opts.ServerAddress,
		Store: config.StoreConfig{
			Driver: opts.StoreDriver,
			Path:   opts.StorePath,
		},
	}

	if err := config.Save(path, cfg); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Settings written",
		"path", path,
		"server_address", cfg.ServerAddress,
		"store_driver", cfg.Store.Driver,
		"store_path", cfg.Store.Path,
	)

	return nil
}
