package server

import (
	"context"
	"fmt"

	"github.com/oshokin/theme-alarm/internal/config"
	"github.com/oshokin/theme-alarm/internal/logger"
	repo "github.com/oshokin/theme-alarm/internal/repository/theme"
)

// openRepository creates the theme store selected by the settings and a
// function releasing it.
func openRepository(ctx context.Context, store *config.StoreConfig) (repo.Repository, func(), error) {
	switch store.Driver {
	case config.StoreDriverSQLite:
		sqlite, err := repo.NewSQLiteRepository(ctx, store.Path, store.RestoreDefaults)
		if err != nil {
			return nil, nil, fmt.Errorf("open theme store: %w", err)
		}

		closeFn := func() {
			if err := sqlite.Close(); err != nil {
				logger.WarnKV(ctx, "Failed to close theme store", "error", err)
			}
		}

		return sqlite, closeFn, nil
	case config.StoreDriverFile, "":
		return repo.NewFileRepository(store.Path, repo.WithDefaultsRestore(store.RestoreDefaults)), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", store.Driver)
	}
}
