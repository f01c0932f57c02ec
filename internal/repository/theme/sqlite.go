package theme

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite" // Registers the "sqlite" driver.

	domain "github.com/oshokin/theme-alarm/internal/domain/alarm"
	"github.com/oshokin/theme-alarm/internal/logger"
)

//go:embed schema.sql
var schema string

// SQLiteRepository persists the theme collection in an SQLite database.
type SQLiteRepository struct {
	// db is the open database handle.
	db *sql.DB
	// restoreDefaults re-adds missing seed themes while loading.
	restoreDefaults bool
}

// NewSQLiteRepository opens (creating if needed) the database at path and applies the schema.
func NewSQLiteRepository(ctx context.Context, path string, restoreDefaults bool) (*SQLiteRepository, error) {
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open theme database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)

	if _, err = db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("apply theme schema: %w", err)
	}

	return &SQLiteRepository{
		db:              db,
		restoreDefaults: restoreDefaults,
	}, nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Load reads the collection. An empty database yields the default themes.
func (r *SQLiteRepository) Load(ctx context.Context) (*domain.Themes, error) {
	themes, err := r.readThemes(ctx)
	if err != nil {
		return nil, err
	}

	if themes.Len() == 0 {
		logger.Info(ctx, "Theme database is empty, using defaults")

		return domain.DefaultThemes(), nil
	}

	if err = r.readEntries(ctx, themes); err != nil {
		return nil, err
	}

	if migrate(themes, r.restoreDefaults) {
		logger.Info(ctx, "Theme database upgraded")

		if err = r.Save(ctx, themes); err != nil {
			logger.WarnKV(ctx, "Failed to save upgraded themes", "error", err)
		}
	}

	return themes, nil
}

// Save replaces the stored collection in a single transaction.
func (r *SQLiteRepository) Save(ctx context.Context, themes *domain.Themes) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	//nolint:errcheck // Rollback after Commit is a no-op.
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM themes`); err != nil {
		return fmt.Errorf("clear themes: %w", err)
	}

	position := 0

	for key, theme := range themes.All() {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO themes (key, position, name, enabled) VALUES (?, ?, ?, ?)`,
			key, position, theme.Name, theme.Enabled,
		); err != nil {
			return fmt.Errorf("insert theme %q: %w", key, err)
		}

		position++

		for _, entry := range theme.Times {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO entries (theme_key, time, enabled) VALUES (?, ?, ?)`,
				key, entry.Time, entry.Enabled,
			); err != nil {
				return fmt.Errorf("insert entry %s of %q: %w", entry.Time, key, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit themes: %w", err)
	}

	return nil
}

// readThemes loads theme rows ordered by position with empty entry lists.
func (r *SQLiteRepository) readThemes(ctx context.Context) (*domain.Themes, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, name, enabled FROM themes ORDER BY position, key`)
	if err != nil {
		return nil, fmt.Errorf("query themes: %w", err)
	}

	defer rows.Close()

	themes := domain.NewThemes()

	for rows.Next() {
		var (
			key   string
			theme = &domain.Theme{Times: []domain.Entry{}}
		)

		if err = rows.Scan(&key, &theme.Name, &theme.Enabled); err != nil {
			return nil, fmt.Errorf("scan theme: %w", err)
		}

		themes.Set(key, theme)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate themes: %w", err)
	}

	return themes, nil
}

// readEntries attaches entry rows to their themes, sorted by time.
func (r *SQLiteRepository) readEntries(ctx context.Context, themes *domain.Themes) error {
	rows, err := r.db.QueryContext(ctx, `SELECT theme_key, time, enabled FROM entries ORDER BY theme_key, time`)
	if err != nil {
		return fmt.Errorf("query entries: %w", err)
	}

	defer rows.Close()

	for rows.Next() {
		var (
			key   string
			entry domain.Entry
		)

		if err = rows.Scan(&key, &entry.Time, &entry.Enabled); err != nil {
			return fmt.Errorf("scan entry: %w", err)
		}

		theme, ok := themes.Get(key)
		if !ok {
			continue
		}

		theme.Times = append(theme.Times, entry)
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("iterate entries: %w", err)
	}

	return nil
}
