package theme

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/oshokin/theme-alarm/internal/config"
	domain "github.com/oshokin/theme-alarm/internal/domain/alarm"
	"github.com/oshokin/theme-alarm/internal/logger"
)

// FileRepository persists the theme collection as a JSON document.
type FileRepository struct {
	// fs is the filesystem holding the document.
	fs afero.Fs
	// path is the location of the JSON document.
	path string
	// restoreDefaults re-adds missing seed themes while loading.
	restoreDefaults bool
	// mu serializes access to the document.
	mu sync.Mutex
}

// FileOption configures a FileRepository.
type FileOption func(*FileRepository)

// WithFs replaces the OS filesystem, mostly for tests.
func WithFs(fs afero.Fs) FileOption {
	return func(r *FileRepository) {
		if fs != nil {
			r.fs = fs
		}
	}
}

// WithDefaultsRestore makes Load re-add seed themes missing from the document.
func WithDefaultsRestore(enabled bool) FileOption {
	return func(r *FileRepository) {
		r.restoreDefaults = enabled
	}
}

// NewFileRepository creates a repository reading and writing JSON at path.
func NewFileRepository(path string, opts ...FileOption) *FileRepository {
	r := &FileRepository{
		fs:   afero.NewOsFs(),
		path: filepath.Clean(path),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Load reads the collection. A missing document yields the default themes,
// and so does a malformed one, which is only logged.
func (r *FileRepository) Load(ctx context.Context) (*domain.Themes, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.InfoKV(ctx, "Theme file not found, using defaults", "path", r.path)

			return domain.DefaultThemes(), nil
		}

		return nil, fmt.Errorf("read theme file: %w", err)
	}

	themes, migrated, err := decodeThemes(contents)
	if err != nil {
		logger.WarnKV(ctx, "Theme file is malformed, using defaults", "path", r.path, "error", err)

		return domain.DefaultThemes(), nil
	}

	if migrate(themes, r.restoreDefaults) {
		migrated = true
	}

	if migrated {
		logger.InfoKV(ctx, "Theme file upgraded", "path", r.path)

		if err = r.write(themes); err != nil {
			logger.WarnKV(ctx, "Failed to save upgraded theme file", "path", r.path, "error", err)
		}
	}

	return themes, nil
}

// Save writes the collection, replacing the previous document atomically.
func (r *FileRepository) Save(_ context.Context, themes *domain.Themes) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.write(themes)
}

// write encodes themes into a temporary file and renames it over the document.
func (r *FileRepository) write(themes *domain.Themes) error {
	data, err := encodeThemes(themes)
	if err != nil {
		return fmt.Errorf("encode themes: %w", err)
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err = r.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create theme directory: %w", err)
		}
	}

	tmp := r.path + ".tmp"

	if err = afero.WriteFile(r.fs, tmp, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write theme file: %w", err)
	}

	if err = r.fs.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace theme file: %w", err)
	}

	return nil
}
