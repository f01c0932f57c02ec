package theme

import (
	"context"

	domain "github.com/oshokin/theme-alarm/internal/domain/alarm"
)

// Repository defines persistence operations for the theme collection.
type Repository interface {
	Load(ctx context.Context) (*domain.Themes, error)
	Save(ctx context.Context, themes *domain.Themes) error
}

// migrate applies load-time upgrades that do not depend on the storage format
// and reports whether the collection changed.
func migrate(themes *domain.Themes, restoreDefaults bool) bool {
	modified := false

	for _, rename := range domain.LegacyRenames() {
		if !themes.Rename(rename.From, rename.To) {
			continue
		}

		if theme, ok := themes.Get(rename.To); ok {
			theme.Name = rename.Name
		}

		modified = true
	}

	for _, theme := range themes.All() {
		if theme.Times == nil {
			theme.Times = []domain.Entry{}
			modified = true
		}
	}

	if restoreDefaults && domain.RestoreDefaults(themes) {
		modified = true
	}

	return modified
}
