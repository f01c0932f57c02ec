package theme

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/theme-alarm/internal/domain/alarm"
)

// openSQLite creates a repository backed by a temporary database file.
func openSQLite(t *testing.T, restoreDefaults bool) *SQLiteRepository {
	t.Helper()

	repo, err := NewSQLiteRepository(context.Background(), filepath.Join(t.TempDir(), "themes.db"), restoreDefaults)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}

// TestSQLiteRepository_EmptyYieldsDefaults verifies first-run seeding.
func TestSQLiteRepository_EmptyYieldsDefaults(t *testing.T) {
	t.Parallel()

	repo := openSQLite(t, false)

	themes, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.DefaultThemes().Keys(), themes.Keys())
}

// TestSQLiteRepository_SaveLoad_Roundtrip keeps order, flags and sorted entries.
func TestSQLiteRepository_SaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	repo := openSQLite(t, false)
	ctx := context.Background()

	want := domain.NewThemes()
	want.Set("zulu", &domain.Theme{
		Name:    "Zulu",
		Enabled: false,
		Times:   []domain.Entry{{Time: "07:00", Enabled: true}, {Time: "08:15", Enabled: false}},
	})
	want.Set("alpha", &domain.Theme{Name: "Alpha", Enabled: true, Times: []domain.Entry{}})

	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"zulu", "alpha"}, got.Keys())

	zulu, _ := got.Get("zulu")
	require.False(t, zulu.Enabled)
	require.Equal(t, want.Keys(), got.Keys())
	require.Equal(t, []domain.Entry{{Time: "07:00", Enabled: true}, {Time: "08:15", Enabled: false}}, zulu.Times)

	alpha, _ := got.Get("alpha")
	require.Empty(t, alpha.Times)

	// Saving again replaces rather than appends.
	alpha.Times = append(alpha.Times, domain.Entry{Time: "12:00", Enabled: true})
	got.Delete("zulu")
	require.NoError(t, repo.Save(ctx, got))

	again, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"alpha"}, again.Keys())
}

// TestSQLiteRepository_MigratesLegacyKeys renames obsolete theme keys on load.
func TestSQLiteRepository_MigratesLegacyKeys(t *testing.T) {
	t.Parallel()

	repo := openSQLite(t, false)
	ctx := context.Background()

	legacy := domain.NewThemes()
	legacy.Set("aries", &domain.Theme{Name: "Aries", Enabled: true, Times: []domain.Entry{{Time: "11:00", Enabled: true}}})
	require.NoError(t, repo.Save(ctx, legacy))

	themes, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"timbo"}, themes.Keys())

	timbo, _ := themes.Get("timbo")
	require.Equal(t, "팀보로봇", timbo.Name)
	require.Len(t, timbo.Times, 1)
}
