package theme

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/theme-alarm/internal/domain/alarm"
)

// TestFileRepository_MissingFileYieldsDefaults verifies first-run seeding.
func TestFileRepository_MissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository("themes.json", WithFs(afero.NewMemMapFs()))

	themes, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.DefaultThemes().Keys(), themes.Keys())
}

// TestFileRepository_MalformedFileYieldsDefaults ensures parse failures are recovered locally.
func TestFileRepository_MalformedFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "themes.json", []byte("{not json"), 0o600))

	repo := NewFileRepository("themes.json", WithFs(fs))

	themes, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, themes.Len())

	// A JSON array is not a theme collection either.
	require.NoError(t, afero.WriteFile(fs, "themes.json", []byte(`["09:30"]`), 0o600))

	themes, err = repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, themes.Len())
}

// TestFileRepository_SaveLoad_Roundtrip keeps key order, flags and entries.
func TestFileRepository_SaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	repo := NewFileRepository("data/themes.json", WithFs(fs))

	want := domain.NewThemes()
	want.Set("zulu", &domain.Theme{
		Name:    "Zulu",
		Enabled: false,
		Times:   []domain.Entry{{Time: "07:00", Enabled: true}, {Time: "08:15", Enabled: false}},
	})
	want.Set("alpha", &domain.Theme{Name: "Alpha", Enabled: true, Times: []domain.Entry{}})

	require.NoError(t, repo.Save(context.Background(), want))

	exists, err := afero.Exists(fs, "data/themes.json")
	require.NoError(t, err)
	require.True(t, exists)

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"zulu", "alpha"}, got.Keys())

	zulu, _ := got.Get("zulu")
	require.False(t, zulu.Enabled)
	require.Equal(t, []domain.Entry{{Time: "07:00", Enabled: true}, {Time: "08:15", Enabled: false}}, zulu.Times)
}

// TestFileRepository_MigratesLegacyRecords upgrades bare strings, renamed keys
// and missing time lists, then writes the upgraded document back.
func TestFileRepository_MigratesLegacyRecords(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	legacy := `{
		"custom": {"name": "Custom", "enabled": true, "times": ["09:30", {"time": "10:00", "enabled": false}]},
		"aries": {"name": "Aries", "enabled": true, "times": ["11:00"]},
		"empty": {"name": "Empty", "enabled": true}
	}`
	require.NoError(t, afero.WriteFile(fs, "themes.json", []byte(legacy), 0o600))

	repo := NewFileRepository("themes.json", WithFs(fs))

	themes, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"custom", "timbo", "empty"}, themes.Keys())

	custom, _ := themes.Get("custom")
	require.Equal(t, []domain.Entry{{Time: "09:30", Enabled: true}, {Time: "10:00", Enabled: false}}, custom.Times)

	timbo, _ := themes.Get("timbo")
	require.Equal(t, "팀보로봇", timbo.Name)
	require.Equal(t, []domain.Entry{{Time: "11:00", Enabled: true}}, timbo.Times)

	empty, _ := themes.Get("empty")
	require.NotNil(t, empty.Times)
	require.Empty(t, empty.Times)

	// The upgraded document no longer holds bare strings.
	stored, err := afero.ReadFile(fs, "themes.json")
	require.NoError(t, err)
	require.Contains(t, string(stored), `"time": "09:30"`)
	require.NotContains(t, string(stored), `"aries"`)
}

// TestFileRepository_RestoreDefaults re-adds deleted seed themes when enabled.
func TestFileRepository_RestoreDefaults(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	document := `{"canopus": {"name": "Canopus", "enabled": false, "times": []}}`
	require.NoError(t, afero.WriteFile(fs, "themes.json", []byte(document), 0o600))

	plain, err := NewFileRepository("themes.json", WithFs(fs)).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, plain.Len())

	restored, err := NewFileRepository("themes.json", WithFs(fs), WithDefaultsRestore(true)).
		Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, restored.Len())

	canopus, _ := restored.Get("canopus")
	require.False(t, canopus.Enabled)
	require.Equal(t, "canopus", restored.Keys()[0])
}
