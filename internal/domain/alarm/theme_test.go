package alarm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// times extracts entry times for compact assertions.
func times(theme *Theme) []string {
	result := make([]string, 0, len(theme.Times))
	for _, e := range theme.Times {
		result = append(result, e.Time)
	}

	return result
}

// TestTheme_AddTime verifies sorted insertion and rejection of duplicates and bad input.
func TestTheme_AddTime(t *testing.T) {
	t.Parallel()

	theme := &Theme{Name: "Canopus", Enabled: true}

	require.NoError(t, theme.AddTime("10:00"))
	require.NoError(t, theme.AddTime("09:30"))
	require.NoError(t, theme.AddTime("23:59"))
	require.Equal(t, []string{"09:30", "10:00", "23:59"}, times(theme))
	require.True(t, theme.Times[0].Enabled)

	require.ErrorIs(t, theme.AddTime("09:30"), ErrDuplicateTime)
	require.ErrorIs(t, theme.AddTime("9:30"), ErrInvalidTime)
	require.Equal(t, []string{"09:30", "10:00", "23:59"}, times(theme))
}

// TestTheme_RemoveAndToggle covers exact-match removal and per-entry switching.
func TestTheme_RemoveAndToggle(t *testing.T) {
	t.Parallel()

	theme := &Theme{Times: []Entry{{Time: "09:30", Enabled: true}, {Time: "10:00", Enabled: true}}}

	require.NoError(t, theme.SetTimeEnabled("10:00", false))
	require.False(t, theme.Times[1].Enabled)
	require.ErrorIs(t, theme.SetTimeEnabled("11:00", true), ErrTimeNotFound)

	require.True(t, theme.RemoveTime("09:30"))
	require.False(t, theme.RemoveTime("09:30"))
	require.Equal(t, []string{"10:00"}, times(theme))
}

// TestThemes_InsertionOrder ensures iteration follows insertion order, not key order.
func TestThemes_InsertionOrder(t *testing.T) {
	t.Parallel()

	themes := NewThemes()
	require.NoError(t, themes.Add("zeta", "Zeta"))
	require.NoError(t, themes.Add("alpha", "Alpha"))
	require.NoError(t, themes.Add("mid", "Mid"))

	var keys []string
	for key := range themes.All() {
		keys = append(keys, key)
	}

	require.Equal(t, []string{"zeta", "alpha", "mid"}, keys)
	require.Equal(t, keys, themes.Keys())

	// Overwriting keeps the position.
	themes.Set("zeta", &Theme{Name: "Zeta 2"})
	require.Equal(t, keys, themes.Keys())
}

// TestThemes_AddRemove covers duplicate keys, empty input and the last-theme rule.
func TestThemes_AddRemove(t *testing.T) {
	t.Parallel()

	themes := NewThemes()
	require.ErrorIs(t, themes.Add("", "x"), ErrInvalidTheme)
	require.ErrorIs(t, themes.Add("x", "  "), ErrInvalidTheme)

	require.NoError(t, themes.Add("a", "A"))
	require.ErrorIs(t, themes.Add("a", "Again"), ErrThemeExists)
	require.NoError(t, themes.Add("b", "B"))

	require.ErrorIs(t, themes.Remove("missing"), ErrThemeNotFound)
	require.NoError(t, themes.Remove("a"))
	require.ErrorIs(t, themes.Remove("b"), ErrLastTheme)
	require.Equal(t, 1, themes.Len())
}

// TestThemes_Rename keeps the position and refuses taken keys.
func TestThemes_Rename(t *testing.T) {
	t.Parallel()

	themes := NewThemes()
	require.NoError(t, themes.Add("a", "A"))
	require.NoError(t, themes.Add("aries", "Aries"))
	require.NoError(t, themes.Add("c", "C"))

	require.True(t, themes.Rename("aries", "timbo"))
	require.Equal(t, []string{"a", "timbo", "c"}, themes.Keys())

	require.False(t, themes.Rename("timbo", "c"))
	require.False(t, themes.Rename("missing", "x"))
}

// TestThemes_CloneIsDeep verifies that mutating a clone leaves the source untouched.
func TestThemes_CloneIsDeep(t *testing.T) {
	t.Parallel()

	source := DefaultThemes()
	cloned := source.Clone()

	theme, ok := cloned.Get("polarisA")
	require.True(t, ok)
	require.True(t, theme.RemoveTime("09:30"))
	theme.Enabled = false

	original, _ := source.Get("polarisA")
	require.True(t, original.Enabled)
	require.Equal(t, "09:30", original.Times[0].Time)
}

// TestDefaultThemes checks the seed set and that every call returns a new copy.
func TestDefaultThemes(t *testing.T) {
	t.Parallel()

	first := DefaultThemes()
	second := DefaultThemes()

	require.Equal(t,
		[]string{"polarisA", "polarisB", "canopus", "timbo", "procion", "geforce", "sandcraft"},
		first.Keys(),
	)

	a, _ := first.Get("canopus")
	b, _ := second.Get("canopus")
	require.NotSame(t, a, b)
	require.Len(t, a.Times, 10)

	empty, _ := first.Get("procion")
	require.Empty(t, empty.Times)
}

// TestRestoreDefaults re-adds missing seed themes only.
func TestRestoreDefaults(t *testing.T) {
	t.Parallel()

	themes := NewThemes()
	require.NoError(t, themes.Add("canopus", "Custom"))

	require.True(t, RestoreDefaults(themes))
	require.Equal(t, 7, themes.Len())

	custom, _ := themes.Get("canopus")
	require.Equal(t, "Custom", custom.Name)

	require.False(t, RestoreDefaults(themes))
}

// TestAlert_Message renders the user-facing text.
func TestAlert_Message(t *testing.T) {
	t.Parallel()

	a := &Alert{Time: "09:30", ThemeName: "Polaris A"}
	require.Equal(t, "Polaris A alarm (09:30) in 6 minutes", a.Message(6))
}
