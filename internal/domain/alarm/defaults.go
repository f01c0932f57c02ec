package alarm

// defaultTheme describes one seeded theme.
type defaultTheme struct {
	key   string
	name  string
	times []string
}

// defaultThemes is the seed collection used on first run.
//
//nolint:gochecknoglobals // Read-only seed data, copied on every use.
var defaultThemes = []defaultTheme{
	{
		key:   "polarisA",
		name:  "Polaris A",
		times: []string{"09:30", "10:00", "10:30", "13:30", "14:00", "16:00", "16:30", "17:00"},
	},
	{
		key:   "polarisB",
		name:  "Polaris B",
		times: []string{"11:00", "11:30", "12:00", "14:30", "15:00", "15:30", "17:00"},
	},
	{
		key:  "canopus",
		name: "Canopus",
		times: []string{
			"09:20", "10:10", "10:50", "11:30", "12:10",
			"14:00", "14:40", "15:40", "16:20", "17:30",
		},
	},
	{
		key:   "timbo",
		name:  "팀보로봇",
		times: []string{"10:20", "11:10", "13:00", "13:50", "14:40", "15:30", "16:20"},
	},
	{key: "procion", name: "프로시온"},
	{key: "geforce", name: "지포스"},
	{key: "sandcraft", name: "샌드크래프트"},
}

// LegacyRename maps an obsolete theme key to its replacement and new name.
type LegacyRename struct {
	From string
	To   string
	Name string
}

// LegacyRenames lists theme keys renamed since earlier releases.
func LegacyRenames() []LegacyRename {
	return []LegacyRename{
		{From: "aries", To: "timbo", Name: "팀보로봇"},
	}
}

// DefaultThemes returns a fresh deep copy of the seed themes.
func DefaultThemes() *Themes {
	themes := NewThemes()

	for _, seed := range defaultThemes {
		themes.Set(seed.key, newDefaultTheme(seed))
	}

	return themes
}

// newDefaultTheme builds an enabled theme from seed data.
func newDefaultTheme(seed defaultTheme) *Theme {
	theme := &Theme{
		Name:    seed.name,
		Enabled: true,
		Times:   make([]Entry, 0, len(seed.times)),
	}

	for _, value := range seed.times {
		theme.Times = append(theme.Times, Entry{Time: value, Enabled: true})
	}

	return theme
}

// RestoreDefaults adds every seed theme missing from themes and reports
// whether anything was added.
func RestoreDefaults(themes *Themes) bool {
	restored := false

	for _, seed := range defaultThemes {
		if _, ok := themes.Get(seed.key); ok {
			continue
		}

		themes.Set(seed.key, newDefaultTheme(seed))

		restored = true
	}

	return restored
}
