package alarm

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Entry is one daily alarm time inside a theme.
type Entry struct {
	// Time is the wall-clock time of day in "HH:MM" form.
	Time string
	// Enabled tells whether the entry takes part in scheduling.
	Enabled bool
}

// Theme is a named group of alarm entries that can be switched on and off as a whole.
type Theme struct {
	// Name is the human-readable theme name shown in alerts.
	Name string
	// Enabled tells whether any entry of the theme is scheduled.
	Enabled bool
	// Times holds the entries sorted ascending by Time.
	Times []Entry
}

// Clone returns a deep copy of the theme.
func (t *Theme) Clone() *Theme {
	if t == nil {
		return nil
	}

	return &Theme{
		Name:    t.Name,
		Enabled: t.Enabled,
		Times:   slices.Clone(t.Times),
	}
}

// IndexOf returns the position of the entry with the exact time, or -1.
func (t *Theme) IndexOf(value string) int {
	return slices.IndexFunc(t.Times, func(e Entry) bool {
		return e.Time == value
	})
}

// AddTime validates and inserts a new enabled entry keeping the list sorted.
// Duplicates are rejected and leave the list untouched.
func (t *Theme) AddTime(value string) error {
	if err := ValidateTime(value); err != nil {
		return err
	}

	if t.IndexOf(value) >= 0 {
		return fmt.Errorf("%q: %w", value, ErrDuplicateTime)
	}

	t.Times = append(t.Times, Entry{Time: value, Enabled: true})
	t.SortTimes()

	return nil
}

// RemoveTime deletes the entry with the exact time and reports whether it existed.
func (t *Theme) RemoveTime(value string) bool {
	idx := t.IndexOf(value)
	if idx < 0 {
		return false
	}

	t.Times = slices.Delete(t.Times, idx, idx+1)

	return true
}

// SetTimeEnabled switches a single entry.
func (t *Theme) SetTimeEnabled(value string, enabled bool) error {
	idx := t.IndexOf(value)
	if idx < 0 {
		return fmt.Errorf("%q: %w", value, ErrTimeNotFound)
	}

	t.Times[idx].Enabled = enabled

	return nil
}

// SortTimes orders entries by their "HH:MM" string.
func (t *Theme) SortTimes() {
	slices.SortStableFunc(t.Times, func(a, b Entry) int {
		return strings.Compare(a.Time, b.Time)
	})
}

// Themes is an insertion-ordered mapping from theme key to Theme.
// The zero value is an empty collection ready to use.
type Themes struct {
	// keys preserves insertion order.
	keys []string
	// byKey holds the themes.
	byKey map[string]*Theme
}

// NewThemes returns an empty collection.
func NewThemes() *Themes {
	return &Themes{
		byKey: make(map[string]*Theme),
	}
}

// Len returns the number of themes.
func (c *Themes) Len() int {
	return len(c.keys)
}

// Keys returns the theme keys in iteration order.
func (c *Themes) Keys() []string {
	return slices.Clone(c.keys)
}

// Get returns the theme stored under key.
func (c *Themes) Get(key string) (*Theme, bool) {
	theme, ok := c.byKey[key]

	return theme, ok
}

// Set stores a theme. New keys go to the end, existing keys keep their position.
func (c *Themes) Set(key string, theme *Theme) {
	if c.byKey == nil {
		c.byKey = make(map[string]*Theme)
	}

	if _, ok := c.byKey[key]; !ok {
		c.keys = append(c.keys, key)
	}

	c.byKey[key] = theme
}

// Add stores a new, enabled and empty theme.
func (c *Themes) Add(key, name string) error {
	key = strings.TrimSpace(key)
	name = strings.TrimSpace(name)

	if key == "" || name == "" {
		return ErrInvalidTheme
	}

	if _, ok := c.byKey[key]; ok {
		return fmt.Errorf("%q: %w", key, ErrThemeExists)
	}

	c.Set(key, &Theme{Name: name, Enabled: true, Times: []Entry{}})

	return nil
}

// Remove deletes a theme. The last remaining theme cannot be deleted.
func (c *Themes) Remove(key string) error {
	if _, ok := c.byKey[key]; !ok {
		return fmt.Errorf("%q: %w", key, ErrThemeNotFound)
	}

	if len(c.keys) <= 1 {
		return ErrLastTheme
	}

	c.Delete(key)

	return nil
}

// Delete drops a theme without any checks.
func (c *Themes) Delete(key string) {
	if _, ok := c.byKey[key]; !ok {
		return
	}

	delete(c.byKey, key)
	c.keys = slices.DeleteFunc(c.keys, func(k string) bool {
		return k == key
	})
}

// Rename moves a theme to a new key, keeping its position.
// It does nothing if from is missing or to is taken.
func (c *Themes) Rename(from, to string) bool {
	theme, ok := c.byKey[from]
	if !ok {
		return false
	}

	if _, taken := c.byKey[to]; taken {
		return false
	}

	idx := slices.Index(c.keys, from)
	c.keys[idx] = to

	delete(c.byKey, from)
	c.byKey[to] = theme

	return true
}

// All iterates over the themes in insertion order.
func (c *Themes) All() iter.Seq2[string, *Theme] {
	return func(yield func(string, *Theme) bool) {
		for _, key := range c.keys {
			if !yield(key, c.byKey[key]) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the collection.
func (c *Themes) Clone() *Themes {
	if c == nil {
		return nil
	}

	cloned := &Themes{
		keys:  slices.Clone(c.keys),
		byKey: make(map[string]*Theme, len(c.byKey)),
	}

	for key, theme := range c.byKey {
		cloned.byKey[key] = theme.Clone()
	}

	return cloned
}
