// Package theme implements persistence of the theme collection.
//
// Two Repository implementations are provided: FileRepository stores the
// collection as a JSON object on an afero filesystem, SQLiteRepository keeps
// it in two SQLite tables. Both return a fresh copy of the default themes on
// first run and upgrade legacy records while loading: bare "HH:MM" strings
// become enabled entries and renamed theme keys are moved to their new key.
package theme
