package theme

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	domain "github.com/oshokin/theme-alarm/internal/domain/alarm"
)

// errNotObject is returned when the stored document is not a JSON object.
var errNotObject = errors.New("theme document must be a JSON object")

// themeRecord is the stored shape of a theme.
type themeRecord struct {
	Name    string          `json:"name"`
	Enabled bool            `json:"enabled"`
	Times   json.RawMessage `json:"times"`
}

// entryRecord is the stored shape of an alarm entry.
type entryRecord struct {
	Time    string `json:"time"`
	Enabled bool   `json:"enabled"`
}

// encodedTheme is used when writing, where times are always structured.
type encodedTheme struct {
	Name    string        `json:"name"`
	Enabled bool          `json:"enabled"`
	Times   []entryRecord `json:"times"`
}

// decodeThemes parses a stored document keeping the key order of the object.
// The boolean result reports whether legacy records were upgraded.
func decodeThemes(data []byte) (*domain.Themes, bool, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))

	token, err := decoder.Token()
	if err != nil {
		return nil, false, fmt.Errorf("read document start: %w", err)
	}

	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, false, errNotObject
	}

	var (
		themes   = domain.NewThemes()
		migrated bool
	)

	for decoder.More() {
		token, err = decoder.Token()
		if err != nil {
			return nil, false, fmt.Errorf("read theme key: %w", err)
		}

		key, ok := token.(string)
		if !ok {
			return nil, false, errNotObject
		}

		var record themeRecord
		if err = decoder.Decode(&record); err != nil {
			return nil, false, fmt.Errorf("decode theme %q: %w", key, err)
		}

		entries, upgraded, err := decodeEntries(record.Times)
		if err != nil {
			return nil, false, fmt.Errorf("decode times of %q: %w", key, err)
		}

		migrated = migrated || upgraded

		themes.Set(key, &domain.Theme{
			Name:    record.Name,
			Enabled: record.Enabled,
			Times:   entries,
		})
	}

	if _, err = decoder.Token(); err != nil {
		return nil, false, fmt.Errorf("read document end: %w", err)
	}

	return themes, migrated, nil
}

// decodeEntries accepts both structured entries and bare "HH:MM" strings.
// A missing or non-array value yields an empty list.
func decodeEntries(raw json.RawMessage) ([]domain.Entry, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return []domain.Entry{}, true, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, err
	}

	var (
		entries  = make([]domain.Entry, 0, len(items))
		migrated bool
	)

	for _, item := range items {
		item = bytes.TrimSpace(item)

		if len(item) > 0 && item[0] == '"' {
			var value string
			if err := json.Unmarshal(item, &value); err != nil {
				return nil, false, err
			}

			entries = append(entries, domain.Entry{Time: value, Enabled: true})
			migrated = true

			continue
		}

		var record entryRecord
		if err := json.Unmarshal(item, &record); err != nil {
			return nil, false, err
		}

		entries = append(entries, domain.Entry{Time: record.Time, Enabled: record.Enabled})
	}

	return entries, migrated, nil
}

// encodeThemes writes the collection as an indented JSON object in iteration order.
func encodeThemes(themes *domain.Themes) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	first := true

	for key, theme := range themes.All() {
		if !first {
			buf.WriteByte(',')
		}

		first = false

		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("encode key %q: %w", key, err)
		}

		record := encodedTheme{
			Name:    theme.Name,
			Enabled: theme.Enabled,
			Times:   make([]entryRecord, 0, len(theme.Times)),
		}

		for _, entry := range theme.Times {
			record.Times = append(record.Times, entryRecord{Time: entry.Time, Enabled: entry.Enabled})
		}

		encodedValue, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("encode theme %q: %w", key, err)
		}

		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(encodedValue)
	}

	buf.WriteByte('}')

	var indented bytes.Buffer
	if err := json.Indent(&indented, buf.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("indent themes: %w", err)
	}

	return indented.Bytes(), nil
}
