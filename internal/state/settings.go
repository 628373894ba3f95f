package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Themes
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Settings are the persisted UI settings. Keys this program does not know
// about are carried through unchanged on save.
type Settings struct {
	Theme       string
	FirstLaunch bool

	path string
	raw  []byte
}

// LoadSettings reads app_settings.json. A missing or unreadable document
// yields the defaults (dark theme, first launch).
func LoadSettings(path string) (*Settings, error) {
	s := &Settings{Theme: ThemeDark, FirstLaunch: true, path: path}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return s, nil
	}
	s.raw = data
	if v := gjson.GetBytes(data, "theme"); v.Type == gjson.String {
		s.Theme = v.String()
	}
	if v := gjson.GetBytes(data, "first_launch"); v.IsBool() {
		s.FirstLaunch = v.Bool()
	}
	return s, nil
}

// Validate checks the theme name.
func (s *Settings) Validate() error {
	switch s.Theme {
	case ThemeDark, ThemeLight:
		return nil
	}
	return fmt.Errorf("theme must be %q or %q", ThemeDark, ThemeLight)
}

// Save writes the settings back, keeping unknown keys.
func (s *Settings) Save() error {
	if err := s.Validate(); err != nil {
		return err
	}
	doc := s.raw
	if len(doc) == 0 {
		doc = []byte("{}")
	}
	doc, err := sjson.SetBytes(doc, "theme", s.Theme)
	if err != nil {
		return fmt.Errorf("setting theme: %w", err)
	}
	doc, err = sjson.SetBytes(doc, "first_launch", s.FirstLaunch)
	if err != nil {
		return fmt.Errorf("setting first_launch: %w", err)
	}

	var compact, out bytes.Buffer
	if err := json.Compact(&compact, doc); err != nil {
		return fmt.Errorf("formatting settings: %w", err)
	}
	if err := json.Indent(&out, compact.Bytes(), "", "    "); err != nil {
		return fmt.Errorf("formatting settings: %w", err)
	}
	out.WriteByte('\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(s.path, out.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	s.raw = out.Bytes()
	return nil
}
