package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// Extension is the project file extension.
const Extension = ".bsproject"

// ErrNotProject is returned when a file has no "cars" key.
var ErrNotProject = errors.New("not a project file: missing \"cars\"")

// Cars is the ordered car mapping. It encodes as a JSON object keyed by car
// instance id and keeps the key order of the source document.
type Cars []*Car

// MarshalJSON writes the cars as an object in slice order.
func (cs Cars) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range cs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.ID)
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("car %s: %w", c.ID, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object of cars in document order. A missing
// base_carid falls back to the instance id. Repeated ids keep the first.
func (cs *Cars) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	if res.Type == gjson.Null {
		*cs = nil
		return nil
	}
	if !res.IsObject() {
		return errors.New("cars must be an object")
	}

	var out Cars
	seen := make(map[string]bool)
	var err error
	res.ForEach(func(key, val gjson.Result) bool {
		id := key.String()
		if seen[id] {
			return true
		}
		c := &Car{}
		if err = json.Unmarshal([]byte(val.Raw), c); err != nil {
			err = fmt.Errorf("car %s: %w", id, err)
			return false
		}
		c.ID = id
		if c.BaseCarID == "" {
			c.BaseCarID = id
		}
		if c.Skins == nil {
			c.Skins = []Skin{}
		}
		seen[id] = true
		out = append(out, c)
		return true
	})
	if err != nil {
		return err
	}
	*cs = out
	return nil
}

// Load reads a project file. Only the presence of "cars" is validated.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parsing project %s: invalid JSON", path)
	}
	if !gjson.GetBytes(data, "cars").Exists() {
		return nil, ErrNotProject
	}

	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing project: %w", err)
	}
	return &p, nil
}

// Save writes the project to path, creating parent directories as needed.
func (p *Project) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling project: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing project: %w", err)
	}
	return nil
}
