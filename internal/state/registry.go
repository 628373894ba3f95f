package state

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
)

// Vehicle is a user-registered vehicle template.
type Vehicle struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Registry is the ordered car id to display name mapping stored in
// vehicles/added_vehicles.json. Last writer wins; there is no file locking.
type Registry struct {
	mu       sync.Mutex
	path     string
	vehicles []Vehicle
}

// LoadRegistry reads the registry file, returning an empty registry when it
// does not exist.
func LoadRegistry(path string) (*Registry, error) {
	r := &Registry{path: path}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s: invalid JSON", path)
	}
	gjson.ParseBytes(data).ForEach(func(key, val gjson.Result) bool {
		r.vehicles = append(r.vehicles, Vehicle{ID: key.String(), Name: val.String()})
		return true
	})
	return r, nil
}

// List returns the registered vehicles in registration order.
func (r *Registry) List() []Vehicle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Vehicle(nil), r.vehicles...)
}

// Name returns the display name of a registered vehicle.
func (r *Registry) Name(id string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.vehicles {
		if v.ID == id {
			return v.Name, true
		}
	}
	return "", false
}

// Register adds or renames a vehicle.
func (r *Registry) Register(id, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, v := range r.vehicles {
		if v.ID == id {
			r.vehicles[i].Name = name
			return
		}
	}
	r.vehicles = append(r.vehicles, Vehicle{ID: id, Name: name})
}

// Unregister removes a vehicle. It reports whether it was registered.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, v := range r.vehicles {
		if v.ID == id {
			r.vehicles = append(r.vehicles[:i], r.vehicles[i+1:]...)
			return true
		}
	}
	return false
}

// Save writes the registry as a JSON object in registration order.
func (r *Registry) Save() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range r.vehicles {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(v.ID)
		n, _ := json.Marshal(v.Name)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(n)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "    "); err != nil {
		return err
	}
	out.WriteByte('\n')
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("creating vehicles directory: %w", err)
	}
	if err := os.WriteFile(r.path, out.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing vehicle registry: %w", err)
	}
	return nil
}

// DefaultConfigTypes are used when carconfigs.txt is missing or empty.
var DefaultConfigTypes = []string{"Factory", "Custom", "Police"}

// LoadConfigTypes reads one config type per non-blank line. A missing file
// is created with the defaults.
func LoadConfigTypes(path string) ([]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
		content := strings.Join(DefaultConfigTypes, "\n") + "\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return nil, fmt.Errorf("creating %s: %w", path, err)
		}
		return append([]string(nil), DefaultConfigTypes...), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var types []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			types = append(types, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return append([]string(nil), DefaultConfigTypes...), nil
	}
	return types, nil
}
