// Package vehicles manages the on-disk library of vehicle templates under
// vehicles/<carid>/SKINNAME/.
package vehicles

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// TemplateFolder is the name of the template directory inside a vehicle.
const TemplateFolder = "SKINNAME"

var (
	ErrAlreadyExists = errors.New("vehicle already exists")
	ErrInvalidCarID  = errors.New("invalid car id")
)

// NotConfiguredError is returned when a vehicle has no template directory.
type NotConfiguredError struct {
	CarID string
	Path  string
}

func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("no template found for vehicle %q: expected %s (add it with `skinstudio vehicle add %s`)",
		e.CarID, e.Path, e.CarID)
}

// Library is rooted at the vehicles directory.
type Library struct {
	Root string
	log  zerolog.Logger
}

// NewLibrary returns a library rooted at root.
func NewLibrary(root string, log zerolog.Logger) *Library {
	return &Library{Root: root, log: log.With().Str("component", "vehicles").Logger()}
}

// ValidateCarID rejects ids that are empty or would escape the library.
func ValidateCarID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\:`) {
		return fmt.Errorf("%w: %q", ErrInvalidCarID, id)
	}
	return nil
}

// VehicleDir returns vehicles/<carid>.
func (l *Library) VehicleDir(carID string) string {
	return filepath.Join(l.Root, carID)
}

// TemplateDir returns vehicles/<carid>/SKINNAME.
func (l *Library) TemplateDir(carID string) string {
	return filepath.Join(l.Root, carID, TemplateFolder)
}

// HasTemplate reports whether carID has a template directory.
func (l *Library) HasTemplate(carID string) bool {
	info, err := os.Stat(l.TemplateDir(carID))
	return err == nil && info.IsDir()
}

// CheckTemplate returns a NotConfiguredError when carID has no template.
func (l *Library) CheckTemplate(carID string) error {
	if err := ValidateCarID(carID); err != nil {
		return err
	}
	if !l.HasTemplate(carID) {
		return &NotConfiguredError{CarID: carID, Path: l.TemplateDir(carID)}
	}
	return nil
}

// List returns the car ids that have a template, sorted.
func (l *Library) List() ([]string, error) {
	entries, err := os.ReadDir(l.Root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() && l.HasTemplate(e.Name()) {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// InfoTemplate finds the vehicle's info file used for configuration export:
// info.json, then info_template.json, then the first info*.json.
func (l *Library) InfoTemplate(carID string) (string, bool) {
	dir := l.VehicleDir(carID)
	for _, name := range []string{"info.json", "info_template.json"} {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, true
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "info") && strings.HasSuffix(e.Name(), ".json") {
			return filepath.Join(dir, e.Name()), true
		}
	}
	return "", false
}

// Remove deletes vehicles/<carid> and unregisters the vehicle.
func (l *Library) Remove(carID string, reg Registrar) error {
	if err := ValidateCarID(carID); err != nil {
		return err
	}
	dir := l.VehicleDir(carID)
	_, statErr := os.Stat(dir)
	registered := reg != nil && reg.Unregister(carID)
	if os.IsNotExist(statErr) && !registered {
		return fmt.Errorf("vehicle %q not found", carID)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing %s: %w", dir, err)
	}
	if registered {
		if err := reg.Save(); err != nil {
			return fmt.Errorf("saving vehicle registry: %w", err)
		}
	}
	l.log.Info().Str("car", carID).Msg("vehicle removed")
	return nil
}
