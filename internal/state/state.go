// Package state holds the application state shared by commands: UI
// settings, the registry of user-added vehicles and the list of vehicle
// configuration types. It is loaded once at startup and passed explicitly.
package state

import (
	"fmt"
	"path/filepath"
)

const (
	SettingsFile    = "app_settings.json"
	VehiclesFile    = "added_vehicles.json"
	ConfigTypesFile = "carconfigs.txt"
)

// AppState is the loaded application state.
type AppState struct {
	DataDir     string
	VehiclesDir string
	Settings    *Settings
	Vehicles    *Registry
	ConfigTypes []string
}

// Load reads all state files. Missing files yield defaults; a missing
// carconfigs.txt is created with the default types.
func Load(dataDir, vehiclesDir string) (*AppState, error) {
	settings, err := LoadSettings(filepath.Join(dataDir, SettingsFile))
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	reg, err := LoadRegistry(filepath.Join(vehiclesDir, VehiclesFile))
	if err != nil {
		return nil, fmt.Errorf("loading vehicle registry: %w", err)
	}
	types, err := LoadConfigTypes(filepath.Join(vehiclesDir, ConfigTypesFile))
	if err != nil {
		return nil, fmt.Errorf("loading config types: %w", err)
	}
	return &AppState{
		DataDir:     dataDir,
		VehiclesDir: vehiclesDir,
		Settings:    settings,
		Vehicles:    reg,
		ConfigTypes: types,
	}, nil
}

// Save writes the settings and the vehicle registry.
func (s *AppState) Save() error {
	if err := s.Settings.Save(); err != nil {
		return err
	}
	return s.Vehicles.Save()
}

// HasConfigType reports whether t is one of the known config types.
func (s *AppState) HasConfigType(t string) bool {
	for _, ct := range s.ConfigTypes {
		if ct == t {
			return true
		}
	}
	return false
}
