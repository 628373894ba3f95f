// Package project models a skin pack: the mod name, its author and the
// ordered set of cars with the skins to generate for each.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DefaultAuthor is used when a project has no author.
const DefaultAuthor = "Unknown"

// Default config type for skins exported with a vehicle configuration.
const DefaultConfigType = "Factory"

var (
	ErrEmptyModName = errors.New("mod name is required")
	ErrNoCars       = errors.New("add at least one car to the project")
	ErrCarNotFound  = errors.New("car not found in project")
	ErrSkinNotFound = errors.New("skin not found")
	ErrEmptySkin    = errors.New("skin name is required")
)

// MissingSkinsError reports a car without any skins.
type MissingSkinsError struct {
	CarID string
}

func (e *MissingSkinsError) Error() string {
	return fmt.Sprintf("car %q has no skins", e.CarID)
}

// DuplicateSkinError reports two skins that would be written to the same
// vehicles/<carid>/<folder> directory.
type DuplicateSkinError struct {
	BaseCarID string
	Folder    string
}

func (e *DuplicateSkinError) Error() string {
	return fmt.Sprintf("skin folder %q is used twice for vehicle %q", e.Folder, e.BaseCarID)
}

// InvalidNameError reports a mod or skin name that cannot be used as a
// file or folder name.
type InvalidNameError struct {
	Kind string
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid %s name %q: must not contain path separators, colons or be \".\" or \"..\"", e.Kind, e.Name)
}

// Project is the content of a .bsproject file.
type Project struct {
	ModName string `json:"mod_name"`
	Author  string `json:"author"`
	Cars    Cars   `json:"cars"`
}

// Car is one car instance. ID is unique within the project; several
// instances may share a BaseCarID.
type Car struct {
	ID        string `json:"-"`
	BaseCarID string `json:"base_carid"`
	Skins     []Skin `json:"skins"`
}

// Skin is a single skin to generate.
type Skin struct {
	Name               string             `json:"name"`
	DDSPath            string             `json:"dds_path"`
	ConfigData         *ConfigData        `json:"config_data,omitempty"`
	MaterialProperties MaterialProperties `json:"material_properties,omitempty"`
}

// ConfigData exports a vehicle configuration (.pc), its thumbnail and an
// info file alongside the skin.
type ConfigData struct {
	ConfigType  string `json:"config_type"`
	ConfigName  string `json:"config_name,omitempty"`
	PCFilePath  string `json:"pc_file_path,omitempty"`
	JPGFilePath string `json:"jpg_file_path,omitempty"`
}

// MaterialProperties maps a material key to stage index to property values.
type MaterialProperties map[string]map[string]map[string]json.RawMessage

// New returns an empty project.
func New(modName, author string) *Project {
	return &Project{ModName: modName, Author: author}
}

// ID returns the skin's identifier used in keys and texture names.
func (s Skin) ID() string { return SkinID(s.Name) }

// Folder returns the skin's directory name.
func (s Skin) Folder() string { return SkinFolder(s.Name) }

// Type returns the configured type or the default.
func (c *ConfigData) Type() string {
	if c.ConfigType == "" {
		return DefaultConfigType
	}
	return c.ConfigType
}

// Name returns the in-game configuration name, falling back to fallback.
func (c *ConfigData) Name(fallback string) string {
	if c.ConfigName == "" {
		return fallback
	}
	return c.ConfigName
}

// AuthorOrDefault returns the author, or DefaultAuthor when unset.
func (p *Project) AuthorOrDefault() string {
	if a := strings.TrimSpace(p.Author); a != "" {
		return a
	}
	return DefaultAuthor
}

// Car returns the car instance with the given id.
func (p *Project) Car(id string) *Car {
	for _, c := range p.Cars {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// AddCar adds a new instance of baseCarID and returns its id: the base id
// for the first instance, then base_2, base_3 and so on.
func (p *Project) AddCar(baseCarID string) (string, error) {
	baseCarID = strings.TrimSpace(baseCarID)
	if baseCarID == "" {
		return "", errors.New("car id is required")
	}
	id := baseCarID
	for n := 2; p.Car(id) != nil; n++ {
		id = fmt.Sprintf("%s_%d", baseCarID, n)
	}
	p.Cars = append(p.Cars, &Car{ID: id, BaseCarID: baseCarID, Skins: []Skin{}})
	return id, nil
}

// RemoveCar removes the car instance with the given id.
func (p *Project) RemoveCar(id string) error {
	for i, c := range p.Cars {
		if c.ID == id {
			p.Cars = append(p.Cars[:i], p.Cars[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrCarNotFound, id)
}

// AddSkin appends a skin to a car instance.
func (p *Project) AddSkin(carID string, s Skin) error {
	c := p.Car(carID)
	if c == nil {
		return fmt.Errorf("%w: %s", ErrCarNotFound, carID)
	}
	if err := CheckSkinName(s.Name); err != nil {
		return err
	}
	c.Skins = append(c.Skins, s)
	return nil
}

// RemoveSkin removes the first skin with the given display name.
func (p *Project) RemoveSkin(carID, name string) error {
	c := p.Car(carID)
	if c == nil {
		return fmt.Errorf("%w: %s", ErrCarNotFound, carID)
	}
	for i, s := range c.Skins {
		if s.Name == name {
			c.Skins = append(c.Skins[:i], c.Skins[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q on %s", ErrSkinNotFound, name, carID)
}

// Clear removes every car.
func (p *Project) Clear() {
	p.Cars = nil
}

// SkinCount returns the number of skins across all cars.
func (p *Project) SkinCount() int {
	n := 0
	for _, c := range p.Cars {
		n += len(c.Skins)
	}
	return n
}

// Validate checks that the project can be generated.
func (p *Project) Validate() error {
	if err := CheckModName(p.ModName); err != nil {
		return err
	}
	if len(p.Cars) == 0 {
		return ErrNoCars
	}
	seen := make(map[string]bool)
	for _, c := range p.Cars {
		if len(c.Skins) == 0 {
			return &MissingSkinsError{CarID: c.ID}
		}
		for _, s := range c.Skins {
			if err := CheckSkinName(s.Name); err != nil {
				return fmt.Errorf("car %q: %w", c.ID, err)
			}
			key := c.BaseCarID + "/" + s.Folder()
			if seen[key] {
				return &DuplicateSkinError{BaseCarID: c.BaseCarID, Folder: s.Folder()}
			}
			seen[key] = true
		}
	}
	return nil
}
