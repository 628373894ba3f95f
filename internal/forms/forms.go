// Package forms holds the interactive prompts used when commands are run
// without the flags they need.
package forms

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/battlewithbytes/skinstudio/internal/material"
	"github.com/battlewithbytes/skinstudio/internal/project"
	"github.com/battlewithbytes/skinstudio/internal/vehicles"
)

// ProjectAnswers are the values collected by ProjectForm.
type ProjectAnswers struct {
	ModName string
	Author  string
	CarID   string
	// SkinName and DDSPath are optional; an empty name skips the first skin.
	SkinName string
	DDSPath  string
}

// VehicleAnswers are the values collected by VehicleForm.
type VehicleAnswers struct {
	CarID         string
	Name          string
	MaterialsPath string
	JBeamPath     string
	PreviewPath   string
	Policy        string
}

// ProjectForm builds the "project init" form. cars lists the vehicles that
// have a template; when empty the car step is skipped.
func ProjectForm(cars []string, answers *ProjectAnswers) *huh.Form {
	if answers.Author == "" {
		answers.Author = project.DefaultAuthor
	}

	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewNote().
				Title("New skin pack").
				Description("Name the mod and its author. The mod name becomes the ZIP file name."),
			huh.NewInput().
				Title("Mod name").
				Value(&answers.ModName).
				Validate(ValidateModName),
			huh.NewInput().
				Title("Author").
				Value(&answers.Author),
		),
	}

	if len(cars) > 0 {
		opts := make([]huh.Option[string], 0, len(cars)+1)
		opts = append(opts, huh.NewOption("None for now", ""))
		for _, c := range cars {
			opts = append(opts, huh.NewOption(c, c))
		}
		groups = append(groups,
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("First vehicle").
					Options(opts...).
					Value(&answers.CarID),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Skin name").
					Description("Leave empty to add skins later.").
					Value(&answers.SkinName),
				huh.NewInput().
					Title("Texture (.dds)").
					Value(&answers.DDSPath).
					Validate(func(s string) error {
						if strings.TrimSpace(answers.SkinName) == "" {
							return nil
						}
						return ValidateFile(".dds")(s)
					}),
			).WithHideFunc(func() bool { return answers.CarID == "" }),
		)
	}

	return huh.NewForm(groups...).WithTheme(huh.ThemeCatppuccin())
}

// VehicleForm builds the "vehicle add" form.
func VehicleForm(answers *VehicleAnswers) *huh.Form {
	if answers.Policy == "" {
		answers.Policy = material.LargestGroupThenFirstSeen.String()
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Add a vehicle").
				Description("Point at the donor car's materials and skin jbeam files.\n"+
					"A template is generated under vehicles/<carid>/SKINNAME."),
			huh.NewInput().
				Title("Car ID").
				Description("The vehicle's folder name in BeamNG, e.g. etk800").
				Value(&answers.CarID).
				Validate(vehicles.ValidateCarID),
			huh.NewInput().
				Title("Display name").
				Value(&answers.Name).
				Validate(ValidateNonEmpty("display name")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Materials file").
				Value(&answers.MaterialsPath).
				Validate(ValidateFile(".json")),
			huh.NewInput().
				Title("Skin jbeam file").
				Value(&answers.JBeamPath).
				Validate(ValidateFile(".jbeam")),
			huh.NewInput().
				Title("Preview image (optional)").
				Value(&answers.PreviewPath).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					return ValidateFile(".jpg", ".jpeg")(s)
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Skin material selection").
				Description("Which group of skin materials to keep when the donor has several.").
				Options(
					huh.NewOption("Largest group", material.LargestGroupThenFirstSeen.String()),
					huh.NewOption("First group", material.FirstSeen.String()),
				).
				Value(&answers.Policy),
		),
	).WithTheme(huh.ThemeCatppuccin())
}

// ValidateModName rejects names that sanitize to nothing or to a path.
func ValidateModName(s string) error {
	return project.CheckModName(s)
}

// ValidateNonEmpty returns a validator that rejects blank input.
func ValidateNonEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

// ValidateFile returns a validator accepting an existing regular file with
// one of the given extensions (case-insensitive).
func ValidateFile(exts ...string) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return fmt.Errorf("path cannot be empty")
		}
		ext := strings.ToLower(filepath.Ext(s))
		ok := len(exts) == 0
		for _, e := range exts {
			if ext == e {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("expected a %s file", strings.Join(exts, " or "))
		}
		info, err := os.Stat(s)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", s, err)
		}
		if !info.Mode().IsRegular() {
			return fmt.Errorf("%s is not a file", s)
		}
		return nil
	}
}
