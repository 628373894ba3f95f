// Package texture brings skin texture file names to the
// <carid>_skin_<name>.dds convention expected by BeamNG and keeps the
// skin's materials file in step with the renames.
package texture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const ext = ".dds"

// Rename is a texture file renamed inside a skin folder.
type Rename struct {
	CarID string
	Skin  string
	Old   string
	New   string
}

// Problem is a texture that could not be normalized.
type Problem struct {
	CarID string
	Skin  string
	File  string
	Err   string
}

// Report summarizes a normalization pass.
type Report struct {
	Renamed        []Rename
	AlreadyCorrect []string
	Errors         []Problem
	SkinsProcessed int
}

// InferName derives the skin part of a texture file name:
//
//	anything_skin_<name>.dds  -> text after the last "_skin_"
//	skin_<name>.dds           -> text after "skin_"
//	<x>skin<name>.dds         -> text after "skin", leading underscores dropped
//	<name>.dds                -> the stem
func InferName(file string) string {
	stem := file
	if strings.HasSuffix(strings.ToLower(stem), ext) {
		stem = stem[:len(stem)-len(ext)]
	}
	lower := strings.ToLower(stem)
	switch {
	case strings.Contains(lower, "_skin_"):
		return stem[strings.LastIndex(lower, "_skin_")+len("_skin_"):]
	case strings.HasPrefix(lower, "skin_"):
		return stem[len("skin_"):]
	case strings.Contains(lower, "skin"):
		return strings.TrimLeft(stem[strings.Index(lower, "skin")+len("skin"):], "_")
	}
	return stem
}

// conforms reports whether file already follows <carid>_skin_*.dds.
func conforms(file, carID string) bool {
	lower := strings.ToLower(file)
	return strings.HasPrefix(lower, strings.ToLower(carID)+"_skin_") && strings.HasSuffix(lower, ext)
}

// NormalizeSkin renames non-conforming textures in one skin folder. A rename
// whose target already exists is reported as an error and skipped.
func NormalizeSkin(dir, carID string, rep *Report) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	skin := filepath.Base(dir)
	rep.SkinsProcessed++
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(name), ext) {
			continue
		}
		if conforms(name, carID) {
			rep.AlreadyCorrect = append(rep.AlreadyCorrect, carID+"/"+skin+"/"+name)
			continue
		}
		problem := func(msg string) {
			rep.Errors = append(rep.Errors, Problem{CarID: carID, Skin: skin, File: name, Err: msg})
		}

		inferred := InferName(name)
		if inferred == "" {
			problem("could not infer a skin name")
			continue
		}
		target := carID + "_skin_" + inferred + ext
		if _, err := os.Stat(filepath.Join(dir, target)); err == nil {
			problem(fmt.Sprintf("target file already exists: %s", target))
			continue
		}
		if err := os.Rename(filepath.Join(dir, name), filepath.Join(dir, target)); err != nil {
			problem(fmt.Sprintf("rename failed: %v", err))
			continue
		}
		rep.Renamed = append(rep.Renamed, Rename{CarID: carID, Skin: skin, Old: name, New: target})
	}
	return nil
}

// Normalize walks vehicles/<carid>/<skin>/ under modRoot and normalizes every
// skin folder. A missing vehicles directory yields an empty report.
func Normalize(modRoot string) (*Report, error) {
	rep := &Report{}
	vehicles := filepath.Join(modRoot, "vehicles")
	cars, err := os.ReadDir(vehicles)
	if os.IsNotExist(err) {
		return rep, nil
	}
	if err != nil {
		return nil, err
	}
	for _, car := range cars {
		if !car.IsDir() {
			continue
		}
		skins, err := os.ReadDir(filepath.Join(vehicles, car.Name()))
		if err != nil {
			return nil, err
		}
		for _, skin := range skins {
			if !skin.IsDir() {
				continue
			}
			if err := NormalizeSkin(filepath.Join(vehicles, car.Name(), skin.Name()), car.Name(), rep); err != nil {
				return nil, err
			}
		}
	}
	return rep, nil
}

// PatchMaterials mirrors renames into each skin folder's skin.materials.json
// by replacing vehicles/<carid>/<skin>/<old> with .../<new>. This is a plain
// substring replace over the whole file, so the same text appearing in an
// unrelated value is replaced as well. It returns the patched files.
func PatchMaterials(modRoot string, renames []Rename) ([]string, error) {
	var patched []string
	for _, r := range renames {
		path := filepath.Join(modRoot, "vehicles", r.CarID, r.Skin, "skin.materials.json")
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return patched, err
		}
		oldPath := fmt.Sprintf("vehicles/%s/%s/%s", r.CarID, r.Skin, r.Old)
		newPath := fmt.Sprintf("vehicles/%s/%s/%s", r.CarID, r.Skin, r.New)
		content := string(data)
		if !strings.Contains(content, oldPath) {
			continue
		}
		if err := os.WriteFile(path, []byte(strings.ReplaceAll(content, oldPath, newPath)), 0644); err != nil {
			return patched, fmt.Errorf("patching %s: %w", path, err)
		}
		patched = append(patched, path)
	}
	return patched, nil
}
