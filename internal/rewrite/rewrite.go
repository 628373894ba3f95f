// Package rewrite substitutes template placeholders in jbeam and materials
// documents.
package rewrite

import (
	"strings"

	"github.com/battlewithbytes/skinstudio/internal/jsondoc"
)

// Values are the substitutions applied to a template copy.
type Values struct {
	Author      string
	DisplayName string
	// SkinID is the display name with spaces removed. Used in keys and
	// texture file names.
	SkinID string
	// SkinFolder is the display name with spaces replaced by underscores.
	// Used for directories in paths.
	SkinFolder string
	// CarID replaces the carid token when set.
	CarID string
	// Texture is the file name of the skin's texture inside the skin
	// folder. When set, a material whose second stage points at a concrete
	// texture is repointed at it.
	Texture string
}

// TextureFile returns the texture file name for a skin of carID:
// <carid>_skin_<skinID>.dds, the name placeholder paths resolve to.
func TextureFile(carID, skinID string) string {
	return carID + skinKeyMarker + skinID + ".dds"
}

// JBeam applies the jbeam substitutions to doc and reports whether anything
// changed.
//
// Only the first "authors" and the first "name" string in document order are
// replaced. For a typical skin file that is information.authors and
// information.name, but a "name" appearing earlier in the document wins.
func JBeam(doc *jsondoc.Value, v Values) bool {
	changed := false
	set := func(s *jsondoc.Value, to string) {
		if s.Str != to {
			s.Str = to
			changed = true
		}
	}

	firstString(doc, "authors", func(s *jsondoc.Value) { set(s, v.Author) })
	firstString(doc, "name", func(s *jsondoc.Value) { set(s, v.DisplayName) })

	doc.WalkMembers(func(m *jsondoc.Member) bool {
		if key, ok := replaceSkinKey(m.Key, v.SkinID); ok && key != m.Key {
			m.Key = key
			changed = true
		}
		if key, ok := replaceExtraSkin(m.Key, v.SkinID); ok {
			m.Key = key
			changed = true
		}
		switch m.Key {
		case "globalSkin":
			if m.Value.IsString() && equalFold(m.Value.Str, Placeholder) {
				set(m.Value, v.SkinID)
			}
		case "name", "mapTo":
			if m.Value.IsString() {
				if s, ok := replaceExtraSkin(m.Value.Str, v.SkinID); ok {
					set(m.Value, s)
				}
			}
		}
		return true
	})

	if pathsAndCarID(doc, v) {
		changed = true
	}
	return changed
}

// Materials applies the materials substitutions to doc and reports whether
// anything changed.
func Materials(doc *jsondoc.Value, v Values) bool {
	changed := false
	doc.WalkMembers(func(m *jsondoc.Member) bool {
		if key, ok := replaceMaterialSkin(m.Key, v.SkinID); ok && key != m.Key {
			m.Key = key
			changed = true
		}
		if key, ok := replaceExtraSkin(m.Key, v.SkinID); ok {
			m.Key = key
			changed = true
		}
		if (m.Key == "name" || m.Key == "mapTo") && m.Value.IsString() {
			s := m.Value.Str
			if r, ok := replaceMaterialSkin(s, v.SkinID); ok {
				s = r
			}
			if r, ok := replaceExtraSkin(s, v.SkinID); ok {
				s = r
			}
			if s != m.Value.Str {
				m.Value.Str = s
				changed = true
			}
		}
		return true
	})

	if repointTextures(doc, v) {
		changed = true
	}
	if pathsAndCarID(doc, v) {
		changed = true
	}
	return changed
}

// repointTextures sets Stages[1].baseColorMap of every top-level material to
// vehicles/<carid>/<skin folder>/<texture> when the path carries no
// placeholder. Placeholder paths are left to pathsAndCarID.
func repointTextures(doc *jsondoc.Value, v Values) bool {
	if v.CarID == "" || v.Texture == "" || doc == nil || doc.Kind != jsondoc.Object {
		return false
	}
	want := "vehicles/" + v.CarID + "/" + v.SkinFolder + "/" + v.Texture
	changed := false
	for _, m := range doc.Members {
		bcm := m.Value.Get("Stages").Index(1).Get("baseColorMap")
		if !bcm.IsString() || strings.Contains(asciiLower(bcm.Str), asciiLower(Placeholder)) {
			continue
		}
		if bcm.Str != want {
			bcm.Str = want
			changed = true
		}
	}
	return changed
}

// pathsAndCarID rewrites path placeholders in string values, then the carid
// token in keys and string values.
func pathsAndCarID(doc *jsondoc.Value, v Values) bool {
	changed := false
	doc.WalkStrings(func(s *jsondoc.Value) {
		out := replacePaths(s.Str, v)
		out = ReplaceCarID(out, v.CarID)
		if out != s.Str {
			s.Str = out
			changed = true
		}
	})
	if v.CarID != "" {
		doc.WalkMembers(func(m *jsondoc.Member) bool {
			if key := ReplaceCarID(m.Key, v.CarID); key != m.Key {
				m.Key = key
				changed = true
			}
			return true
		})
	}
	return changed
}

func firstString(doc *jsondoc.Value, key string, fn func(s *jsondoc.Value)) {
	doc.WalkMembers(func(m *jsondoc.Member) bool {
		if m.Key == key && m.Value.IsString() {
			fn(m.Value)
			return false
		}
		return true
	})
}
