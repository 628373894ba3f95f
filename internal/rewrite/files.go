package rewrite

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/battlewithbytes/skinstudio/internal/jsondoc"
)

// Kind selects the substitution rules for a file.
type Kind int

const (
	KindJBeam Kind = iota
	KindMaterials
)

// KindOf classifies a file by name. Info files (info*.json) belong to the
// vehicle configuration and are not rewritten.
func KindOf(name string) (Kind, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".jbeam"):
		return KindJBeam, true
	case strings.HasSuffix(lower, ".json") && !strings.HasPrefix(lower, "info"):
		return KindMaterials, true
	}
	return 0, false
}

// File rewrites a single file in place. The file is read and parsed in full
// before anything is written, and it is left untouched when no substitution
// applies. The returned bool reports whether the file was written.
func File(path string, kind Kind, v Values) (bool, error) {
	doc, err := jsondoc.ReadFile(path)
	if err != nil {
		return false, err
	}

	var changed bool
	switch kind {
	case KindJBeam:
		changed = JBeam(doc, v)
	case KindMaterials:
		changed = Materials(doc, v)
	default:
		return false, fmt.Errorf("unknown file kind %d", kind)
	}
	if !changed {
		return false, nil
	}
	if err := jsondoc.WriteFile(path, doc); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

// Summary counts the files visited by Dir.
type Summary struct {
	JBeam     int
	Materials int
	Written   int
}

// Dir rewrites every jbeam and materials file under root. The first failing
// file aborts the walk.
func Dir(root string, v Values) (Summary, error) {
	var sum Summary
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		kind, ok := KindOf(d.Name())
		if !ok {
			return nil
		}
		if kind == KindJBeam {
			sum.JBeam++
		} else {
			sum.Materials++
		}
		written, err := File(path, kind, v)
		if err != nil {
			return err
		}
		if written {
			sum.Written++
		}
		return nil
	})
	return sum, err
}

// RenameFiles replaces the placeholder token in file names under root with
// skinID, e.g. etk800_skin_SKINNAME.jbeam becomes etk800_skin_RedSkin.jbeam.
// It returns the new paths relative to root.
func RenameFiles(root, skinID string) ([]string, error) {
	var renames [][2]string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := replaceFold(d.Name(), Placeholder, skinID)
		if name != d.Name() {
			renames = append(renames, [2]string{path, filepath.Join(filepath.Dir(path), name)})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var renamed []string
	for _, r := range renames {
		if _, err := os.Stat(r[1]); err == nil {
			return renamed, fmt.Errorf("renaming %s: %s already exists", filepath.Base(r[0]), filepath.Base(r[1]))
		}
		if err := os.Rename(r[0], r[1]); err != nil {
			return renamed, fmt.Errorf("renaming %s: %w", filepath.Base(r[0]), err)
		}
		rel, _ := filepath.Rel(root, r[1])
		renamed = append(renamed, filepath.ToSlash(rel))
	}
	return renamed, nil
}
