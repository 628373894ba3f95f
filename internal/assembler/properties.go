package assembler

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/battlewithbytes/skinstudio/internal/jsondoc"
	"github.com/battlewithbytes/skinstudio/internal/project"
)

func isMaterialsFile(name string) bool {
	return name == "materials.json" || strings.HasSuffix(name, ".materials.json")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// materialBase returns the part of a material key before ".skin.".
func materialBase(key string) string {
	if i := strings.Index(key, ".skin."); i >= 0 {
		return key[:i]
	}
	return key
}

// applyMaterialProperties sets Stages[n].<prop> for every configured
// material in each materials file under dir. A configured key matches the
// first material named <base>.skin.* in a file. It returns warnings.
func applyMaterialProperties(dir string, props project.MaterialProperties) []string {
	var files, warnings []string
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("material properties: %v", err))
			return nil
		}
		if !d.IsDir() && isMaterialsFile(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if len(files) == 0 {
		if len(warnings) > 0 {
			return warnings
		}
		return []string{"material properties set but no materials file found"}
	}

	for _, path := range files {
		doc, err := jsondoc.ReadFile(path)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("material properties: %v", err))
			continue
		}
		modified := false
		for _, key := range sortedKeys(props) {
			prefix := materialBase(key) + ".skin."
			var mat *jsondoc.Member
			for _, m := range doc.Members {
				if strings.HasPrefix(m.Key, prefix) {
					mat = m
					break
				}
			}
			if mat == nil {
				continue
			}
			stages := mat.Value.Get("Stages")
			if stages == nil || stages.Kind != jsondoc.Array {
				continue
			}
			for _, stageKey := range sortedKeys(props[key]) {
				n, err := strconv.Atoi(stageKey)
				if err != nil || n < 0 {
					warnings = append(warnings, fmt.Sprintf("%s: invalid stage %q", mat.Key, stageKey))
					continue
				}
				stage := stages.Index(n)
				if stage == nil || stage.Kind != jsondoc.Object {
					warnings = append(warnings, fmt.Sprintf("%s: stage %d does not exist (%d stages)", mat.Key, n, len(stages.Items)))
					continue
				}
				values := props[key][stageKey]
				for _, name := range sortedKeys(values) {
					v, err := jsondoc.Parse(values[name])
					if err != nil {
						warnings = append(warnings, fmt.Sprintf("%s: stage %d: %s: %v", mat.Key, n, name, err))
						continue
					}
					stage.Set(name, v)
					modified = true
				}
			}
		}
		if modified {
			if err := jsondoc.WriteFile(path, doc); err != nil {
				warnings = append(warnings, fmt.Sprintf("writing %s: %v", filepath.Base(path), err))
			}
		}
	}
	return warnings
}
