// Package material collapses the skin variants of a vehicle's materials and
// jbeam files to a single canonical variant named after the skinname
// placeholder, producing a template that the generator can rewrite.
package material

import (
	"fmt"
	"strings"

	"github.com/battlewithbytes/skinstudio/internal/jsondoc"
)

// Placeholder is the variant name written into canonical templates.
const Placeholder = "skinname"

const skinMarker = ".skin."

// SelectionPolicy chooses which variant group becomes canonical.
type SelectionPolicy int

const (
	// LargestGroupThenFirstSeen picks the group with the most members. Ties
	// go to the group seen first in the source document, which is an
	// arbitrary but stable choice.
	LargestGroupThenFirstSeen SelectionPolicy = iota
	// FirstSeen picks the first group encountered regardless of size.
	FirstSeen
)

func (p SelectionPolicy) String() string {
	switch p {
	case LargestGroupThenFirstSeen:
		return "largest"
	case FirstSeen:
		return "first"
	}
	return fmt.Sprintf("SelectionPolicy(%d)", int(p))
}

// ParsePolicy accepts the names produced by String.
func ParsePolicy(s string) (SelectionPolicy, error) {
	switch s {
	case "", "largest":
		return LargestGroupThenFirstSeen, nil
	case "first":
		return FirstSeen, nil
	}
	return 0, fmt.Errorf("unknown selection policy %q (want largest or first)", s)
}

// Result describes a filtering pass.
type Result struct {
	Doc *jsondoc.Value
	// Variant is the selected variant name, empty when no candidate existed.
	Variant    string
	Kept       []string
	Candidates int
	Discarded  int
}

type group struct {
	variant string
	members []*jsondoc.Member
}

// splitKey returns the prefix and variant of a candidate key. The variant is
// whatever follows the last ".skin." marker and must be non-empty.
func splitKey(key string) (prefix, variant string, ok bool) {
	i := strings.LastIndex(key, skinMarker)
	if i < 0 || i+len(skinMarker) == len(key) {
		return "", "", false
	}
	return key[:i], key[i+len(skinMarker):], true
}

// Filter returns a new document holding only the selected variant group of
// doc, renamed to the placeholder. doc itself is not modified. Output order
// follows the source order of the kept members.
func Filter(doc *jsondoc.Value, carID string, policy SelectionPolicy) *Result {
	res := &Result{Doc: jsondoc.NewObject()}
	if doc == nil || doc.Kind != jsondoc.Object {
		return res
	}

	var groups []*group
	byVariant := make(map[string]*group)
	for _, m := range doc.Members {
		_, variant, ok := splitKey(m.Key)
		if !ok {
			continue
		}
		res.Candidates++
		g := byVariant[variant]
		if g == nil {
			g = &group{variant: variant}
			byVariant[variant] = g
			groups = append(groups, g)
		}
		g.members = append(g.members, m)
	}
	res.Discarded = len(doc.Members)
	if len(groups) == 0 {
		return res
	}

	selected := groups[0]
	if policy == LargestGroupThenFirstSeen {
		for _, g := range groups[1:] {
			if len(g.members) > len(selected.members) {
				selected = g
			}
		}
	}

	res.Variant = selected.variant
	for _, m := range selected.members {
		prefix, _, _ := splitKey(m.Key)
		val := m.Value.Clone()
		canonicalize(val, prefix, selected.variant, carID)
		res.Doc.Members = append(res.Doc.Members, &jsondoc.Member{
			Key:   prefix + skinMarker + Placeholder,
			Value: val,
		})
		res.Kept = append(res.Kept, m.Key)
	}
	res.Discarded -= len(selected.members)
	return res
}

func canonicalize(val *jsondoc.Value, prefix, variant, carID string) {
	if val.Kind != jsondoc.Object {
		return
	}
	for _, field := range []string{"name", "mapTo"} {
		if s := val.Get(field); s.IsString() {
			s.Str = replaceVariant(s.Str, variant)
		}
	}
	stage := val.Get("Stages").Index(1)
	if stage == nil || stage.Kind != jsondoc.Object {
		return
	}
	if m := stage.Member("baseColorMap"); m != nil {
		m.Value = jsondoc.NewString(BaseColorMap(carID, prefix))
	}
}

// replaceVariant swaps the variant for the placeholder. A trailing
// ".skin.<variant>" is replaced as a unit; otherwise every occurrence is.
func replaceVariant(s, variant string) string {
	if strings.HasSuffix(s, skinMarker+variant) {
		return s[:len(s)-len(variant)] + Placeholder
	}
	return strings.ReplaceAll(s, variant, Placeholder)
}

// BaseColorMap is the canonical texture path for a material prefix. The
// texture base is the prefix up to its first underscore.
func BaseColorMap(carID, prefix string) string {
	base, _, _ := strings.Cut(prefix, "_")
	return fmt.Sprintf("vehicles/%s/%s/%s_skin_%s.dds", carID, Placeholder, base, Placeholder)
}
