package material

import (
	"strings"

	"github.com/battlewithbytes/skinstudio/internal/jsondoc"
)

// Placeholders written into canonical jbeam templates.
const (
	AuthorPlaceholder = "Author Name"
	NamePlaceholder   = "Skin Name"
)

// JBeamResult describes a jbeam canonicalization pass.
type JBeamResult struct {
	Doc *jsondoc.Value
	// Kept is the source key of the retained skin entry, empty when the
	// document had none.
	Kept    string
	Removed []string
}

// CanonicalizeJBeam keeps the first top-level entry whose key contains
// "_skin_", renames it to <carid>_skin_skinname and resets its author, name
// and globalSkin to placeholders. All other entries are dropped.
func CanonicalizeJBeam(doc *jsondoc.Value, carID string) *JBeamResult {
	res := &JBeamResult{Doc: jsondoc.NewObject()}
	if doc == nil || doc.Kind != jsondoc.Object {
		return res
	}

	var first *jsondoc.Member
	for _, m := range doc.Members {
		if !strings.Contains(m.Key, "_skin_") {
			continue
		}
		if first == nil {
			first = m
			continue
		}
		res.Removed = append(res.Removed, m.Key)
	}
	if first == nil {
		return res
	}

	val := first.Value.Clone()
	if info := val.Get("information"); info != nil && info.Kind == jsondoc.Object {
		if m := info.Member("authors"); m != nil {
			m.Value = jsondoc.NewString(AuthorPlaceholder)
		}
		if m := info.Member("name"); m != nil {
			m.Value = jsondoc.NewString(NamePlaceholder)
		}
	}
	if val.Kind == jsondoc.Object {
		if m := val.Member("globalSkin"); m != nil {
			m.Value = jsondoc.NewString(Placeholder)
		}
	}

	res.Kept = first.Key
	res.Doc.Members = []*jsondoc.Member{{Key: carID + "_skin_" + Placeholder, Value: val}}
	return res
}
