package rewrite

import "strings"

// Placeholder is the skin token used by vehicle templates. Matching is
// ASCII case-insensitive so both hand-made (SKINNAME) and ingested
// (skinname) templates are recognised.
const Placeholder = "SKINNAME"

// CarIDToken is the car id placeholder.
const CarIDToken = "carid"

const (
	skinKeyMarker  = "_skin_"
	extraSkinMark  = "_extra.skin."
	materialMarker = ".skin."
)

// asciiLower lowercases A-Z only, so byte offsets match the input.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func equalFold(a, b string) bool {
	return len(a) == len(b) && asciiLower(a) == asciiLower(b)
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && equalFold(s[len(s)-len(suffix):], suffix)
}

// replaceFold replaces every case-insensitive occurrence of old in s.
func replaceFold(s, old, repl string) string {
	if old == "" {
		return s
	}
	lower, lold := asciiLower(s), asciiLower(old)
	var b strings.Builder
	i := 0
	for {
		j := strings.Index(lower[i:], lold)
		if j < 0 {
			break
		}
		b.WriteString(s[i : i+j])
		b.WriteString(repl)
		i += j + len(old)
	}
	if i == 0 {
		return s
	}
	b.WriteString(s[i:])
	return b.String()
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// ReplaceCarID replaces the carid token wherever it is not directly preceded
// by an ASCII letter or digit. "carid_skin_x" and "vehicles/carid/" match,
// "mycarid" does not.
func ReplaceCarID(s, carID string) string {
	if carID == "" {
		return s
	}
	lower := asciiLower(s)
	var b strings.Builder
	i, last := 0, 0
	for {
		j := strings.Index(lower[i:], CarIDToken)
		if j < 0 {
			break
		}
		at := i + j
		if at == 0 || !isAlnum(s[at-1]) {
			b.WriteString(s[last:at])
			b.WriteString(carID)
			last = at + len(CarIDToken)
		}
		i = at + len(CarIDToken)
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

// replaceSkinKey rewrites "<x>_skin_SKINNAME" to "<x>_skin_<skinID>".
func replaceSkinKey(key, skinID string) (string, bool) {
	if !hasSuffixFold(key, skinKeyMarker+Placeholder) {
		return key, false
	}
	if len(key) == len(skinKeyMarker+Placeholder) {
		return key, false
	}
	return key[:len(key)-len(Placeholder)] + skinID, true
}

// replaceExtraSkin rewrites anything after "_extra.skin." to skinID.
func replaceExtraSkin(s, skinID string) (string, bool) {
	i := strings.LastIndex(s, extraSkinMark)
	if i < 0 || i+len(extraSkinMark) == len(s) {
		return s, false
	}
	out := s[:i+len(extraSkinMark)] + skinID
	return out, out != s
}

// replaceMaterialSkin rewrites "<prefix>.skin.SKINNAME" and
// "<prefix>.skin_<x>.SKINNAME" to use skinID as the variant.
func replaceMaterialSkin(s, skinID string) (string, bool) {
	if !hasSuffixFold(s, "."+Placeholder) {
		return s, false
	}
	head := s[:len(s)-len(Placeholder)]
	if !strings.Contains(head, materialMarker) && !strings.Contains(head, ".skin_") {
		return s, false
	}
	return head + skinID, true
}

// replacePaths substitutes folder and texture file placeholders in a path.
func replacePaths(s string, v Values) string {
	s = replaceFold(s, "/"+Placeholder+"/", "/"+v.SkinFolder+"/")
	s = replaceFold(s, skinKeyMarker+Placeholder+".dds", skinKeyMarker+v.SkinID+".dds")
	return s
}
