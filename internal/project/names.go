package project

import (
	"path/filepath"
	"strings"
)

// SkinID removes spaces: "My Cool Skin" becomes "MyCoolSkin".
func SkinID(name string) string {
	return strings.ReplaceAll(name, " ", "")
}

// SkinFolder replaces spaces with underscores: "7-eleven V1" becomes
// "7-eleven_V1".
func SkinFolder(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

// SanitizeModName trims the name and replaces spaces with underscores.
func SanitizeModName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}

// isPathElement reports whether s names a single entry inside its parent
// directory on every platform.
func isPathElement(s string) bool {
	if s == "" || s == "." || s == ".." || strings.ContainsAny(s, `/\:`) || strings.ContainsRune(s, 0) {
		return false
	}
	return filepath.IsLocal(s)
}

// CheckSkinName rejects skin names whose folder or id would leave the skin's
// directory in the archive.
func CheckSkinName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptySkin
	}
	if !isPathElement(SkinFolder(name)) || !isPathElement(SkinID(name)) {
		return &InvalidNameError{Kind: "skin", Name: name}
	}
	return nil
}

// CheckModName rejects mod names that are blank or do not form a single file
// name once sanitized.
func CheckModName(name string) error {
	s := SanitizeModName(name)
	if s == "" {
		return ErrEmptyModName
	}
	if !isPathElement(s) {
		return &InvalidNameError{Kind: "mod", Name: name}
	}
	return nil
}
