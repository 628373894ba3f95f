package vehicles

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsTexture reports whether name is a texture file excluded from template
// copies.
func IsTexture(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".dds")
}

// Copy copies the template of carID into dest, which must not exist yet.
// Texture files are left out so the user's texture can be placed without
// clashing with template placeholders.
func (l *Library) Copy(carID, dest string) error {
	if err := l.CheckTemplate(carID); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}
	if err := os.Mkdir(dest, 0755); err != nil {
		return fmt.Errorf("creating skin folder: %w", err)
	}
	if err := copyDir(l.TemplateDir(carID), dest); err != nil {
		return fmt.Errorf("copying template for %s: %w", carID, err)
	}
	return nil
}

func copyDir(src, dst string) error {
	if err := os.MkdirAll(dst, 0755); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if IsTexture(e.Name()) {
			continue
		}
		srcPath := filepath.Join(src, e.Name())
		dstPath := filepath.Join(dst, e.Name())
		if e.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := CopyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

// CopyFile copies a single regular file, keeping its permission bits.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, info.Mode().Perm())
}
