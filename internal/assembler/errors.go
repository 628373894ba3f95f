package assembler

import (
	"fmt"
	"path/filepath"

	"github.com/battlewithbytes/skinstudio/internal/archive"
)

// CollisionError is returned when the target archive already exists. The
// existing file is never touched.
type CollisionError struct {
	Path string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("a mod named %q already exists in %s; choose a different name or delete the existing file",
		filepath.Base(e.Path), filepath.Dir(e.Path))
}

func (e *CollisionError) Unwrap() error { return archive.ErrExists }

// InputError reports a skin input file that cannot be used.
type InputError struct {
	CarID string
	Skin  string
	Path  string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("car %q, skin %q: texture %s: %v", e.CarID, e.Skin, e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// Warning is a non-fatal problem recorded during generation.
type Warning struct {
	CarID   string
	Skin    string
	Message string
}

func (w Warning) String() string {
	switch {
	case w.CarID == "":
		return w.Message
	case w.Skin == "":
		return w.CarID + ": " + w.Message
	}
	return w.CarID + "/" + w.Skin + ": " + w.Message
}
