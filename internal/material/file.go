package material

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/battlewithbytes/skinstudio/internal/jsondoc"
)

// readSource parses src. On a syntax error the repaired text is saved as
// <src>.cleaned and the error is returned.
func readSource(src string) (*jsondoc.Value, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src, err)
	}
	doc, err := jsondoc.Parse(data)
	if err != nil {
		var se *jsondoc.SyntaxError
		if errors.As(err, &se) {
			if cleaned, werr := jsondoc.SaveCleaned(src, se); werr == nil {
				return nil, fmt.Errorf("parsing %s (cleaned text saved to %s): %w", src, cleaned, err)
			}
		}
		return nil, fmt.Errorf("parsing %s: %w", src, err)
	}
	return doc, nil
}

// FilterFile filters the materials file src and writes the result into
// destDir under the same file name. A document without candidates still
// produces an (empty) output file.
func FilterFile(src, destDir, carID string, policy SelectionPolicy) (*Result, error) {
	doc, err := readSource(src)
	if err != nil {
		return nil, err
	}
	res := Filter(doc, carID, policy)
	if err := jsondoc.WriteFile(filepath.Join(destDir, filepath.Base(src)), res.Doc); err != nil {
		return nil, fmt.Errorf("writing filtered materials: %w", err)
	}
	return res, nil
}

// CanonicalizeJBeamFile canonicalizes the jbeam file src into destDir under
// the same file name. Nothing is written when src has no skin entry.
func CanonicalizeJBeamFile(src, destDir, carID string) (*JBeamResult, error) {
	doc, err := readSource(src)
	if err != nil {
		return nil, err
	}
	res := CanonicalizeJBeam(doc, carID)
	if res.Kept == "" {
		return res, nil
	}
	if err := jsondoc.WriteFile(filepath.Join(destDir, filepath.Base(src)), res.Doc); err != nil {
		return nil, fmt.Errorf("writing canonical jbeam: %w", err)
	}
	return res, nil
}
