package vehicles

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/battlewithbytes/skinstudio/internal/material"
)

// Registrar records added vehicles. *state.Registry satisfies it.
type Registrar interface {
	Name(id string) (string, bool)
	Register(id, name string)
	Unregister(id string) bool
	Save() error
}

// IngestRequest describes a vehicle to turn into a template.
type IngestRequest struct {
	CarID         string
	Name          string
	MaterialsPath string
	JBeamPath     string
	PreviewPath   string // optional .jpg/.jpeg
	Policy        material.SelectionPolicy
}

// IngestResult reports what the filters kept.
type IngestResult struct {
	Materials *material.Result
	JBeam     *material.JBeamResult
	Preview   string
}

func (r IngestRequest) validate() error {
	if err := ValidateCarID(r.CarID); err != nil {
		return err
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("vehicle name is required")
	}
	for label, p := range map[string]string{"materials file": r.MaterialsPath, "jbeam file": r.JBeamPath} {
		if p == "" {
			return fmt.Errorf("%s is required", label)
		}
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
	}
	if r.PreviewPath != "" {
		ext := strings.ToLower(filepath.Ext(r.PreviewPath))
		if ext != ".jpg" && ext != ".jpeg" {
			return fmt.Errorf("preview image must be a .jpg or .jpeg file")
		}
	}
	return nil
}

// Ingest creates vehicles/<carid>/SKINNAME/ from a donor vehicle's materials
// and jbeam files and registers the vehicle. Any failure removes what was
// created and undoes the registration.
func (l *Library) Ingest(req IngestRequest, reg Registrar) (res *IngestResult, err error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	vehicleDir := l.VehicleDir(req.CarID)
	if _, err := os.Stat(vehicleDir); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, req.CarID)
	}
	if _, known := reg.Name(req.CarID); known {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, req.CarID)
	}

	templateDir := l.TemplateDir(req.CarID)
	if err := os.MkdirAll(templateDir, 0755); err != nil {
		return nil, fmt.Errorf("creating template folder: %w", err)
	}
	registered := false
	defer func() {
		if err == nil {
			return
		}
		l.log.Warn().Err(err).Str("car", req.CarID).Msg("ingest failed, rolling back")
		if rmErr := os.RemoveAll(vehicleDir); rmErr != nil {
			l.log.Warn().Err(rmErr).Str("dir", vehicleDir).Msg("removing partial vehicle folder failed")
		}
		if registered && reg.Unregister(req.CarID) {
			if saveErr := reg.Save(); saveErr != nil {
				l.log.Warn().Err(saveErr).Str("car", req.CarID).Msg("saving registry after rollback failed")
			}
		}
	}()

	res = &IngestResult{}
	res.Materials, err = material.FilterFile(req.MaterialsPath, templateDir, req.CarID, req.Policy)
	if err != nil {
		return nil, err
	}
	if len(res.Materials.Kept) == 0 {
		l.log.Warn().Str("file", req.MaterialsPath).Msg("no skin materials found")
	}

	res.JBeam, err = material.CanonicalizeJBeamFile(req.JBeamPath, templateDir, req.CarID)
	if err != nil {
		return nil, err
	}
	if res.JBeam.Kept == "" {
		return nil, fmt.Errorf("no skin entry (key containing _skin_) found in %s", req.JBeamPath)
	}

	if req.PreviewPath != "" {
		res.Preview = filepath.Join(vehicleDir, "preview"+strings.ToLower(filepath.Ext(req.PreviewPath)))
		if err = CopyFile(req.PreviewPath, res.Preview); err != nil {
			return nil, fmt.Errorf("copying preview image: %w", err)
		}
	}

	reg.Register(req.CarID, strings.TrimSpace(req.Name))
	registered = true
	if err = reg.Save(); err != nil {
		return nil, fmt.Errorf("saving vehicle registry: %w", err)
	}

	l.log.Info().
		Str("car", req.CarID).
		Str("variant", res.Materials.Variant).
		Int("materials", len(res.Materials.Kept)).
		Msg("vehicle added")
	return res, nil
}
