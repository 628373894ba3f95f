package assembler

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"github.com/tidwall/sjson"

	"github.com/battlewithbytes/skinstudio/internal/project"
	"github.com/battlewithbytes/skinstudio/internal/rewrite"
	"github.com/battlewithbytes/skinstudio/internal/vehicles"
)

// buildSkin produces vehicles/<carid>/<skin_folder>/ in the build directory.
func (b *build) buildSkin(car *project.Car, s project.Skin) error {
	vehicleRoot := filepath.Join(b.workDir, "vehicles", car.BaseCarID)
	dest := filepath.Join(vehicleRoot, s.Folder())

	if err := b.a.Library.Copy(car.BaseCarID, dest); err != nil {
		return err
	}
	if _, err := rewrite.RenameFiles(dest, s.ID()); err != nil {
		return err
	}
	texture := rewrite.TextureFile(car.BaseCarID, s.ID())
	if err := vehicles.CopyFile(s.DDSPath, filepath.Join(dest, texture)); err != nil {
		return fmt.Errorf("placing texture: %w", err)
	}

	sum, err := rewrite.Dir(dest, rewrite.Values{
		Author:      b.p.AuthorOrDefault(),
		DisplayName: s.Name,
		SkinID:      s.ID(),
		SkinFolder:  s.Folder(),
		CarID:       car.BaseCarID,
		Texture:     texture,
	})
	if err != nil {
		return err
	}
	if sum.JBeam == 0 {
		b.warn(car.ID, s.Name, "template has no jbeam file")
	}
	b.log.Debug().
		Str("car", car.BaseCarID).
		Str("skin", s.Folder()).
		Int("jbeam", sum.JBeam).
		Int("materials", sum.Materials).
		Int("written", sum.Written).
		Msg("skin rewritten")

	if s.ConfigData != nil {
		b.exportConfig(car, s, vehicleRoot)
	}
	if len(s.MaterialProperties) > 0 {
		for _, msg := range applyMaterialProperties(dest, s.MaterialProperties) {
			b.warn(car.ID, s.Name, "%s", msg)
		}
	}
	return nil
}

// exportConfig copies the skin's .pc and .jpg next to the skin folder and
// writes info_<skin_folder>.json from the vehicle's info template. Every
// problem is a warning; the skin itself is still generated.
func (b *build) exportConfig(car *project.Car, s project.Skin, vehicleRoot string) {
	cd := s.ConfigData
	folder := s.Folder()

	for _, f := range []struct{ src, ext string }{
		{cd.PCFilePath, ".pc"},
		{cd.JPGFilePath, ".jpg"},
	} {
		if f.src == "" {
			continue
		}
		if err := vehicles.CopyFile(f.src, filepath.Join(vehicleRoot, folder+f.ext)); err != nil {
			b.warn(car.ID, s.Name, "config %s file: %v", f.ext, err)
		}
	}

	src, ok := b.a.Library.InfoTemplate(car.BaseCarID)
	if !ok {
		b.warn(car.ID, s.Name, "no info template found for %s", car.BaseCarID)
		return
	}
	data, err := os.ReadFile(src)
	if err != nil {
		b.warn(car.ID, s.Name, "reading info template: %v", err)
		return
	}
	out, missing, err := setInfoFields(data, cd.Type(), cd.Name(s.Name))
	if err != nil {
		b.warn(car.ID, s.Name, "updating info template: %v", err)
		return
	}
	for _, key := range missing {
		b.warn(car.ID, s.Name, "info template has no %q field", key)
	}
	if err := os.WriteFile(filepath.Join(vehicleRoot, "info_"+folder+".json"), out, 0644); err != nil {
		b.warn(car.ID, s.Name, "writing info file: %v", err)
	}
}

// Info fields set from the skin's config data.
const (
	infoConfigType = "Config Type"
	infoConfigName = "Configuration"
)

// setInfoFields sets the config type and name in an info document. Only keys
// already present are updated; the rest are returned as missing. Comments
// and trailing commas are dropped from the output.
func setInfoFields(data []byte, configType, configName string) ([]byte, []string, error) {
	out := jsonc.ToJSON(data)
	if !gjson.ValidBytes(out) {
		return nil, nil, fmt.Errorf("invalid JSON")
	}
	var missing []string
	for _, f := range []struct{ key, val string }{
		{infoConfigType, configType},
		{infoConfigName, configName},
	} {
		if !gjson.GetBytes(out, f.key).Exists() {
			missing = append(missing, f.key)
			continue
		}
		var err error
		if out, err = sjson.SetBytes(out, f.key, f.val); err != nil {
			return nil, nil, err
		}
	}
	return out, missing, nil
}
