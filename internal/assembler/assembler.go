// Package assembler builds a skin mod archive from a project: it copies each
// car's template once per skin, fills in the placeholders, places the
// textures and zips the result into the mods folder.
package assembler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/battlewithbytes/skinstudio/internal/archive"
	"github.com/battlewithbytes/skinstudio/internal/progress"
	"github.com/battlewithbytes/skinstudio/internal/project"
	"github.com/battlewithbytes/skinstudio/internal/texture"
	"github.com/battlewithbytes/skinstudio/internal/vehicles"
)

// Generation states, reported as status events in this order.
const (
	StateValidate          = "validate"
	StateCheckOutput       = "check_output"
	StatePrepare           = "prepare"
	StateBuildSkins        = "build_skins"
	StateNormalizeTextures = "normalize_textures"
	StateArchive           = "archive"
)

// Progress milestones.
const (
	progressPrepared = 0.1
	progressSkins    = 0.75
	progressArchive  = 0.9
)

// Assembler generates mods from vehicle templates.
type Assembler struct {
	Library  *vehicles.Library
	ModsPath string
	// WorkDir is the parent of the temporary build directory. Empty means
	// the system temp directory.
	WorkDir string
	log     zerolog.Logger
}

// New returns an assembler writing archives into modsPath.
func New(lib *vehicles.Library, modsPath string, log zerolog.Logger) *Assembler {
	return &Assembler{
		Library:  lib,
		ModsPath: modsPath,
		log:      log.With().Str("component", "assembler").Logger(),
	}
}

// ZipPath returns the archive path for p.
func (a *Assembler) ZipPath(p *project.Project) string {
	return filepath.Join(a.ModsPath, project.SanitizeModName(p.ModName)+".zip")
}

// Result describes a finished generation.
type Result struct {
	ZipPath  string
	Entries  int
	Cars     int
	Skins    int
	Textures *texture.Report
	Warnings []Warning
}

// build carries the state of one generation through the steps.
type build struct {
	ctx     context.Context
	a       *Assembler
	p       *project.Project
	rep     *progress.Reporter
	log     zerolog.Logger
	workDir string
	res     *Result
	done    int
}

func (b *build) warn(carID, skin, format string, args ...interface{}) {
	w := Warning{CarID: carID, Skin: skin, Message: fmt.Sprintf(format, args...)}
	b.res.Warnings = append(b.res.Warnings, w)
	b.log.Warn().Str("car", carID).Str("skin", skin).Msg(w.Message)
	b.rep.Warn(w.String())
}

// steps is the ordered pipeline of a generation. The first failing step
// ends it.
var steps = []struct {
	state string
	fn    func(b *build) error
}{
	{StateValidate, stepValidate},
	{StateCheckOutput, stepCheckOutput},
	{StatePrepare, stepPrepare},
	{StateBuildSkins, stepBuildSkins},
	{StateNormalizeTextures, stepNormalizeTextures},
	{StateArchive, stepArchive},
}

// Generate builds the mod for p. Progress is reported through rep, which may
// be nil. The temporary build directory is removed on every exit path and
// an existing archive is never overwritten.
func (a *Assembler) Generate(ctx context.Context, p *project.Project, rep *progress.Reporter) (*Result, error) {
	if rep == nil {
		rep = progress.NewReporter("", nil)
	}
	b := &build{
		ctx: ctx,
		a:   a,
		p:   p,
		rep: rep,
		log: a.log.With().Str("mod", p.ModName).Logger(),
		res: &Result{ZipPath: a.ZipPath(p), Cars: len(p.Cars), Skins: p.SkinCount()},
	}
	defer func() {
		if b.workDir == "" {
			return
		}
		if err := os.RemoveAll(b.workDir); err != nil {
			b.log.Warn().Err(err).Str("dir", b.workDir).Msg("removing build directory")
		}
	}()

	rep.Progress(0, "starting")
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b.log.Debug().Str("state", step.state).Msg("step")
		rep.Status(step.state)
		if err := step.fn(b); err != nil {
			b.log.Error().Err(err).Str("state", step.state).Msg("generation failed")
			return nil, err
		}
	}
	rep.Progress(1, "mod created")
	b.log.Info().
		Str("zip", b.res.ZipPath).
		Int("cars", b.res.Cars).
		Int("skins", b.res.Skins).
		Int("warnings", len(b.res.Warnings)).
		Msg("mod generated")
	return b.res, nil
}

func stepValidate(b *build) error {
	if err := b.p.Validate(); err != nil {
		return err
	}
	for _, car := range b.p.Cars {
		if err := b.a.Library.CheckTemplate(car.BaseCarID); err != nil {
			return err
		}
		for _, s := range car.Skins {
			if err := checkTexture(s.DDSPath); err != nil {
				return &InputError{CarID: car.ID, Skin: s.Name, Path: s.DDSPath, Err: err}
			}
		}
	}
	return nil
}

func checkTexture(path string) error {
	if path == "" {
		return errors.New("no texture file set")
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return errors.New("not a regular file")
	}
	return nil
}

func stepCheckOutput(b *build) error {
	if err := os.MkdirAll(b.a.ModsPath, 0755); err != nil {
		return fmt.Errorf("creating mods folder: %w", err)
	}
	if _, err := os.Stat(b.res.ZipPath); err == nil {
		return &CollisionError{Path: b.res.ZipPath}
	}
	return nil
}

func stepPrepare(b *build) error {
	if b.a.WorkDir != "" {
		if err := os.MkdirAll(b.a.WorkDir, 0755); err != nil {
			return fmt.Errorf("creating work directory: %w", err)
		}
	}
	dir, err := os.MkdirTemp(b.a.WorkDir, "skinstudio-*")
	if err != nil {
		return fmt.Errorf("creating build directory: %w", err)
	}
	b.workDir = dir
	b.rep.Progress(progressPrepared, "build directory ready")
	return nil
}

func stepBuildSkins(b *build) error {
	total := b.res.Skins
	for _, car := range b.p.Cars {
		for _, s := range car.Skins {
			if err := b.ctx.Err(); err != nil {
				return err
			}
			if err := b.buildSkin(car, s); err != nil {
				return fmt.Errorf("car %q, skin %q: %w", car.ID, s.Name, err)
			}
			b.done++
			b.rep.Progress(progressPrepared+progressSkins*float64(b.done)/float64(total),
				fmt.Sprintf("built %s/%s (%d/%d)", car.BaseCarID, s.Folder(), b.done, total))
		}
	}
	return nil
}

func stepNormalizeTextures(b *build) error {
	rep, err := texture.Normalize(b.workDir)
	if err != nil {
		return fmt.Errorf("normalizing textures: %w", err)
	}
	b.res.Textures = rep
	for _, r := range rep.Renamed {
		b.log.Debug().Str("car", r.CarID).Str("skin", r.Skin).Str("from", r.Old).Str("to", r.New).Msg("texture renamed")
	}
	for _, pr := range rep.Errors {
		b.warn(pr.CarID, pr.Skin, "texture %s: %s", pr.File, pr.Err)
	}
	if _, err := texture.PatchMaterials(b.workDir, rep.Renamed); err != nil {
		return fmt.Errorf("updating texture paths: %w", err)
	}
	return nil
}

func stepArchive(b *build) error {
	b.rep.Progress(progressArchive, "creating archive")
	n, err := archive.ZipDir(b.workDir, b.res.ZipPath)
	if errors.Is(err, archive.ErrExists) {
		return &CollisionError{Path: b.res.ZipPath}
	}
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	b.res.Entries = n
	return nil
}
