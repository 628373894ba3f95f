package vehicles

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battlewithbytes/skinstudio/internal/jsondoc"
	"github.com/battlewithbytes/skinstudio/internal/material"
	"github.com/battlewithbytes/skinstudio/internal/state"
)

func newTestLibrary(t *testing.T) *Library {
	t.Helper()
	return NewLibrary(filepath.Join(t.TempDir(), "vehicles"), zerolog.Nop())
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func listTree(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, _ := filepath.Rel(root, p)
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	sort.Strings(out)
	return out
}

func TestCopyExcludesTextures(t *testing.T) {
	lib := newTestLibrary(t)
	tmpl := lib.TemplateDir("etk800")
	write(t, filepath.Join(tmpl, "etk800_skin_SKINNAME.jbeam"), "{}")
	write(t, filepath.Join(tmpl, "skin.materials.json"), "{}")
	write(t, filepath.Join(tmpl, "etk800_skin_SKINNAME.dds"), "tex")
	write(t, filepath.Join(tmpl, "sub", "UPPER.DDS"), "tex")
	write(t, filepath.Join(tmpl, "sub", "notes.txt"), "n")

	dest := filepath.Join(t.TempDir(), "build", "vehicles", "etk800", "Red_Skin")
	require.NoError(t, lib.Copy("etk800", dest))

	assert.Equal(t, []string{"etk800_skin_SKINNAME.jbeam", "skin.materials.json", "sub/notes.txt"}, listTree(t, dest))
}

func TestCopyRefusesExistingDest(t *testing.T) {
	lib := newTestLibrary(t)
	write(t, filepath.Join(lib.TemplateDir("etk800"), "a.jbeam"), "{}")
	dest := t.TempDir()
	assert.Error(t, lib.Copy("etk800", dest))
}

func TestCopyMissingTemplate(t *testing.T) {
	lib := newTestLibrary(t)
	err := lib.Copy("pessima", filepath.Join(t.TempDir(), "out"))

	var nc *NotConfiguredError
	require.True(t, errors.As(err, &nc))
	assert.Equal(t, "pessima", nc.CarID)
	assert.Contains(t, err.Error(), filepath.Join("vehicles", "pessima", "SKINNAME"))
	assert.Contains(t, err.Error(), "skinstudio vehicle add")
}

func TestValidateCarID(t *testing.T) {
	for _, id := range []string{"", ".", "..", "a/b", `a\b`, "c:"} {
		assert.ErrorIs(t, ValidateCarID(id), ErrInvalidCarID, id)
	}
	assert.NoError(t, ValidateCarID("etk800"))
}

func TestListAndInfoTemplate(t *testing.T) {
	lib := newTestLibrary(t)
	write(t, filepath.Join(lib.TemplateDir("vivace"), "a.jbeam"), "{}")
	write(t, filepath.Join(lib.TemplateDir("etk800"), "a.jbeam"), "{}")
	write(t, filepath.Join(lib.VehicleDir("orphan"), "x.txt"), "")
	write(t, filepath.Join(lib.VehicleDir("etk800"), "info_sedan.json"), "{}")

	ids, err := lib.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"etk800", "vivace"}, ids)

	p, ok := lib.InfoTemplate("etk800")
	require.True(t, ok)
	assert.Equal(t, "info_sedan.json", filepath.Base(p))

	write(t, filepath.Join(lib.VehicleDir("etk800"), "info.json"), "{}")
	p, _ = lib.InfoTemplate("etk800")
	assert.Equal(t, "info.json", filepath.Base(p))

	_, ok = lib.InfoTemplate("vivace")
	assert.False(t, ok)
}

const donorMaterials = `{
	// donor car
	"body.skin.police": {"name": "body.skin.police", "Stages": [{}, {"baseColorMap": "x.dds"}]},
	"glass": {"name": "glass"},
	"trim.skin.police": {"name": "trim.skin.police"},
}`

const donorJBeam = `{
	"ccf_skin_police": {
		"information": {"authors": "BeamNG", "name": "Police"},
		"slotType": "paint_design",
		"globalSkin": "police"
	},
	"ccf_skin_taxi": {"information": {"name": "Taxi"}}
}`

func donor(t *testing.T) (materials, jbeam string) {
	t.Helper()
	dir := t.TempDir()
	materials = filepath.Join(dir, "main.materials.json")
	jbeam = filepath.Join(dir, "ccf_skins.jbeam")
	write(t, materials, donorMaterials)
	write(t, jbeam, donorJBeam)
	return materials, jbeam
}

func TestIngest(t *testing.T) {
	lib := newTestLibrary(t)
	reg, err := state.LoadRegistry(filepath.Join(lib.Root, state.VehiclesFile))
	require.NoError(t, err)

	materials, jbeam := donor(t)
	preview := filepath.Join(t.TempDir(), "car.JPG")
	write(t, preview, "jpg")

	res, err := lib.Ingest(IngestRequest{
		CarID:         "ccf",
		Name:          "Covet",
		MaterialsPath: materials,
		JBeamPath:     jbeam,
		PreviewPath:   preview,
		Policy:        material.LargestGroupThenFirstSeen,
	}, reg)
	require.NoError(t, err)

	assert.Equal(t, "police", res.Materials.Variant)
	assert.Equal(t, "ccf_skin_police", res.JBeam.Kept)
	assert.True(t, lib.HasTemplate("ccf"))
	assert.FileExists(t, filepath.Join(lib.VehicleDir("ccf"), "preview.jpg"))

	doc, err := jsondoc.ReadFile(filepath.Join(lib.TemplateDir("ccf"), "main.materials.json"))
	require.NoError(t, err)
	body := doc.Get("body.skin.skinname")
	require.NotNil(t, body)
	assert.Equal(t, "vehicles/ccf/skinname/body_skin_skinname.dds", body.Get("Stages").Index(1).Get("baseColorMap").Str)
	assert.Nil(t, doc.Get("glass"))

	jdoc, err := jsondoc.ReadFile(filepath.Join(lib.TemplateDir("ccf"), "ccf_skins.jbeam"))
	require.NoError(t, err)
	entry := jdoc.Get("ccf_skin_skinname")
	require.NotNil(t, entry)
	assert.Equal(t, material.AuthorPlaceholder, entry.Get("information").Get("authors").Str)
	assert.Len(t, jdoc.Members, 1)

	name, ok := reg.Name("ccf")
	assert.True(t, ok)
	assert.Equal(t, "Covet", name)

	reloaded, err := state.LoadRegistry(filepath.Join(lib.Root, state.VehiclesFile))
	require.NoError(t, err)
	_, ok = reloaded.Name("ccf")
	assert.True(t, ok)
}

func TestIngestRejectsExisting(t *testing.T) {
	lib := newTestLibrary(t)
	reg, _ := state.LoadRegistry(filepath.Join(t.TempDir(), state.VehiclesFile))
	write(t, filepath.Join(lib.TemplateDir("ccf"), "a.jbeam"), "{}")
	materials, jbeam := donor(t)

	_, err := lib.Ingest(IngestRequest{CarID: "ccf", Name: "Covet", MaterialsPath: materials, JBeamPath: jbeam}, reg)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.FileExists(t, filepath.Join(lib.TemplateDir("ccf"), "a.jbeam"))
}

func TestIngestRollsBackWithoutSkinEntry(t *testing.T) {
	lib := newTestLibrary(t)
	reg, _ := state.LoadRegistry(filepath.Join(t.TempDir(), state.VehiclesFile))
	materials, _ := donor(t)
	jbeam := filepath.Join(t.TempDir(), "plain.jbeam")
	write(t, jbeam, `{"ccf_body": {}}`)

	_, err := lib.Ingest(IngestRequest{CarID: "ccf", Name: "Covet", MaterialsPath: materials, JBeamPath: jbeam}, reg)
	require.Error(t, err)
	assert.NoDirExists(t, lib.VehicleDir("ccf"))
	_, ok := reg.Name("ccf")
	assert.False(t, ok)
}

type failingRegistrar struct {
	*state.Registry
}

func (failingRegistrar) Save() error { return errors.New("disk full") }

func TestIngestRollsBackRegistration(t *testing.T) {
	lib := newTestLibrary(t)
	reg, _ := state.LoadRegistry(filepath.Join(t.TempDir(), state.VehiclesFile))
	materials, jbeam := donor(t)

	_, err := lib.Ingest(IngestRequest{CarID: "ccf", Name: "Covet", MaterialsPath: materials, JBeamPath: jbeam},
		failingRegistrar{reg})
	require.ErrorContains(t, err, "disk full")
	assert.NoDirExists(t, lib.VehicleDir("ccf"))
	_, ok := reg.Name("ccf")
	assert.False(t, ok)
}

func TestIngestLogsRollbackFailures(t *testing.T) {
	var buf bytes.Buffer
	lib := NewLibrary(filepath.Join(t.TempDir(), "vehicles"), zerolog.New(&buf))
	reg, _ := state.LoadRegistry(filepath.Join(t.TempDir(), state.VehiclesFile))
	materials, jbeam := donor(t)

	_, err := lib.Ingest(IngestRequest{CarID: "ccf", Name: "Covet", MaterialsPath: materials, JBeamPath: jbeam},
		failingRegistrar{reg})
	require.Error(t, err)
	assert.Contains(t, buf.String(), "saving registry after rollback failed")
	assert.Contains(t, buf.String(), `"car":"ccf"`)
}

func TestIngestBadPreview(t *testing.T) {
	lib := newTestLibrary(t)
	reg, _ := state.LoadRegistry(filepath.Join(t.TempDir(), state.VehiclesFile))
	materials, jbeam := donor(t)

	_, err := lib.Ingest(IngestRequest{CarID: "ccf", Name: "Covet", MaterialsPath: materials, JBeamPath: jbeam, PreviewPath: "car.png"}, reg)
	assert.ErrorContains(t, err, "jpg")
	assert.NoDirExists(t, lib.VehicleDir("ccf"))
}

func TestRemove(t *testing.T) {
	lib := newTestLibrary(t)
	path := filepath.Join(t.TempDir(), state.VehiclesFile)
	reg, _ := state.LoadRegistry(path)
	reg.Register("ccf", "Covet")
	write(t, filepath.Join(lib.TemplateDir("ccf"), "a.jbeam"), "{}")

	require.NoError(t, lib.Remove("ccf", reg))
	assert.NoDirExists(t, lib.VehicleDir("ccf"))
	_, ok := reg.Name("ccf")
	assert.False(t, ok)

	assert.Error(t, lib.Remove("ccf", reg))
}
