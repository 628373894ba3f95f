package texture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"old_skin_red.dds", "red"},
		{"a_skin_b_skin_c.DDS", "c"},
		{"skin_blue.dds", "blue"},
		{"Skin_Blue.dds", "Blue"},
		{"etkskin__green.dds", "green"},
		{"red.dds", "red"},
		{"skin.dds", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InferName(tt.in), tt.in)
	}
}

func skinDir(t *testing.T, root, car, skin string, files ...string) string {
	t.Helper()
	dir := filepath.Join(root, "vehicles", car, skin)
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte(f), 0644))
	}
	return dir
}

func TestNormalize(t *testing.T) {
	root := t.TempDir()
	dir := skinDir(t, root, "etk800", "Red_Skin", "red.dds", "ETK800_skin_ok.dds", "notes.txt")
	skinDir(t, root, "vivace", "Blue", "skin_blue.dds")
	require.NoError(t, os.WriteFile(filepath.Join(root, "vehicles", "etk800", "Red_Skin.pc"), nil, 0644))

	rep, err := Normalize(root)
	require.NoError(t, err)

	assert.Equal(t, 2, rep.SkinsProcessed)
	assert.ElementsMatch(t, []Rename{
		{CarID: "etk800", Skin: "Red_Skin", Old: "red.dds", New: "etk800_skin_red.dds"},
		{CarID: "vivace", Skin: "Blue", Old: "skin_blue.dds", New: "vivace_skin_blue.dds"},
	}, rep.Renamed)
	assert.Equal(t, []string{"etk800/Red_Skin/ETK800_skin_ok.dds"}, rep.AlreadyCorrect)
	assert.Empty(t, rep.Errors)
	assert.FileExists(t, filepath.Join(dir, "etk800_skin_red.dds"))
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
}

func TestNormalizeCollisionLeavesFile(t *testing.T) {
	root := t.TempDir()
	dir := skinDir(t, root, "etk800", "S", "etk800_skin_red.dds")
	// Infers to "red", whose target is already taken.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x_skin_red.dds"), []byte("x"), 0644))

	rep, err := Normalize(root)
	require.NoError(t, err)
	require.Len(t, rep.Errors, 1)
	assert.Equal(t, "x_skin_red.dds", rep.Errors[0].File)
	assert.Contains(t, rep.Errors[0].Err, "already exists")
	assert.FileExists(t, filepath.Join(dir, "x_skin_red.dds"))

	data, _ := os.ReadFile(filepath.Join(dir, "etk800_skin_red.dds"))
	assert.Equal(t, "etk800_skin_red.dds", string(data))
}

func TestNormalizeWithoutVehicles(t *testing.T) {
	rep, err := Normalize(t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, rep.SkinsProcessed)
}

func TestPatchMaterials(t *testing.T) {
	root := t.TempDir()
	dir := skinDir(t, root, "etk800", "Red_Skin")
	src := `{"m": {"Stages": [{}, {"baseColorMap": "vehicles/etk800/Red_Skin/red.dds"}]}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skin.materials.json"), []byte(src), 0644))

	patched, err := PatchMaterials(root, []Rename{
		{CarID: "etk800", Skin: "Red_Skin", Old: "red.dds", New: "etk800_skin_red.dds"},
		{CarID: "vivace", Skin: "None", Old: "a.dds", New: "vivace_skin_a.dds"},
	})
	require.NoError(t, err)
	assert.Len(t, patched, 1)

	data, _ := os.ReadFile(filepath.Join(dir, "skin.materials.json"))
	assert.Contains(t, string(data), "vehicles/etk800/Red_Skin/etk800_skin_red.dds")
}

func TestPatchMaterialsReplacesEveryOccurrence(t *testing.T) {
	// The old path is replaced wherever it appears, including values that
	// only contain it as a prefix of a longer path.
	root := t.TempDir()
	dir := skinDir(t, root, "etk800", "Red_Skin")
	src := `{"m": {"Stages": [{}, {"baseColorMap": "vehicles/etk800/Red_Skin/red.dds"}]},` +
		` "note": {"path": "vehicles/etk800/Red_Skin/red.dds.bak"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skin.materials.json"), []byte(src), 0644))

	_, err := PatchMaterials(root, []Rename{{CarID: "etk800", Skin: "Red_Skin", Old: "red.dds", New: "etk800_skin_red.dds"}})
	require.NoError(t, err)

	data, _ := os.ReadFile(filepath.Join(dir, "skin.materials.json"))
	assert.Contains(t, string(data), "vehicles/etk800/Red_Skin/etk800_skin_red.dds.bak")
}
