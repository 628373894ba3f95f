package rewrite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battlewithbytes/skinstudio/internal/jsondoc"
)

const jbeamTemplate = `{
	"carid_skin_SKINNAME": {
		"information": {
			"authors": "Author Name",
			"name": "Skin Name",
			"value": 100,
		},
		"slotType": "paint_design",
		"globalSkin": "SKINNAME",
	}
}`

const materialsTemplate = `{
	"etk800_main.skin.SKINNAME": {
		"name": "etk800_main.skin.SKINNAME",
		"mapTo": "etk800_main.skin.SKINNAME",
		"class": "Material",
		"Stages": [
			{"colorMap": "vehicles/etk800/etk800_c.dds"},
			{"baseColorMap": "vehicles/carid/SKINNAME/carid_skin_SKINNAME.dds"}
		]
	}
}`

func redSkin() Values {
	return Values{
		Author:      "Alice",
		DisplayName: "Red Skin",
		SkinID:      "RedSkin",
		SkinFolder:  "Red_Skin",
		CarID:       "etk800",
		Texture:     "etk800_skin_RedSkin.dds",
	}
}

func parse(t *testing.T, src string) *jsondoc.Value {
	t.Helper()
	doc, err := jsondoc.Parse([]byte(src))
	require.NoError(t, err)
	return doc
}

func TestJBeamSubstitutions(t *testing.T) {
	doc := parse(t, jbeamTemplate)
	assert.True(t, JBeam(doc, redSkin()))

	entry := doc.Get("etk800_skin_RedSkin")
	require.NotNil(t, entry, "skin key rewritten")
	info := entry.Get("information")
	assert.Equal(t, "Alice", info.Get("authors").Str)
	assert.Equal(t, "Red Skin", info.Get("name").Str)
	assert.Equal(t, "100", info.Get("value").Raw)
	assert.Equal(t, "RedSkin", entry.Get("globalSkin").Str)
	assert.Equal(t, "paint_design", entry.Get("slotType").Str)
}

func TestJBeamReplacesOnlyFirstName(t *testing.T) {
	// A "name" ahead of information.name takes the display name. This
	// mirrors the positional rule and is pinned on purpose.
	doc := parse(t, `{
		"x_skin_SKINNAME": {
			"slots": [{"name": "paint slot"}],
			"information": {"authors": "a", "name": "Skin Name"}
		}
	}`)
	JBeam(doc, redSkin())

	entry := doc.Get("x_skin_RedSkin")
	assert.Equal(t, "Red Skin", entry.Get("slots").Index(0).Get("name").Str)
	assert.Equal(t, "Skin Name", entry.Get("information").Get("name").Str)
}

func TestJBeamExtraSkin(t *testing.T) {
	doc := parse(t, `{"a_skin_SKINNAME": {"information": {"name": "n"}},
		"body_extra.skin.old": {"name": "n2", "mapTo": "body_extra.skin.old"}}`)
	JBeam(doc, redSkin())

	extra := doc.Get("body_extra.skin.RedSkin")
	require.NotNil(t, extra)
	assert.Equal(t, "body_extra.skin.RedSkin", extra.Get("mapTo").Str)
}

func TestJBeamLowercasePlaceholder(t *testing.T) {
	doc := parse(t, `{"etk800_skin_skinname": {"globalSkin": "skinname"}}`)
	JBeam(doc, redSkin())
	require.NotNil(t, doc.Get("etk800_skin_RedSkin"))
	assert.Equal(t, "RedSkin", doc.Get("etk800_skin_RedSkin").Get("globalSkin").Str)
}

func TestMaterialsSubstitutions(t *testing.T) {
	doc := parse(t, materialsTemplate)
	assert.True(t, Materials(doc, redSkin()))

	mat := doc.Get("etk800_main.skin.RedSkin")
	require.NotNil(t, mat)
	assert.Equal(t, "etk800_main.skin.RedSkin", mat.Get("name").Str)
	assert.Equal(t, "etk800_main.skin.RedSkin", mat.Get("mapTo").Str)
	stages := mat.Get("Stages")
	assert.Equal(t, "vehicles/etk800/etk800_c.dds", stages.Index(0).Get("colorMap").Str)
	assert.Equal(t, "vehicles/etk800/Red_Skin/etk800_skin_RedSkin.dds", stages.Index(1).Get("baseColorMap").Str)
}

func TestMaterialsSkinUnderscoreVariant(t *testing.T) {
	doc := parse(t, `{"body.skin_alt.SKINNAME": {"name": "body.skin_alt.SKINNAME"}}`)
	Materials(doc, redSkin())
	require.NotNil(t, doc.Get("body.skin_alt.RedSkin"))
}

func TestMaterialsRepointsConcreteTexture(t *testing.T) {
	doc := parse(t, `{
		"etk800_main.skin.SKINNAME": {
			"Stages": [
				{"baseColorMap": "vehicles/etk800/old/keep.dds"},
				{"baseColorMap": "vehicles/etk800/old/donor.dds"}
			]
		},
		"etk800_glass": {"Stages": [{}]}
	}`)
	assert.True(t, Materials(doc, redSkin()))

	stages := doc.Get("etk800_main.skin.RedSkin").Get("Stages")
	assert.Equal(t, "vehicles/etk800/Red_Skin/etk800_skin_RedSkin.dds", stages.Index(1).Get("baseColorMap").Str)
	assert.Equal(t, "vehicles/etk800/old/keep.dds", stages.Index(0).Get("baseColorMap").Str)

	assert.False(t, Materials(doc, redSkin()), "second pass is a no-op")
}

func TestMaterialsTextureMatchesPlaceholderRoute(t *testing.T) {
	v := redSkin()
	assert.Equal(t, v.Texture, TextureFile(v.CarID, v.SkinID))

	doc := parse(t, materialsTemplate)
	Materials(doc, v)
	got := doc.Get("etk800_main.skin.RedSkin").Get("Stages").Index(1).Get("baseColorMap").Str
	assert.Equal(t, "vehicles/etk800/Red_Skin/"+v.Texture, got)
}

func TestMaterialsWithoutTextureKeepsConcretePath(t *testing.T) {
	v := redSkin()
	v.Texture = ""
	doc := parse(t, `{"m": {"Stages": [{}, {"baseColorMap": "vehicles/etk800/old/donor.dds"}]}}`)
	assert.False(t, Materials(doc, v))
	assert.Equal(t, "vehicles/etk800/old/donor.dds", doc.Get("m").Get("Stages").Index(1).Get("baseColorMap").Str)
}

func TestReplaceCarID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"carid_skin_x", "etk800_skin_x"},
		{"vehicles/CARID/x/carid_skin.dds", "vehicles/etk800/x/etk800_skin.dds"},
		{"mycarid", "mycarid"},
		{"2carid", "2carid"},
		{"_carid", "_etk800"},
		{"no token", "no token"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReplaceCarID(tt.in, "etk800"), tt.in)
	}
	assert.Equal(t, "carid_x", ReplaceCarID("carid_x", ""))
}

func TestFileIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	jb := filepath.Join(dir, "etk800_skin_SKINNAME.jbeam")
	mat := filepath.Join(dir, "skin.materials.json")
	require.NoError(t, os.WriteFile(jb, []byte(jbeamTemplate), 0644))
	require.NoError(t, os.WriteFile(mat, []byte(materialsTemplate), 0644))

	sum, err := Dir(dir, redSkin())
	require.NoError(t, err)
	assert.Equal(t, Summary{JBeam: 1, Materials: 1, Written: 2}, sum)

	firstJB, _ := os.ReadFile(jb)
	firstMat, _ := os.ReadFile(mat)

	sum, err = Dir(dir, redSkin())
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Written)

	secondJB, _ := os.ReadFile(jb)
	secondMat, _ := os.ReadFile(mat)
	assert.Equal(t, string(firstJB), string(secondJB))
	assert.Equal(t, string(firstMat), string(secondMat))
}

func TestFileParseErrorLeavesFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jbeam")
	src := []byte(`{"a_skin_SKINNAME": {"name": }`)
	require.NoError(t, os.WriteFile(path, src, 0644))

	_, err := File(path, KindJBeam, redSkin())
	var se *jsondoc.SyntaxError
	assert.ErrorAs(t, err, &se)

	got, _ := os.ReadFile(path)
	assert.Equal(t, src, got)
}

func TestDirSkipsInfoFiles(t *testing.T) {
	dir := t.TempDir()
	info := filepath.Join(dir, "info_Red.json")
	src := []byte(`{"Configuration": "carid SKINNAME"}`)
	require.NoError(t, os.WriteFile(info, src, 0644))

	sum, err := Dir(dir, redSkin())
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Materials)
	got, _ := os.ReadFile(info)
	assert.Equal(t, src, got)
}

func TestRenameFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "etk800_skin_SKINNAME.jbeam"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skin.materials.json"), []byte("{}"), 0644))

	renamed, err := RenameFiles(dir, "RedSkin")
	require.NoError(t, err)
	assert.Equal(t, []string{"etk800_skin_RedSkin.jbeam"}, renamed)
	assert.FileExists(t, filepath.Join(dir, "etk800_skin_RedSkin.jbeam"))
	assert.FileExists(t, filepath.Join(dir, "skin.materials.json"))
}
