package jsondoc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeepsMemberOrder(t *testing.T) {
	doc, err := Parse([]byte(`{"zeta": 1, "alpha": 2, "mid": {"b": true, "a": null}}`))
	require.NoError(t, err)

	var keys []string
	doc.WalkMembers(func(m *Member) bool {
		keys = append(keys, m.Key)
		return true
	})
	assert.Equal(t, []string{"zeta", "alpha", "mid", "b", "a"}, keys)
}

func TestParseToleratesBeamNGSyntax(t *testing.T) {
	src := `{
	// vehicle skin
	"etk800_skin_red": {
		"information": {"authors": "x", "name": "y",},
		/* slot */
		"slotType": "paint_design"
		"globalSkin": "red"
	},
}`
	doc, err := Parse([]byte(src))
	require.NoError(t, err)

	entry := doc.Get("etk800_skin_red")
	require.NotNil(t, entry)
	assert.Equal(t, "paint_design", entry.Get("slotType").Str)
	assert.Equal(t, "red", entry.Get("globalSkin").Str)
	assert.Equal(t, "y", entry.Get("information").Get("name").Str)
}

func TestParseMissingCommasBetweenArrayItems(t *testing.T) {
	doc, err := Parse([]byte(`{"a": [1 2 "x" {"k": 3} [4]]}`))
	require.NoError(t, err)
	assert.Len(t, doc.Get("a").Items, 5)
}

func TestScalarTextPreserved(t *testing.T) {
	doc, err := Parse([]byte(`{"f": 1.0, "e": 1e-3, "b": false}`))
	require.NoError(t, err)

	out, err := doc.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"f":1.0,"e":1e-3,"b":false}`, string(out))
}

func TestBytesIndentsWithFourSpaces(t *testing.T) {
	doc, err := Parse([]byte(`{"a":{"b":[1,2]},"c":"<&>"}`))
	require.NoError(t, err)

	out, err := doc.Bytes()
	require.NoError(t, err)
	want := "{\n    \"a\": {\n        \"b\": [\n            1,\n            2\n        ]\n    },\n    \"c\": \"<&>\"\n}\n"
	assert.Equal(t, want, string(out))
}

func TestEmitIsStable(t *testing.T) {
	doc, err := Parse([]byte(`{"x": "ü", "y": [ ], "z": { }}`))
	require.NoError(t, err)
	first, err := doc.Bytes()
	require.NoError(t, err)

	again, err := Parse(first)
	require.NoError(t, err)
	second, err := again.Bytes()
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestSyntaxErrorCarriesCleanedText(t *testing.T) {
	_, err := Parse([]byte("{\n  // c\n  \"a\": \n}"))
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.NotEmpty(t, se.Cleaned)
	assert.NotContains(t, string(se.Cleaned), "// c")

	path := filepath.Join(t.TempDir(), "broken.json")
	cleaned, err := SaveCleaned(path, se)
	require.NoError(t, err)
	assert.Equal(t, path+".cleaned", cleaned)
	_, err = os.Stat(cleaned)
	assert.NoError(t, err)
}

func TestSetClone(t *testing.T) {
	doc, err := Parse([]byte(`{"a": "1", "b": "2"}`))
	require.NoError(t, err)

	c := doc.Clone()
	doc.Set("a", NewString("one"))
	doc.Set("c", NewString("3"))

	out, err := doc.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"a":"one","b":"2","c":"3"}`, string(out))
	assert.Equal(t, "1", c.Get("a").Str)
}

func TestWalkStringsVisitsArrayItems(t *testing.T) {
	doc, err := Parse([]byte(`{"k": ["a", {"n": "b"}], "v": 3}`))
	require.NoError(t, err)

	var got []string
	doc.WalkStrings(func(s *Value) { got = append(got, s.Str) })
	assert.Equal(t, []string{"a", "b"}, got)
}
