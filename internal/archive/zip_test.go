package archive

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}

func TestZipDirCompleteness(t *testing.T) {
	src := t.TempDir()
	files := map[string]string{
		"vehicles/etk800/Red_Skin/etk800_skin_RedSkin.jbeam": `{"a":1}`,
		"vehicles/etk800/Red_Skin/skin.materials.json":       `{}`,
		"vehicles/etk800/Red_Skin.pc":                        "pc",
		"top.txt":                                            "t",
	}
	writeTree(t, src, files)
	require.NoError(t, os.MkdirAll(filepath.Join(src, "empty", "dir"), 0755))

	zipPath := filepath.Join(t.TempDir(), "TestPack.zip")
	n, err := ZipDir(src, zipPath)
	require.NoError(t, err)
	assert.Equal(t, len(files), n)

	names, err := Entries(zipPath)
	require.NoError(t, err)
	sort.Strings(names)
	var want []string
	for k := range files {
		want = append(want, k)
	}
	sort.Strings(want)
	assert.Equal(t, want, names)

	r, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer r.Close()
	for _, f := range r.File {
		assert.Equal(t, zip.Deflate, f.Method, f.Name)
		rc, err := f.Open()
		require.NoError(t, err)
		body, _ := io.ReadAll(rc)
		rc.Close()
		assert.Equal(t, files[f.Name], string(body))
	}
}

func TestZipDirRefusesExisting(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.txt": "a"})

	zipPath := filepath.Join(t.TempDir(), "out.zip")
	require.NoError(t, os.WriteFile(zipPath, []byte("keep me"), 0644))

	_, err := ZipDir(src, zipPath)
	assert.True(t, errors.Is(err, ErrExists))

	data, _ := os.ReadFile(zipPath)
	assert.Equal(t, "keep me", string(data))
}

func TestZipDirRemovesPartialOnFailure(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "out.zip")
	_, err := ZipDir(filepath.Join(t.TempDir(), "missing"), zipPath)
	assert.Error(t, err)
	_, statErr := os.Stat(zipPath)
	assert.True(t, os.IsNotExist(statErr))
}
