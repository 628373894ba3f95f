package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battlewithbytes/skinstudio/internal/assembler"
	"github.com/battlewithbytes/skinstudio/internal/engine"
	"github.com/battlewithbytes/skinstudio/internal/project"
	"github.com/battlewithbytes/skinstudio/internal/vehicles"
)

func TestProjectPath(t *testing.T) {
	assert.Equal(t, "pack.bsproject", projectPath("pack"))
	assert.Equal(t, "pack.bsproject", projectPath("pack.bsproject"))
	assert.Equal(t, "PACK.BSPROJECT", projectPath("PACK.BSPROJECT"))
}

func TestEditProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.bsproject")
	require.NoError(t, project.New("Pack", "Alice").Save(path))

	err := editProject(path, func(p *project.Project) (string, error) {
		_, err := p.AddCar("etk800")
		return "added", err
	})
	require.NoError(t, err)

	p, err := project.Load(path)
	require.NoError(t, err)
	require.Len(t, p.Cars, 1)
	assert.Equal(t, "etk800", p.Cars[0].BaseCarID)

	err = editProject(path, func(p *project.Project) (string, error) {
		return "", p.RemoveCar("missing")
	})
	assert.ErrorIs(t, err, project.ErrCarNotFound)
}

func TestFindJob(t *testing.T) {
	root := t.TempDir()
	lib := vehicles.NewLibrary(filepath.Join(root, "vehicles"), zerolog.Nop())
	tmpl := lib.TemplateDir("etk800")
	require.NoError(t, os.MkdirAll(tmpl, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tmpl, "etk800_skin_SKINNAME.jbeam"),
		[]byte(`{"etk800_skin_SKINNAME": {"information": {"authors": "A", "name": "N"}, "globalSkin": "SKINNAME"}}`), 0644))
	dds := filepath.Join(root, "red.dds")
	require.NoError(t, os.WriteFile(dds, []byte("DDS"), 0644))

	eng, err := engine.New(assembler.New(lib, filepath.Join(root, "mods"), zerolog.Nop()), filepath.Join(root, "data"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })

	p := project.New("Pack", "")
	id, _ := p.AddCar("etk800")
	require.NoError(t, p.AddSkin(id, project.Skin{Name: "Red", DDSPath: dds}))

	job, events, err := eng.Start(context.Background(), engine.Request{Project: p})
	require.NoError(t, err)
	for range events {
	}

	got, err := findJob(eng, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)

	got, err = findJob(eng, job.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)

	_, err = findJob(eng, "zzzz")
	assert.ErrorContains(t, err, "not found")
}
