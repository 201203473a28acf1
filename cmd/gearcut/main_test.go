package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/soypat/gears/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFlags(t *testing.T) {
	err := run(context.Background(), []string{"-kernel", "occ", "-out", t.TempDir()})
	var fe *config.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "kernel", fe.Field)

	err = run(context.Background(), []string{"-viz", "none", "-video", "-out", t.TempDir()})
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "video.enabled", fe.Field)

	err = run(context.Background(), []string{"-config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenerate(t *testing.T) {
	if testing.Short() {
		t.Skip("meshes whole gears")
	}
	out := t.TempDir()
	cfg := config.Default()
	cfg.Out = out
	cfg.Steps = 4
	cfg.Cells = 24
	cfg.Workers = 2
	cfg.Viz = config.VizSTL
	cfg.ProfilePoints = 20
	g := config.DefaultGear()
	g.Name = "small"
	g.Teeth = 12
	cfg.Gears = append(cfg.Gears, g)
	require.NoError(t, cfg.Validate())

	require.NoError(t, generate(context.Background(), cfg, zerolog.Nop()))

	for _, name := range []string{"config.yaml", "datasheet.pdf", "gears.xlsx"} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	dirs, err := filepath.Glob(filepath.Join(out, "small-*"))
	require.NoError(t, err)
	require.Len(t, dirs, 1)
	for _, name := range []string{"gear.stl", "tooth.dxf", "tooth.png", "profile_shift.png"} {
		assert.FileExists(t, filepath.Join(dirs[0], name))
	}
	steps, err := filepath.Glob(filepath.Join(dirs[0], "steps", "step_*.stl"))
	require.NoError(t, err)
	assert.Len(t, steps, cfg.Steps+1)

	unnamed, err := filepath.Glob(filepath.Join(out, "gear00-*"))
	require.NoError(t, err)
	assert.Len(t, unnamed, 1)

	saved, err := config.Load(filepath.Join(out, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, cfg, saved)
}
