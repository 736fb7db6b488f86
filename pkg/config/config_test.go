package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"traceroad/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, 5000.0, cfg.Graph.RadiusBaseM)
	assert.Equal(t, []float64{0, 3000, 6000}, cfg.Graph.RadiusExpansionsM)
	assert.Equal(t, []string{"walk", "drive"}, cfg.Graph.NetworkTypes)
	assert.Equal(t, 800.0, cfg.Graph.BBoxPadM)
	assert.Equal(t, 300.0, cfg.Stitch.GapBreakM)
	assert.Equal(t, 2000.0, cfg.Stitch.MaxBridgeTryM)
	assert.Equal(t, 5000.0, cfg.Stitch.MaxEndToEndM)
	assert.Equal(t, 50.0, cfg.Stitch.EpsConnectM)
	assert.Equal(t, 20.0, cfg.Resample.StepM)
	assert.Equal(t, 0.1, cfg.Group.ToleranceM)
	assert.Equal(t, "overpass", cfg.Provider.Kind)
}

func TestLoadYamlFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("stitch:\n  gap_break_m: 450\nserver:\n  listen_addr: \":8080\"\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 450.0, cfg.Stitch.GapBreakM)
	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	// untouched keys keep defaults
	assert.Equal(t, 2000.0, cfg.Stitch.MaxBridgeTryM)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TRACEROAD_STITCH__GAP_BREAK_M", "123")
	t.Setenv("TRACEROAD_PROVIDER__KIND", "pbf")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 123.0, cfg.Stitch.GapBreakM)
	assert.Equal(t, "pbf", cfg.Provider.Kind)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load("/does/not/exist.yaml")
	assert.Error(t, err)
}
