package portals

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gekko3d/portals/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, float32(0.1), cfg.SurfaceOffset)
	assert.Equal(t, "Floor", cfg.FloorName)
	assert.Equal(t, core.TransitFull, cfg.TransitMode)
	assert.Equal(t, 2, cfg.ColorLayer(Blue))
	assert.Equal(t, 3, cfg.ColorLayer(Orange))
}

func TestParseConfig(t *testing.T) {
	src := `
surface_offset: 0.05
floor_name: Ground
transit_mode: mirror
rescan_walls_every_frame: true
trigger_half_extents: [1, 2, 0.5]
fixed_step: 20ms
debug: true
`
	cfg, err := ParseConfig(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, float32(0.05), cfg.SurfaceOffset)
	assert.Equal(t, "Ground", cfg.FloorName)
	assert.Equal(t, core.TransitMirror, cfg.TransitMode)
	assert.True(t, cfg.RescanWallsEveryFrame)
	assert.Equal(t, [3]float32{1, 2, 0.5}, cfg.TriggerHalfExtents)
	assert.Equal(t, 20*time.Millisecond, cfg.FixedStep)
	assert.True(t, cfg.Debug)

	// Unset keys keep their defaults.
	assert.Equal(t, float32(1000), cfg.RayLength)
	assert.Equal(t, "portal_screen", cfg.ScreenShader)
}

func TestParseConfig_EmptyDocument(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParseConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"negative offset": "surface_offset: -1",
		"threshold":       "horizontal_threshold: 1.5",
		"ray length":      "ray_length: 0",
		"layer range":     "blue_layer: 40",
		"shared layers":   "orange_layer: 2",
		"extents":         "trigger_half_extents: [1, 0, 1]",
		"transit mode":    "transit_mode: sideways",
		"not yaml":        "surface_offset: [",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig(strings.NewReader(src))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portals.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ray_length: 50\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, float32(50), cfg.RayLength)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
