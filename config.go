package portals

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gekko3d/portals/core"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

type Config struct {
	SurfaceOffset         float32          `yaml:"surface_offset"`
	HorizontalThreshold   float32          `yaml:"horizontal_threshold"`
	RayLength             float32          `yaml:"ray_length"`
	FloorName             string           `yaml:"floor_name"`
	DefaultLayer          int              `yaml:"default_layer"`
	BlueLayer             int              `yaml:"blue_layer"`
	OrangeLayer           int              `yaml:"orange_layer"`
	SharedLayer           int              `yaml:"shared_layer"`
	GroundLayer           int              `yaml:"ground_layer"`
	TransitMode           core.TransitMode `yaml:"transit_mode"`
	RescanWallsEveryFrame bool             `yaml:"rescan_walls_every_frame"`
	WallCellSize          float32          `yaml:"wall_cell_size"`
	TriggerHalfExtents    [3]float32       `yaml:"trigger_half_extents,flow"`
	ScreenShader          string           `yaml:"screen_shader"`
	FixedStep             time.Duration    `yaml:"fixed_step"`
	Debug                 bool             `yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		SurfaceOffset:       0.1,
		HorizontalThreshold: core.HorizontalThreshold,
		RayLength:           1000,
		FloorName:           "Floor",
		DefaultLayer:        core.DefaultLayer,
		BlueLayer:           2,
		OrangeLayer:         3,
		SharedLayer:         4,
		GroundLayer:         1,
		TransitMode:         core.TransitFull,
		WallCellSize:        4,
		TriggerHalfExtents:  [3]float32{0.6, 1.0, 0.25},
		ScreenShader:        "portal_screen",
		FixedStep:           time.Second / 60,
	}
}

// ParseConfig reads yaml over the defaults. An empty document yields the defaults.
func ParseConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return ParseConfig(f)
}

func (c Config) Validate() error {
	if c.SurfaceOffset < 0 {
		return fmt.Errorf("%w: surface_offset must not be negative", ErrInvalidConfig)
	}
	if c.HorizontalThreshold <= 0 || c.HorizontalThreshold >= 1 {
		return fmt.Errorf("%w: horizontal_threshold must be in (0, 1)", ErrInvalidConfig)
	}
	if c.RayLength <= 0 {
		return fmt.Errorf("%w: ray_length must be positive", ErrInvalidConfig)
	}
	if c.WallCellSize <= 0 {
		return fmt.Errorf("%w: wall_cell_size must be positive", ErrInvalidConfig)
	}
	if c.FixedStep < 0 {
		return fmt.Errorf("%w: fixed_step must not be negative", ErrInvalidConfig)
	}

	layers := map[string]int{
		"default_layer": c.DefaultLayer,
		"blue_layer":    c.BlueLayer,
		"orange_layer":  c.OrangeLayer,
		"shared_layer":  c.SharedLayer,
		"ground_layer":  c.GroundLayer,
	}
	for name, layer := range layers {
		if layer < 1 || layer > core.MaxLayer {
			return fmt.Errorf("%w: %s %d out of range 1..%d", ErrInvalidConfig, name, layer, core.MaxLayer)
		}
	}
	seen := map[int]string{}
	for _, name := range []string{"default_layer", "blue_layer", "orange_layer", "shared_layer"} {
		if other, ok := seen[layers[name]]; ok {
			return fmt.Errorf("%w: %s and %s share layer %d", ErrInvalidConfig, other, name, layers[name])
		}
		seen[layers[name]] = name
	}
	for _, e := range c.TriggerHalfExtents {
		if e <= 0 {
			return fmt.Errorf("%w: trigger_half_extents must be positive", ErrInvalidConfig)
		}
	}
	return nil
}

// ColorLayer is the render layer reserved for walls carrying a portal of this color.
func (c Config) ColorLayer(color PortalColor) int {
	if color == Orange {
		return c.OrangeLayer
	}
	return c.BlueLayer
}

func (c Config) triggerExtents() mgl32.Vec3 {
	return mgl32.Vec3(c.TriggerHalfExtents)
}
