package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Vec3 is a YAML-friendly three component vector.
type Vec3 [3]float32

// Vec returns v as an mgl32 vector.
func (v Vec3) Vec() mgl32.Vec3 { return mgl32.Vec3(v) }

// RGB is a YAML-friendly opaque color.
type RGB [3]uint8

// RGBA returns c with full alpha.
func (c RGB) RGBA() color.RGBA { return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255} }

// Object describes a cube or sphere placed at startup.
type Object struct {
	Kind   string  `yaml:"kind" json:"kind"` // "cube" or "sphere"
	Pos    Vec3    `yaml:"pos" json:"pos"`
	Size   Vec3    `yaml:"size,omitempty" json:"size,omitempty"`
	Radius float32 `yaml:"radius,omitempty" json:"radius,omitempty"`
	Color  RGB     `yaml:"color" json:"color"`
}

// Config holds the renderer configuration.
type Config struct {
	WorldDim int   `yaml:"world_dim" json:"world_dim"`
	Seed     int64 `yaml:"seed" json:"seed"`

	// Terrain noise.
	TerrainFrequency float64 `yaml:"terrain_frequency" json:"terrain_frequency"`
	TerrainAmplitude float64 `yaml:"terrain_amplitude" json:"terrain_amplitude"`
	SurfaceColor     RGB     `yaml:"surface_color" json:"surface_color"`
	FillColor        RGB     `yaml:"fill_color" json:"fill_color"`

	// Scene.
	Floor      bool     `yaml:"floor" json:"floor"`
	FloorColor RGB      `yaml:"floor_color" json:"floor_color"`
	Objects    []Object `yaml:"objects" json:"objects"`

	// Camera and viewplane. UpAxis is the single up axis shared by the
	// camera basis and the viewplane.
	CameraPos         Vec3       `yaml:"camera_pos" json:"camera_pos"`
	CameraDir         Vec3       `yaml:"camera_dir" json:"camera_dir"`
	UpAxis            Vec3       `yaml:"up_axis" json:"up_axis"`
	ViewplaneDistance float32    `yaml:"viewplane_distance" json:"viewplane_distance"`
	ViewplaneSize     [2]float32 `yaml:"viewplane_size" json:"viewplane_size"`
	AspectRatio       float32    `yaml:"aspect_ratio" json:"aspect_ratio"`

	// Rendering.
	Width    int     `yaml:"width" json:"width"`
	Height   int     `yaml:"height" json:"height"`
	RaySteps int     `yaml:"ray_steps" json:"ray_steps"`
	StepSize float32 `yaml:"step_size" json:"step_size"`
	Workers  int     `yaml:"workers" json:"workers"` // 0 = one per CPU

	// Loop.
	TPS    int    `yaml:"tps" json:"tps"`
	Mode   string `yaml:"mode" json:"mode"` // "orbit" or "fly"
	Frames int    `yaml:"frames" json:"frames"`

	OutputDir string `yaml:"output_dir" json:"output_dir"`
}

// DefaultConfig returns a Config with the standard scene.
func DefaultConfig() *Config {
	const dim = 512
	white := RGB{255, 255, 255}
	corner := func(x, z float32) Object {
		return Object{Kind: "cube", Pos: Vec3{x, dim - 3, z}, Size: Vec3{1, 1, 1}, Color: white}
	}
	return &Config{
		WorldDim:         dim,
		Seed:             0x5eed,
		TerrainFrequency: 1.0 / 64.0,
		TerrainAmplitude: 24,
		SurfaceColor:     RGB{70, 160, 60},
		FillColor:        RGB{120, 90, 60},

		Floor:      true,
		FloorColor: white,
		Objects: []Object{
			{Kind: "cube", Pos: Vec3{1, dim - 3, 1}, Size: Vec3{1, 2, 1}, Color: RGB{255, 0, 0}},
			corner(0, 0),
			corner(0, dim-1),
			corner(dim-1, 0),
			corner(dim-1, dim-1),
		},

		CameraPos:         Vec3{0, dim - 2, 0},
		CameraDir:         Vec3{0, 0, -1},
		UpAxis:            Vec3{0, -1, 0},
		ViewplaneDistance: 3,
		ViewplaneSize:     [2]float32{4, 3},
		AspectRatio:       4.0 / 3.0,

		Width:    120,
		Height:   80,
		RaySteps: 128,
		StepSize: 0.2,

		TPS:    60,
		Mode:   "orbit",
		Frames: 60,

		OutputDir: "out",
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Marshal encodes cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Validate checks the values that would make construction fail later.
func (c *Config) Validate() error {
	var errs []error
	if c.WorldDim <= 0 {
		errs = append(errs, fmt.Errorf("world_dim must be positive, got %d", c.WorldDim))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("resolution must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.RaySteps <= 0 || c.StepSize <= 0 {
		errs = append(errs, fmt.Errorf("ray_steps and step_size must be positive, got %d, %g", c.RaySteps, c.StepSize))
	}
	if c.TPS <= 0 {
		errs = append(errs, fmt.Errorf("tps must be positive, got %d", c.TPS))
	}
	if c.Mode != "orbit" && c.Mode != "fly" {
		errs = append(errs, fmt.Errorf("mode must be orbit or fly, got %q", c.Mode))
	}
	for i, o := range c.Objects {
		if o.Kind != "cube" && o.Kind != "sphere" {
			errs = append(errs, fmt.Errorf("objects[%d]: unknown kind %q", i, o.Kind))
		}
	}
	return errors.Join(errs...)
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	flagged := *cfg
	*cfg = *fromFile

	if explicitFlags["dim"] {
		cfg.WorldDim = flagged.WorldDim
	}
	if explicitFlags["seed"] {
		cfg.Seed = flagged.Seed
	}
	if explicitFlags["width"] {
		cfg.Width = flagged.Width
	}
	if explicitFlags["height"] {
		cfg.Height = flagged.Height
	}
	if explicitFlags["steps"] {
		cfg.RaySteps = flagged.RaySteps
	}
	if explicitFlags["step-size"] {
		cfg.StepSize = flagged.StepSize
	}
	if explicitFlags["workers"] {
		cfg.Workers = flagged.Workers
	}
	if explicitFlags["tps"] {
		cfg.TPS = flagged.TPS
	}
	if explicitFlags["mode"] {
		cfg.Mode = flagged.Mode
	}
	if explicitFlags["frames"] {
		cfg.Frames = flagged.Frames
	}
	if explicitFlags["out"] {
		cfg.OutputDir = flagged.OutputDir
	}
}
