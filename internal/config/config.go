// Package config loads the YAML batch files of the gearcut command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/soypat/gears/gear"
	"gopkg.in/yaml.v3"
)

// Kernel names.
const (
	KernelNative = "native"
	KernelSDFX   = "sdfx"
)

// Visualization modes of a hobbing run.
const (
	VizNone  = "none"
	VizSTL   = "stl" // mesh of every step
	VizImage = "img" // raster frame of every step
)

// Gear holds the design values of one gear. Fields left out of a batch
// file take the standard basic rack values.
type Gear struct {
	Name          string  `yaml:"name"`
	Module        float64 `yaml:"module"`
	Teeth         int     `yaml:"teeth"`
	Width         float64 `yaml:"width"`
	Shift         float64 `yaml:"shift"`
	PressureAngle float64 `yaml:"pressure_angle"`
	HelixAngle    float64 `yaml:"helix_angle"`
	ConeAngle     float64 `yaml:"cone_angle"`
	Addendum      float64 `yaml:"addendum"`
	Clearance     float64 `yaml:"clearance"`
	RootFillet    float64 `yaml:"root_fillet"`
}

// DefaultGear returns the m=2 z=20 spur gear.
func DefaultGear() Gear {
	in := gear.DefaultInput()
	return Gear{
		Module:        2,
		Teeth:         20,
		Width:         10,
		PressureAngle: in.AlphaT,
		ConeAngle:     in.Delta,
		Addendum:      in.HaStar,
		Clearance:     in.CStar,
		RootFillet:    in.RhoFStar,
	}
}

// UnmarshalYAML fills unset fields with the DefaultGear values.
func (g *Gear) UnmarshalYAML(value *yaml.Node) error {
	type plain Gear
	d := plain(DefaultGear())
	if err := value.Decode(&d); err != nil {
		return err
	}
	*g = Gear(d)
	return nil
}

// Input converts g to gear design values.
func (g Gear) Input() gear.Input {
	return gear.Input{
		M:        g.Module,
		Z:        g.Teeth,
		B:        g.Width,
		X:        g.Shift,
		AlphaT:   g.PressureAngle,
		Beta:     g.HelixAngle,
		Delta:    g.ConeAngle,
		HaStar:   g.Addendum,
		CStar:    g.Clearance,
		RhoFStar: g.RootFillet,
	}
}

// Video configures encoding of the raster frames.
type Video struct {
	Enabled      bool    `yaml:"enabled"`
	Length       float64 `yaml:"length"` // seconds
	DeleteFrames bool    `yaml:"delete_frames"`
	FFmpeg       string  `yaml:"ffmpeg"`
}

// Image is the raster frame size in pixels.
type Image struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config is a batch of gears and the settings of their hobbing run.
type Config struct {
	Gears   []Gear `yaml:"gears"`
	Steps   int    `yaml:"steps"`
	Workers int    `yaml:"workers"`
	Kernel  string `yaml:"kernel"`
	Viz     string `yaml:"viz"`
	// Cells is the meshing resolution along the longest side of a solid.
	Cells int `yaml:"cells"`
	// ProfilePoints is the number of points per curve of tooth profiles.
	ProfilePoints int    `yaml:"profile_points"`
	Image         Image  `yaml:"image"`
	Out           string `yaml:"out"`
	Video         Video  `yaml:"video"`
}

// Default returns a runnable configuration cutting a single default gear.
func Default() Config {
	return Config{
		Gears:         []Gear{DefaultGear()},
		Steps:         100,
		Workers:       1,
		Kernel:        KernelNative,
		Viz:           VizNone,
		Cells:         128,
		ProfilePoints: 50,
		Image:         Image{Width: 640, Height: 480},
		Out:           "out",
		Video:         Video{Length: 5},
	}
}

// FieldError reports an invalid configuration value.
type FieldError struct {
	Field string
	Msg   string
}

func (e *FieldError) Error() string {
	return "config: " + e.Field + ": " + e.Msg
}

func fieldErr(field, format string, args ...any) error {
	return &FieldError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// Validate checks the run settings and the gear design values. Gear
// geometry errors are reported by gear.New under the gear's field name.
func (c Config) Validate() error {
	var errs []error
	if len(c.Gears) == 0 {
		errs = append(errs, fieldErr("gears", "at least one gear required"))
	}
	for i, g := range c.Gears {
		if _, err := gear.New(g.Input()); err != nil {
			errs = append(errs, fieldErr(fmt.Sprintf("gears[%d]", i), "%v", err))
		}
	}
	if c.Steps <= 0 {
		errs = append(errs, fieldErr("steps", "must be positive, got %d", c.Steps))
	}
	if c.Workers <= 0 {
		errs = append(errs, fieldErr("workers", "must be positive, got %d", c.Workers))
	}
	switch c.Kernel {
	case KernelNative, KernelSDFX:
	default:
		errs = append(errs, fieldErr("kernel", "unknown kernel %q", c.Kernel))
	}
	switch c.Viz {
	case VizNone, VizSTL, VizImage:
	default:
		errs = append(errs, fieldErr("viz", "unknown mode %q", c.Viz))
	}
	if c.Cells < 8 {
		errs = append(errs, fieldErr("cells", "need at least 8, got %d", c.Cells))
	}
	if c.ProfilePoints < 2 {
		errs = append(errs, fieldErr("profile_points", "need at least 2, got %d", c.ProfilePoints))
	}
	if c.Viz == VizImage && (c.Image.Width <= 0 || c.Image.Height <= 0) {
		errs = append(errs, fieldErr("image", "size must be positive, got %dx%d", c.Image.Width, c.Image.Height))
	}
	if c.Out == "" {
		errs = append(errs, fieldErr("out", "output directory required"))
	}
	if c.Video.Enabled {
		if c.Viz != VizImage {
			errs = append(errs, fieldErr("video.enabled", "requires viz %q", VizImage))
		}
		if c.Video.Length <= 0 {
			errs = append(errs, fieldErr("video.length", "must be positive, got %g", c.Video.Length))
		}
	}
	return errors.Join(errs...)
}

// Inputs returns the design values of every gear.
func (c Config) Inputs() []gear.Input {
	inputs := make([]gear.Input, len(c.Gears))
	for i, g := range c.Gears {
		inputs[i] = g.Input()
	}
	return inputs
}

// Parse decodes a YAML batch over Default and validates it. Unknown keys
// are errors.
func Parse(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads and parses the batch file at path.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	c, err := Parse(bytes.NewReader(b))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Save writes c to path as YAML.
func Save(path string, c Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
