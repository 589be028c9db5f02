// Package config loads the visualizer's TOML configuration.
//
// A Config is read once at startup and never mutated afterwards; it is passed
// by value to every goroutine that needs it.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultPath selects the embedded default document instead of a file.
const DefaultPath = "default"

// GeneratedName is the file written by WriteDefault.
const GeneratedName = "default_config.toml"

//go:embed default_config.toml
var defaultDocument []byte

// Config is the full parameter set.
type Config struct {
	Visual     Visual     `toml:"visual"`
	Processing Processing `toml:"processing"`
	Audio      Audio      `toml:"audio"`
}

// Visual holds mesh and camera parameters.
type Visual struct {
	Visualisation     string     `toml:"visualisation"`
	Texture           string     `toml:"texture"`
	CameraPos         [3]float32 `toml:"camera_pos"`
	CameraFacing      [3]float32 `toml:"camera_facing"`
	FOV               float32    `toml:"fov"`
	MaxFrequency      uint32     `toml:"max_frequency"`
	Width             float32    `toml:"width"`
	ZWidth            float32    `toml:"z_width"`
	SmoothingSize     uint32     `toml:"smoothing_size"`
	SmoothingAmount   uint32     `toml:"smoothing_amount"`
	HideCursor        bool       `toml:"hide_cursor"`
	Fullscreen        bool       `toml:"fullscreen"`
	WindowAlwaysOnTop bool       `toml:"window_always_on_top"`
}

// Processing holds the frame pipeline parameters.
type Processing struct {
	Gravity                 float32   `toml:"gravity"`
	Resolution              uint32    `toml:"resolution"`
	Frequency               uint16    `toml:"frequency"`
	NormalisationFactoring  float32   `toml:"normalisation_factoring"`
	FavFrequencyRange       [2]uint32 `toml:"fav_frequency_range"`
	FavFrequencyDoubling    uint16    `toml:"fav_frequency_doubling"`
	Buffering               uint32    `toml:"buffering"`
	BarReduction            uint32    `toml:"bar_reduction"`
	BufferResolutionDrop    float32   `toml:"buffer_resolution_drop"`
	MaxBufferResolutionDrop uint16    `toml:"max_buffer_resolution_drop"`
}

// Audio holds capture and volume parameters.
type Audio struct {
	PreFFTWindowing bool    `toml:"pre_fft_windowing"`
	VolumeAmplitude float32 `toml:"volume_amplitude"`
	VolumeFactoring float32 `toml:"volume_factoring"`
}

// EffectiveGravity is the divisor applied by the temporal smoother.
func (p Processing) EffectiveGravity() float32 {
	return p.Gravity*0.25 + 1.0
}

// Default returns the embedded default configuration.
func Default() Config {
	cfg, err := Parse(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("config: embedded default is invalid: %v", err))
	}
	return cfg
}

// Load reads and validates the configuration at path. The special path
// "default" returns the embedded default.
func Load(path string) (Config, error) {
	if path == DefaultPath || path == "" {
		return Parse(defaultDocument)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Config{}, fmt.Errorf("could not read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a TOML document over the defaults and validates the result.
// Keys missing from data keep their default value.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if _, err := toml.Decode(string(defaultDocument), &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: default document: %v", ErrInvalid, err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges. The visualisation name is not checked here;
// an unknown name is fatal once the first mesh is built.
func Validate(cfg Config) error {
	p := cfg.Processing
	if p.Gravity < 0 {
		return fmt.Errorf("%w: processing.gravity must be at least 0.0, got %g", ErrInvalid, p.Gravity)
	}
	if cfg.Visual.MaxFrequency < 100 || cfg.Visual.MaxFrequency > 20000 {
		return fmt.Errorf("%w: visual.max_frequency must be between 100 and 20000, got %d", ErrInvalid, cfg.Visual.MaxFrequency)
	}
	if p.Buffering < 1 {
		return fmt.Errorf("%w: processing.buffering must be at least 1", ErrInvalid)
	}
	if p.Frequency < 1 {
		return fmt.Errorf("%w: processing.frequency must be at least 1", ErrInvalid)
	}
	if p.Resolution < 2 {
		return fmt.Errorf("%w: processing.resolution must be at least 2, got %d", ErrInvalid, p.Resolution)
	}
	return nil
}

// WriteDefault writes the default document into dir as default_config.toml
// and returns the written path.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, GeneratedName)
	if err := os.WriteFile(path, defaultDocument, 0o644); err != nil {
		return "", fmt.Errorf("writing default config: %w", err)
	}
	return path, nil
}
