// Package config loads the music subsystem's configuration from YAML.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the two resolver roots and the playback knobs.
type Config struct {
	// AssetsRoot is the bundled-assets root, probed first.
	AssetsRoot string `yaml:"assets_root" default:"assets" validate:"required"`

	// InstallRoot is the secondary installation root, probed second.
	InstallRoot string `yaml:"install_root" default:"install" validate:"required"`

	// Extension of music files, without the dot.
	Extension string `yaml:"extension" default:"ogg" validate:"oneof=ogg wav mp3"`

	// FadeMs is the duration of both fade-in and fade-out.
	FadeMs int `yaml:"fade_ms" default:"500" validate:"gte=0,lte=30000"`

	// Volume is the initial global volume.
	Volume float64 `yaml:"volume" default:"1.0" validate:"gte=0,lte=1"`

	SampleRate int `yaml:"sample_rate" default:"44100" validate:"oneof=22050 44100 48000"`

	// Loop restarts a track when its stream ends. Pointer so an explicit
	// false survives defaulting.
	Loop *bool `yaml:"loop" default:"true"`
}

// Default returns the configuration used when no file is given.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	return cfg, nil
}

// Load loads configuration from a YAML file, fills defaults, and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// FadeDuration returns FadeMs as a time.Duration.
func (c *Config) FadeDuration() time.Duration {
	return time.Duration(c.FadeMs) * time.Millisecond
}

// LoopEnabled reports the loop setting with its default applied.
func (c *Config) LoopEnabled() bool {
	return c.Loop == nil || *c.Loop
}
