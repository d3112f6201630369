// Package config holds the window layout constants and the runtime
// configuration loaded from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	WindowWidth  = 1024
	WindowHeight = 640

	ScopeRingSize = 8192

	// Action button
	ButtonWidth  = 220
	ButtonHeight = 40
	ButtonX      = (WindowWidth - ButtonWidth) / 2
	ButtonY      = WindowHeight - 70

	// Slider column
	SliderX       = 40
	SliderY       = 60
	SliderWidth   = 260
	SliderHeight  = 14
	SliderSpacing = 48

	// Slider ranges. The reachable error against any calibration target is
	// at most 70 Hz for the base and 19 Hz for the difference.
	BaseFreqMin     = 10
	BaseFreqMax     = 100
	BinauralDiffMin = 1
	BinauralDiffMax = 22
	VolumeMin       = 0
	VolumeMax       = 100
)

// Config contains all runtime settings.
type Config struct {
	Audio       AudioConfig       `yaml:"audio"`
	Sliders     SliderConfig      `yaml:"sliders"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Particles   ParticleConfig    `yaml:"particles"`
	Logging     LoggingConfig     `yaml:"logging"`

	// Seed drives calibration targets and particle placement. Zero picks a
	// time-based seed.
	Seed uint64 `yaml:"seed"`
}

// AudioConfig configures the output device and the cue sounds.
type AudioConfig struct {
	SampleRate int           `yaml:"sample_rate"`
	Buffer     time.Duration `yaml:"buffer"`

	// StartCue and StopCue are optional wav/mp3/flac files. Empty paths use
	// the built-in chimes.
	StartCue string `yaml:"start_cue,omitempty"`
	StopCue  string `yaml:"stop_cue,omitempty"`
}

// SliderConfig sets the initial slider positions.
type SliderConfig struct {
	BaseFreq     float64 `yaml:"base_freq"`
	BinauralDiff float64 `yaml:"binaural_diff"`
	Volume       float64 `yaml:"volume"`
}

// CalibrationConfig configures the scoring loop.
type CalibrationConfig struct {
	Tick time.Duration `yaml:"tick"`
}

// ParticleConfig configures the particle field.
type ParticleConfig struct {
	Count int `yaml:"count"`
}

// LoggingConfig sets the log verbosity: "info", "debug" or "trace".
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns a Config with the stock settings.
func Default() *Config {
	return &Config{
		Audio: AudioConfig{
			SampleRate: 44100,
			Buffer:     50 * time.Millisecond,
		},
		Sliders: SliderConfig{
			BaseFreq:     40,
			BinauralDiff: 8,
			Volume:       50,
		},
		Calibration: CalibrationConfig{
			Tick: 100 * time.Millisecond,
		},
		Particles: ParticleConfig{
			Count: 150,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "binaural", "config.yaml"), nil
}

// Load reads defaults, then the per-user config file if it exists, then
// environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	if path, err := DefaultPath(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			fileCfg, loadErr := LoadFromFile(path)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			cfg = fileCfg
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads a YAML file on top of the defaults and applies
// environment overrides.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BINAURAL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("BINAURAL_START_CUE"); v != "" {
		cfg.Audio.StartCue = v
	}
	if v := os.Getenv("BINAURAL_STOP_CUE"); v != "" {
		cfg.Audio.StopCue = v
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		return fmt.Errorf("sample_rate must be between 8000 and 192000, got %d", c.Audio.SampleRate)
	}
	if c.Audio.Buffer <= 0 {
		return fmt.Errorf("buffer must be positive, got %v", c.Audio.Buffer)
	}
	if c.Calibration.Tick <= 0 {
		return fmt.Errorf("calibration tick must be positive, got %v", c.Calibration.Tick)
	}
	if c.Particles.Count < 0 {
		return fmt.Errorf("particle count must be non-negative, got %d", c.Particles.Count)
	}
	if err := inRange("base_freq", c.Sliders.BaseFreq, BaseFreqMin, BaseFreqMax); err != nil {
		return err
	}
	if err := inRange("binaural_diff", c.Sliders.BinauralDiff, BinauralDiffMin, BinauralDiffMax); err != nil {
		return err
	}
	if err := inRange("volume", c.Sliders.Volume, VolumeMin, VolumeMax); err != nil {
		return err
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}
	return nil
}

func inRange(name string, v, lo, hi float64) error {
	if v < lo || v > hi {
		return fmt.Errorf("%s must be between %g and %g, got %g", name, lo, hi, v)
	}
	return nil
}
