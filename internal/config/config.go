// Package config loads the gomesh YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/philipparndt/gomesh/internal/logging"
)

const (
	// DefaultFile is looked up in the working directory when no path is given
	DefaultFile = "gomesh.yaml"
	// EnvFile names an environment variable holding the config path
	EnvFile = "GOMESH_CONFIG"
)

// Config is the file-level configuration. Command-line flags override it.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	STL     STLConfig     `yaml:"stl"`
	Watch   WatchConfig   `yaml:"watch"`
	Display DisplayConfig `yaml:"display"`
}

// LogConfig selects log level and output format
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// STLConfig tunes the STL decoder
type STLConfig struct {
	// EndSolidPrefix accepts "endsolid <name>" as the ASCII terminator line
	EndSolidPrefix bool `yaml:"endsolid_prefix"`
}

// WatchConfig tunes the watch command
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// DisplayConfig tunes report output
type DisplayConfig struct {
	Count int `yaml:"count"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Log:     LogConfig{Level: "info", Format: "text"},
		Watch:   WatchConfig{Debounce: 500 * time.Millisecond},
		Display: DisplayConfig{Count: 10},
	}
}

// Load reads the configuration.
// An explicit path must exist. Without one, $GOMESH_CONFIG and then
// ./gomesh.yaml are tried, and the defaults are used if neither exists.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvFile)
		explicit = path != ""
	}
	if path == "" {
		path = DefaultFile
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks field values
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return err
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	if c.Display.Count < 0 {
		return fmt.Errorf("display.count must not be negative, got %d", c.Display.Count)
	}
	return nil
}
