package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"dwipe/internal/logging"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const APP_NAME = "dwipe" // application name used for config directory

const (
	DefaultRounds      = 1
	DefaultBlockSizeMB = 8
	DefaultJobs        = 1

	// MaxBlockSizeMB is the largest block size whose byte count still fits
	// in an int on this platform.
	MaxBlockSizeMB = int64(^uint(0)>>1) >> 20
)

// Config holds the settings for one run. It is built once at startup and
// passed by value afterwards.
type Config struct {
	// Rounds is the number of randomized full-file passes.
	Rounds int `yaml:"rounds"`
	// BlockSizeMB caps the size of a single write, in megabytes.
	BlockSizeMB int  `yaml:"block_size_mb"`
	ZeroFirst   bool `yaml:"zero_first"`
	Recursive   bool `yaml:"recursive"`
	// Remove truncates, renames and deletes each file once it is wiped.
	Remove bool `yaml:"remove"`
	// Shapes fills with whole ASCII-art tokens instead of single characters.
	Shapes bool `yaml:"shapes"`
	Jobs   int  `yaml:"jobs"`

	// Verbose is a count: 1 prints progress lines, 2 adds debug logging.
	Verbose int `yaml:"-"`
	// Seed fixes the pattern generator. Zero means seed from the clock.
	Seed uint64 `yaml:"-"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Rounds:      DefaultRounds,
		BlockSizeMB: DefaultBlockSizeMB,
		Jobs:        DefaultJobs,
	}
}

// BlockSizeBytes returns the block size in bytes.
func (c Config) BlockSizeBytes() int64 {
	return int64(c.BlockSizeMB) << 20
}

// Validate checks that every numeric setting is a positive integer.
func (c Config) Validate() error {
	if c.Rounds < 1 {
		return fmt.Errorf("number of rounds must be a positive integer, got %d", c.Rounds)
	}
	if c.BlockSizeMB < 1 {
		return fmt.Errorf("block size must be a positive integer, got %d", c.BlockSizeMB)
	}
	// Checked before the shift in BlockSizeBytes can overflow
	if int64(c.BlockSizeMB) > MaxBlockSizeMB {
		return fmt.Errorf("block size of %d MB is too large, the maximum is %d MB", c.BlockSizeMB, MaxBlockSizeMB)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("number of jobs must be a positive integer, got %d", c.Jobs)
	}
	return nil
}

// ConfigPath returns the standard config file path for the current platform
func ConfigPath() string {
	configPath := filepath.Join(xdg.ConfigHome, APP_NAME, "config.yaml")

	logging.Debug("Determined config path", "path", configPath)
	return configPath
}

// FindConfigFile returns the path to the default config file, and whether it exists.
func FindConfigFile() (string, bool) {
	primary := ConfigPath()

	if _, err := os.Stat(primary); err == nil {
		logging.Debug("Config found at primary path", "path", primary)
		return primary, true
	}

	return primary, false
}

// Load returns the defaults overlaid with the standard config file, if
// there is one. A missing file is not an error.
func Load() (Config, error) {
	configPath, exists := FindConfigFile()
	if !exists {
		return Default(), nil
	}
	return LoadFrom(configPath)
}

// LoadFrom returns the defaults overlaid with the file at path. Keys absent
// from the file keep their default value.
func LoadFrom(path string) (Config, error) {
	logging.Debug("Reading config file", "path", path)
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}
