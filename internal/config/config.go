package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Logging contains log output configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Decoder contains limits for the Crate decoder and reconstruction.
type Decoder struct {
	NumThreads         int `toml:"num_threads"`
	MaxFieldValuePairs int `toml:"max_fieldvalue_pairs"`
	MaxElementSize     int `toml:"max_element_size"`
	MaxPrimNestLevel   int `toml:"max_prim_nest_level"`
}

// Catalog contains configuration for the inspection catalog.
type Catalog struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Config is the full application configuration.
type Config struct {
	Logging Logging `toml:"logging"`
	Decoder Decoder `toml:"decoder"`
	Catalog Catalog `toml:"catalog"`
}

// Default returns the repository defaults.
func Default() *Config {
	return &Config{
		Logging: Logging{Level: defaultLogLevel, Format: defaultLogFormat},
		Decoder: Decoder{
			NumThreads:         defaultNumThreads,
			MaxFieldValuePairs: defaultMaxFieldValuePairs,
			MaxElementSize:     defaultMaxElementSize,
			MaxPrimNestLevel:   defaultMaxPrimNestLevel,
		},
		Catalog: Catalog{Enabled: defaultCatalogEnabled, Path: defaultCatalogPath},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	return "~/.config/stagecrate/config.toml"
}

// Load reads path, applies defaults for unset fields, expands user paths,
// and validates. A missing file at the default location yields the
// defaults; a missing file at an explicit location is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("expand config path: %w", err)
	}

	cfg := Default()
	data, err := os.ReadFile(expanded)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if explicit {
			return nil, fmt.Errorf("config file %s does not exist", expanded)
		}
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}

	if c.Catalog.Path == "" {
		c.Catalog.Path = defaultCatalogPath
	}
	expanded, err := ExpandPath(c.Catalog.Path)
	if err != nil {
		return fmt.Errorf("expand catalog path: %w", err)
	}
	c.Catalog.Path = expanded
	return nil
}

// Validate rejects out-of-range limits and unknown logging options.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging level: unsupported value %q", c.Logging.Level)
	}

	if c.Decoder.NumThreads < -1 || c.Decoder.NumThreads == 0 {
		return fmt.Errorf("decoder num_threads: must be -1 or positive, got %d", c.Decoder.NumThreads)
	}
	if c.Decoder.MaxFieldValuePairs < 1 {
		return fmt.Errorf("decoder max_fieldvalue_pairs: must be positive, got %d", c.Decoder.MaxFieldValuePairs)
	}
	if c.Decoder.MaxElementSize < 1 {
		return fmt.Errorf("decoder max_element_size: must be positive, got %d", c.Decoder.MaxElementSize)
	}
	if c.Decoder.MaxPrimNestLevel < 1 {
		return fmt.Errorf("decoder max_prim_nest_level: must be positive, got %d", c.Decoder.MaxPrimNestLevel)
	}
	return nil
}

// ExpandPath resolves a leading tilde against the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
