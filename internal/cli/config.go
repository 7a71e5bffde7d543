package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/patchwire/patchwire/pkg/pipeline"
)

// Config holds CLI-wide settings loaded from a TOML file. Every field is
// optional; zero values fall back to built-in defaults.
type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Layout LayoutConfig `toml:"layout"`
}

// CacheConfig controls where pipeline results are cached.
type CacheConfig struct {
	// Dir overrides the default file cache directory.
	Dir string `toml:"dir"`

	// Redis, when set, switches the serve command to a Redis cache.
	Redis RedisConfig `toml:"redis"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// ServerConfig holds settings for the serve command.
type ServerConfig struct {
	Listen string      `toml:"listen"`
	Mongo  MongoConfig `toml:"mongo"`
}

// MongoConfig holds MongoDB connection settings for document storage.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// LayoutConfig overrides the layout engine defaults.
type LayoutConfig struct {
	SpacingX      float64 `toml:"spacing_x"`
	SpacingY      float64 `toml:"spacing_y"`
	IslandSpacing float64 `toml:"island_spacing"`
	NodeWidth     float64 `toml:"node_width"`
	NodeHeight    float64 `toml:"node_height"`
	MaxSweeps     int     `toml:"max_sweeps"`
}

// LoadConfig reads the config file at path. With an empty path the default
// location is tried, and a missing default file yields an empty config
// rather than an error. An explicitly named file must exist.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return &Config{}, nil
		}
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return &cfg, nil
}

// ParseConfig decodes TOML config data. Used by tests and anywhere a config
// arrives as bytes rather than a file.
func ParseConfig(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// ApplyLayout copies the configured layout overrides onto pipeline options.
// Only non-zero values are applied.
func (c *Config) ApplyLayout(opts *pipeline.Options) {
	if c.Layout.SpacingX != 0 {
		opts.SpacingX = c.Layout.SpacingX
	}
	if c.Layout.SpacingY != 0 {
		opts.SpacingY = c.Layout.SpacingY
	}
	if c.Layout.IslandSpacing != 0 {
		opts.IslandSpacing = c.Layout.IslandSpacing
	}
	if c.Layout.NodeWidth != 0 {
		opts.NodeWidth = c.Layout.NodeWidth
	}
	if c.Layout.NodeHeight != 0 {
		opts.NodeHeight = c.Layout.NodeHeight
	}
	if c.Layout.MaxSweeps != 0 {
		opts.MaxSweeps = c.Layout.MaxSweeps
	}
}

// defaultConfigPath returns the XDG config file location, or "" when no
// home directory is available.
func defaultConfigPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}
