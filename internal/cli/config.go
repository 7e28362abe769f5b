package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/mrijkeboer/udpas/pkg/export"
)

// appName is the application name used for directories and display.
const appName = "udpas"

// Config holds settings read from the optional TOML configuration file.
// Command-line flags override config values, which override built-in defaults.
type Config struct {
	Workers  int      `toml:"workers"`
	Strict   bool     `toml:"strict"`
	Debug    bool     `toml:"debug"`
	VerbUPOS []string `toml:"verb_upos"`

	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
	Serve ServeConfig `toml:"serve"`
}

// RedisConfig locates the Redis instance used for shared diagnostics counters.
type RedisConfig struct {
	Addr string `toml:"addr"`
	DB   int    `toml:"db"`
}

// MongoConfig locates the MongoDB collection for predicate-record export.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServeConfig configures the HTTP annotation service.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

func defaultConfig() *Config {
	return &Config{
		Redis: RedisConfig{Addr: "localhost:6379"},
		Mongo: MongoConfig{
			URI:        "mongodb://localhost:27017",
			Database:   appName,
			Collection: "predicates",
		},
		Serve: ServeConfig{Addr: ":8080"},
	}
}

// loadConfig reads the TOML config at path. When path is empty, the XDG
// default location is tried and a missing file is not an error.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}

	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// defaultConfigPath returns the XDG standard location (~/.config/udpas/config.toml).
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

// mongoConfig converts the config section into export settings.
func (c *Config) mongoConfig() export.Config {
	return export.Config{
		URI:        c.Mongo.URI,
		Database:   c.Mongo.Database,
		Collection: c.Mongo.Collection,
	}
}
