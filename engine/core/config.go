package core

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

/** @brief Logger settings. */
type LogConfig struct {
	/** @brief Minimum level: debug, info, warn, error or fatal. */
	Level string `toml:"level"`
	/** @brief Text prepended to each log line. */
	Prefix string `toml:"prefix"`
}

/** @brief Where level and mesh assets live on disk. */
type AssetsConfig struct {
	/** @brief The root assets directory. */
	Dir string `toml:"dir"`
	/** @brief Mesh assets, relative to Dir. */
	Models string `toml:"models"`
	/** @brief Level manifests, relative to Dir. */
	Levels string `toml:"levels"`
	/** @brief Rebuild the current level whenever an asset changes on disk. */
	Watch bool `toml:"watch"`
}

/** @brief Level loading settings. */
type LoaderConfig struct {
	/** @brief The level to load at startup, by name (without extension). */
	Level string `toml:"level"`
	/** @brief Number of goroutines fetching mesh assets. 1 loads inline. */
	Workers int `toml:"workers"`
	/** @brief Capacity of the pending reload queue. */
	ReloadQueue int `toml:"reload_queue"`
}

type Config struct {
	Log    LogConfig    `toml:"log"`
	Assets AssetsConfig `toml:"assets"`
	Loader LoaderConfig `toml:"loader"`
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Prefix: "Levels 📦 ",
		},
		Assets: AssetsConfig{
			Dir:    "assets",
			Models: "models",
			Levels: "levels",
			Watch:  false,
		},
		Loader: LoaderConfig{
			Level:       "default",
			Workers:     1,
			ReloadQueue: 8,
		},
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig. A missing file is not
// an error: the defaults are returned as-is.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			LogWarn("config file '%s' not found, using defaults", path)
			return cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config '%s': %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Assets.Dir == "" {
		return fmt.Errorf("assets.dir is required")
	}
	if c.Loader.Workers < 1 {
		return fmt.Errorf("loader.workers must be >= 1, got %d", c.Loader.Workers)
	}
	if c.Loader.ReloadQueue < 1 {
		return fmt.Errorf("loader.reload_queue must be >= 1, got %d", c.Loader.ReloadQueue)
	}
	return nil
}

// Apply pushes the logging section into the process-wide logger.
func (c *Config) Apply() error {
	if c.Log.Prefix != "" {
		SetLogPrefix(c.Log.Prefix)
	}
	if c.Log.Level != "" {
		return SetLogLevel(c.Log.Level)
	}
	return nil
}
