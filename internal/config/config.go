// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"

	"svcs/internal/validation"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when SVCS_CONFIG is unset.
const DefaultPath = "svcs.yaml"

type Config struct {
	RepoDir  string `yaml:"repo_dir"`  // marker directory under the working directory
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`

	Cache struct {
		Size int `yaml:"size"` // snapshot files kept in memory
	} `yaml:"cache"`

	Catalog struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"catalog"`
}

var _ validation.Validator = (*Config)(nil)

func Default() *Config {
	cfg := &Config{
		RepoDir:  "vcs",
		LogLevel: "warn",
	}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 8734
	cfg.Cache.Size = 256
	cfg.Catalog.Enabled = true
	return cfg
}

// Path returns the config file location.
func Path() string {
	if p := os.Getenv("SVCS_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads a YAML file over the defaults, expanding environment variables
// in the file content first.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		cfg.applyEnv()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
		return cfg, nil
	}
	return Load(path)
}

func (c *Config) applyEnv() {
	if level := os.Getenv("SVCS_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
}

func (c *Config) Validate() error {
	if c.RepoDir == "" {
		return fmt.Errorf("repo_dir is required")
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Cache.Size <= 0 {
		return fmt.Errorf("cache.size must be positive")
	}
	return nil
}
