package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// Duration parses "60s" style strings from both YAML and environment
// variables, which neither yaml.v3 nor a plain time.Duration field covers.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config holds everything the client needs to reach the backend. Values
// come from the YAML file first, then environment variables override.
type Config struct {
	BackendURL     string   `yaml:"backend_url" env:"SUMMIT_BACKEND_URL"`
	RequestTimeout Duration `yaml:"request_timeout" env:"SUMMIT_REQUEST_TIMEOUT"`
	LogFile        string   `yaml:"log_file" env:"SUMMIT_LOG_FILE"`
	LogLevel       string   `yaml:"log_level" env:"SUMMIT_LOG_LEVEL"`
}

func DefaultConfig() Config {
	return Config{
		BackendURL:     "http://localhost:8000",
		RequestTimeout: Duration(60 * time.Second),
		LogLevel:       "info",
	}
}

// Load reads the YAML file at path (missing file is fine) and applies
// environment overrides on top.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// Defaults plus environment only.
		default:
			return cfg, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.BackendURL == "" {
		cfg.BackendURL = DefaultConfig().BackendURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultConfig().RequestTimeout
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

// Save writes the config as YAML, creating parent directories as needed.
func Save(cfg Config, path string) error {
	if path == "" {
		return errors.New("no config path provided")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "summit-cli", "config.yml")
}
