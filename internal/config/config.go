package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvStoreURL       = "PROCAT_STORE_URL"
	EnvRequestTimeout = "PROCAT_REQUEST_TIMEOUT"
	EnvToastDuration  = "PROCAT_TOAST_DURATION"
	EnvHTTPAddr       = "PROCAT_HTTP_ADDR"
	EnvMetricsAddr    = "PROCAT_METRICS_ADDR"
	EnvLogLevel       = "PROCAT_LOG_LEVEL"
	EnvLogFile        = "PROCAT_LOG_FILE"
)

// Config holds all procat-editor configuration.
type Config struct {
	// Record store base URL; /api/products is resolved against it
	StoreURL string `yaml:"store_url"`

	// Timeout for each record store request
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// How long a notification stays visible
	ToastDuration time.Duration `yaml:"toast_duration"`

	// Listen address of the `serve` session API
	HTTPAddr string `yaml:"http_addr"`

	// Listen address of /metrics; empty disables it
	MetricsAddr string `yaml:"metrics_addr"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty = stderr (discarded in the TUI)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		StoreURL:       "http://localhost:3000",
		RequestTimeout: 10 * time.Second,
		ToastDuration:  3 * time.Second,
		HTTPAddr:       "127.0.0.1:8080",
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file, .env
// files and the environment, in that order of precedence (last wins).
// With no envFiles a ".env" in the working directory is used if present.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg, err := Read(path, envFiles...)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read resolves the configuration like Load but does not validate it, so
// callers can apply overrides such as CLI flags first.
func Read(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.StoreURL, EnvStoreURL)
	setString(&c.HTTPAddr, EnvHTTPAddr)
	setString(&c.MetricsAddr, EnvMetricsAddr)
	setString(&c.Logging.Level, EnvLogLevel)
	setString(&c.Logging.File, EnvLogFile)

	if err := setDuration(&c.RequestTimeout, EnvRequestTimeout); err != nil {
		return err
	}
	return setDuration(&c.ToastDuration, EnvToastDuration)
}

// Validate checks the configuration for values the editor cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.StoreURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("store_url %q must be an absolute URL", c.StoreURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.ToastDuration <= 0 {
		return fmt.Errorf("toast_duration must be positive, got %s", c.ToastDuration)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
