package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

const (
	// FileName is the name of the configuration file.
	FileName = "arbor.json"

	// DefaultAddr is the default serve address.
	DefaultAddr = ":8420"

	// DefaultLogLevel is the default slog level name.
	DefaultLogLevel = "info"

	// DefaultMetricsNamespace is the default Prometheus namespace.
	DefaultMetricsNamespace = "arbor"
)

// Config is the arbor.json schema.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Addr is the serve listen address.
	Addr string `json:"addr,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing configures OpenTelemetry tracing.
	Tracing TracingConfig `json:"tracing,omitempty"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled turns the metrics observer on.
	Enabled bool `json:"enabled,omitempty"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	// Enabled turns the tracing observer on.
	Enabled bool `json:"enabled,omitempty"`

	// TracerName overrides the default tracer name.
	TracerName string `json:"tracerName,omitempty"`
}

// Default returns the configuration defaults.
func Default() *Config {
	return &Config{
		Addr:     DefaultAddr,
		LogLevel: DefaultLogLevel,
		Metrics:  MetricsConfig{Enabled: true, Namespace: DefaultMetricsNamespace},
	}
}

// Load reads arbor.json from the current directory, applies defaults
// for missing fields, then applies environment overrides. A missing
// file yields the defaults.
func Load() (*Config, error) {
	return LoadFrom(FileName)
}

// LoadFrom reads the configuration from path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("ARBOR_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("ARBOR_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// SlogLevel maps the configured level name to a slog.Level. Unknown
// names fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
