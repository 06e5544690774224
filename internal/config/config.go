// Package config defines service configuration and its loading.
//
// Conventions:
//   - Defaults live in New; Load layers .env, YAML file and environment on top.
//   - Errors are wrapped with ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
)

// Project id modes.
const (
	ProjectIDFixed = "fixed"
	ProjectIDUUID  = "uuid"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":3000".
	Addr string `koanf:"addr"`

	// ServiceName is reported to tracing backends.
	ServiceName string `koanf:"service_name"`

	// ProjectIDMode picks how project ids are produced: fixed or uuid.
	ProjectIDMode string `koanf:"project_id_mode"`

	// FixedProjectID is returned for every project in fixed mode.
	FixedProjectID string `koanf:"fixed_project_id"`

	// MaxBodyBytes caps request bodies read by the HTTP adapter.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// ProbeEnabled mounts the /api/test probe dispatcher on the server.
	ProbeEnabled bool `koanf:"probe_enabled"`

	// MetricsEnabled exposes /metrics.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// TracingEndpoint is an OTLP/gRPC collector address; empty disables export.
	TracingEndpoint string `koanf:"tracing_endpoint"`

	// TracingSampleRatio is the fraction of dispatches sampled, 0..1.
	TracingSampleRatio float64 `koanf:"tracing_sample_ratio"`

	// DatabaseURL is used by the schema-check diagnostic only.
	DatabaseURL string `koanf:"database_url"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":3000",
		ServiceName:        "teamhub-api",
		ProjectIDMode:      ProjectIDFixed,
		FixedProjectID:     "test-project-id",
		MaxBodyBytes:       1 << 20,
		ProbeEnabled:       true,
		MetricsEnabled:     true,
		TracingSampleRatio: 1,
	}
}

// Validate checks field values after all layers are applied.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	case c.TracingSampleRatio < 0 || c.TracingSampleRatio > 1:
		return fmt.Errorf("%w: tracing_sample_ratio must be within [0,1]", ErrInvalidConfig)
	}
	switch c.ProjectIDMode {
	case ProjectIDFixed:
		if strings.TrimSpace(c.FixedProjectID) == "" {
			return fmt.Errorf("%w: fixed_project_id must not be empty in fixed mode", ErrInvalidConfig)
		}
	case ProjectIDUUID:
	default:
		return fmt.Errorf("%w: unknown project_id_mode %q", ErrInvalidConfig, c.ProjectIDMode)
	}
	return nil
}
