package config

import (
	"fmt"
	"math"
	"net"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"

	"go-fingerprint-service/internal/template"
)

// Config holds server settings and the fingerprint algorithm parameters.
// Algorithm thresholds are explicit values passed into each operation rather
// than package-level state, so tests and callers can vary them freely.
type Config struct {
	Host               string        `envconfig:"HOST" default:"0.0.0.0"`
	Port               int           `envconfig:"PORT" default:"8080"`
	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ImageFetchTimeout  time.Duration `envconfig:"IMAGE_FETCH_TIMEOUT" default:"15s"`
	MaxRequestBodySize int64         `envconfig:"MAX_REQUEST_BODY_SIZE" default:"10485760"`

	// Template generation
	MinQualityThreshold float64 `envconfig:"MIN_QUALITY_THRESHOLD" default:"0.6"`
	MinMinutiaePoints   int     `envconfig:"MIN_MINUTIAE_POINTS" default:"10"`
	MaxMinutiaePoints   int     `envconfig:"MAX_MINUTIAE_POINTS" default:"50"`
	TemplateVersion     string  `envconfig:"TEMPLATE_VERSION" default:"1.0"`

	// Matching
	MatchThreshold       float64 `envconfig:"MATCH_THRESHOLD" default:"0.7"`
	MaxDistanceThreshold float64 `envconfig:"MAX_DISTANCE_THRESHOLD" default:"50"`
	OrientationTolerance float64 `envconfig:"ORIENTATION_TOLERANCE" default:"0.5"`
}

// ServerAddress returns the host:port pair the HTTP server binds to
func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// LoadFromEnv reads configuration from FINGERPRINT_-prefixed environment
// variables, falling back to documented defaults, and validates the result.
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("FINGERPRINT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every setting is inside its legal range
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Port)
	}
	if c.RequestTimeout <= 0 || c.ImageFetchTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s)",
			c.RequestTimeout, c.ImageFetchTimeout)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.MinQualityThreshold < 0 || c.MinQualityThreshold > 1 {
		return fmt.Errorf("MIN_QUALITY_THRESHOLD must be between 0 and 1 (got %g)", c.MinQualityThreshold)
	}
	if c.MatchThreshold < 0 || c.MatchThreshold > 1 {
		return fmt.Errorf("MATCH_THRESHOLD must be between 0 and 1 (got %g)", c.MatchThreshold)
	}
	if c.MaxDistanceThreshold <= 0 {
		return fmt.Errorf("MAX_DISTANCE_THRESHOLD must be positive (got %g)", c.MaxDistanceThreshold)
	}
	if c.OrientationTolerance <= 0 || c.OrientationTolerance > math.Pi {
		return fmt.Errorf("ORIENTATION_TOLERANCE must be between 0 and pi (got %g)", c.OrientationTolerance)
	}
	if c.MinMinutiaePoints <= 0 {
		return fmt.Errorf("MIN_MINUTIAE_POINTS must be positive (got %d)", c.MinMinutiaePoints)
	}
	if c.MaxMinutiaePoints <= c.MinMinutiaePoints {
		return fmt.Errorf("MAX_MINUTIAE_POINTS must be greater than MIN_MINUTIAE_POINTS (got %d <= %d)",
			c.MaxMinutiaePoints, c.MinMinutiaePoints)
	}
	if !template.IsSupported(c.TemplateVersion) {
		return fmt.Errorf("TEMPLATE_VERSION %q is not a decodable template format", c.TemplateVersion)
	}
	return nil
}
