// Package config loads the process configuration for the CLI and the HTTP
// gateway: defaults, an optional YAML config file, and S3PATH_* environment
// overrides, in that precedence order (later wins).
package config

import (
	"fmt"
	"time"

	"github.com/3leaps/s3path/pkg/s3client"
)

// Config is the full process configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Storage StorageConfig `mapstructure:"storage"`
}

// ServerConfig configures the HTTP gateway.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig configures the zap loggers.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StorageConfig configures the storage client shared by all commands.
type StorageConfig struct {
	// Backend selects the client implementation: "aws" or "minio".
	Backend string `mapstructure:"backend"`

	// Region overrides environment-based region resolution.
	Region string `mapstructure:"region"`

	// Endpoint points at an S3-compatible store. Empty means AWS.
	Endpoint string `mapstructure:"endpoint"`

	// Profile selects an AWS shared-config profile.
	Profile string `mapstructure:"profile"`

	// PathStyle forces path-style addressing, required by most
	// S3-compatible stores.
	PathStyle bool `mapstructure:"path_style"`

	// ListRateLimit caps listing calls per second. Zero disables limiting.
	ListRateLimit float64 `mapstructure:"list_rate_limit"`

	// Transfer holds throughput and part-size settings.
	Transfer s3client.Config `mapstructure:"transfer"`
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Storage.Backend {
	case "aws", "minio":
	default:
		return fmt.Errorf("storage.backend %q unknown (supported: aws, minio)", c.Storage.Backend)
	}
	if c.Storage.ListRateLimit < 0 {
		return fmt.Errorf("storage.list_rate_limit must not be negative")
	}
	return nil
}
