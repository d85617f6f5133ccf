package s3client

import (
	"os"
	"strconv"
)

// Environment variables consulted when configuration is not set explicitly.
const (
	// EnvBucketRegion, EnvAWSRegion and EnvRegion are checked in that
	// order when no region is given.
	EnvBucketRegion = "BUCKET_REGION"
	EnvAWSRegion    = "AWS_REGION"
	EnvRegion       = "REGION"

	// EnvThroughputTarget overrides the transfer throughput target (Gbps).
	EnvThroughputTarget = "S3_CRT_THROUGHPUT_TARGET_GPBS"

	// EnvPartSize overrides the multipart part size, in MiB.
	EnvPartSize = "S3_CRT_PART_SIZE_MB"
)

// Defaults applied when neither explicit configuration nor environment
// overrides are present.
const (
	// DefaultRegion is the fallback region.
	DefaultRegion = "us-east-1"

	// DefaultThroughputTargetGbps is the fallback transfer throughput
	// target in gigabits per second.
	DefaultThroughputTargetGbps = 400.0

	// DefaultPartSize is the fallback multipart part size in bytes (64 MiB).
	DefaultPartSize = int64(64) * 1024 * 1024
)

// Config is the transfer configuration shared by path nodes and passed down
// to client implementations. Part sizes are always held in bytes.
type Config struct {
	// ThroughputTargetGbps is the target aggregate transfer throughput.
	ThroughputTargetGbps float64 `json:"throughput_target_gbps" mapstructure:"throughput_target_gbps"`

	// PartSize is the multipart transfer part size in bytes.
	PartSize int64 `json:"part_size" mapstructure:"part_size"`
}

// ResolveRegion resolves a bucket region with precedence: explicit argument,
// then BUCKET_REGION / AWS_REGION / REGION, then DefaultRegion.
func ResolveRegion(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{EnvBucketRegion, EnvAWSRegion, EnvRegion} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return DefaultRegion
}

// ResolveConfig fills the zero fields of cfg from the environment, falling
// back to package defaults. The part-size environment override is given in
// MiB and normalized to bytes.
func ResolveConfig(cfg Config) Config {
	if cfg.ThroughputTargetGbps <= 0 {
		cfg.ThroughputTargetGbps = DefaultThroughputTargetGbps
		if v := os.Getenv(EnvThroughputTarget); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
				cfg.ThroughputTargetGbps = f
			}
		}
	}
	if cfg.PartSize <= 0 {
		cfg.PartSize = DefaultPartSize
		if v := os.Getenv(EnvPartSize); v != "" {
			if mb, err := strconv.ParseInt(v, 10, 64); err == nil && mb > 0 {
				cfg.PartSize = mb * 1024 * 1024
			}
		}
	}
	return cfg
}
