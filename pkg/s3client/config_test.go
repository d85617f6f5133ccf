package s3client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvBucketRegion, EnvAWSRegion, EnvRegion, EnvThroughputTarget, EnvPartSize} {
		t.Setenv(name, "")
	}
}

func TestResolveRegion(t *testing.T) {
	t.Run("explicit wins over environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvBucketRegion, "eu-west-1")
		assert.Equal(t, "ap-southeast-2", ResolveRegion("ap-southeast-2"))
	})

	t.Run("bucket region precedes aws region", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvBucketRegion, "eu-west-1")
		t.Setenv(EnvAWSRegion, "us-east-2")
		t.Setenv(EnvRegion, "us-west-1")
		assert.Equal(t, "eu-west-1", ResolveRegion(""))
	})

	t.Run("aws region precedes plain region", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvAWSRegion, "us-east-2")
		t.Setenv(EnvRegion, "us-west-1")
		assert.Equal(t, "us-east-2", ResolveRegion(""))
	})

	t.Run("plain region as last resort", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvRegion, "us-west-1")
		assert.Equal(t, "us-west-1", ResolveRegion(""))
	})

	t.Run("fixed default", func(t *testing.T) {
		clearEnv(t)
		assert.Equal(t, DefaultRegion, ResolveRegion(""))
	})
}

func TestResolveConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)
		cfg := ResolveConfig(Config{})
		assert.Equal(t, DefaultThroughputTargetGbps, cfg.ThroughputTargetGbps)
		assert.Equal(t, DefaultPartSize, cfg.PartSize)
	})

	t.Run("explicit values pass through", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvThroughputTarget, "100")
		t.Setenv(EnvPartSize, "8")
		cfg := ResolveConfig(Config{ThroughputTargetGbps: 25, PartSize: 32 << 20})
		assert.Equal(t, 25.0, cfg.ThroughputTargetGbps)
		assert.Equal(t, int64(32)<<20, cfg.PartSize)
	})

	t.Run("environment part size is MiB, stored as bytes", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvPartSize, "16")
		cfg := ResolveConfig(Config{})
		assert.Equal(t, int64(16)*1024*1024, cfg.PartSize)
	})

	t.Run("environment throughput target", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvThroughputTarget, "12.5")
		cfg := ResolveConfig(Config{})
		assert.Equal(t, 12.5, cfg.ThroughputTargetGbps)
	})

	t.Run("unparseable overrides fall back to defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvThroughputTarget, "fast")
		t.Setenv(EnvPartSize, "-3")
		cfg := ResolveConfig(Config{})
		assert.Equal(t, DefaultThroughputTargetGbps, cfg.ThroughputTargetGbps)
		assert.Equal(t, DefaultPartSize, cfg.PartSize)
	})
}
