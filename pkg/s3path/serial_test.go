package s3path

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3leaps/s3path/pkg/s3client"
)

func TestPath_MarshalJSON(t *testing.T) {
	p, err := New("s3://bkt//data/./file.txt",
		WithClient(newFakeClient("bkt")),
		WithRegion("eu-west-1"),
		WithConfig(s3client.Config{ThroughputTargetGbps: 25, PartSize: 16 << 20}),
	)
	require.NoError(t, err)

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, "s3://bkt/data/file.txt", raw["path"])
	assert.Equal(t, "eu-west-1", raw["region"])
	assert.Contains(t, raw, "config")
	// The client handle never crosses a serialization boundary.
	assert.NotContains(t, raw, "client")
}

func TestPath_UnmarshalJSON(t *testing.T) {
	original, err := New("s3://bkt/data/file.txt",
		WithClient(newFakeClient("bkt")),
		WithRegion("eu-west-1"),
		WithConfig(s3client.Config{ThroughputTargetGbps: 25, PartSize: 16 << 20}),
	)
	require.NoError(t, err)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var restored Path
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.True(t, original.Equal(&restored))
	assert.Equal(t, original.String(), restored.String())
	assert.Equal(t, "eu-west-1", restored.Region())
	assert.Equal(t, original.Config(), restored.Config())

	// The client is rebuilt on decode, not carried over.
	require.NotNil(t, restored.Client())
	assert.NotSame(t, original.Client(), restored.Client())
}

func TestPath_UnmarshalJSON_Defaults(t *testing.T) {
	t.Setenv(s3client.EnvBucketRegion, "")
	t.Setenv(s3client.EnvAWSRegion, "")
	t.Setenv(s3client.EnvRegion, "")
	t.Setenv(s3client.EnvThroughputTarget, "")
	t.Setenv(s3client.EnvPartSize, "")

	var p Path
	require.NoError(t, json.Unmarshal([]byte(`{"path":"s3://bkt/x"}`), &p))

	assert.Equal(t, "s3://bkt/x", p.String())
	assert.Equal(t, s3client.DefaultRegion, p.Region())
	assert.Equal(t, s3client.DefaultPartSize, p.Config().PartSize)
	assert.NotNil(t, p.Client())
}

func TestPath_UnmarshalJSON_Malformed(t *testing.T) {
	var p Path
	assert.Error(t, json.Unmarshal([]byte(`{"path":`), &p))
}
