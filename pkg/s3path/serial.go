package s3path

import (
	"encoding/json"

	"github.com/3leaps/s3path/pkg/s3client"
)

// pathState is the serialized form of a Path. The live client handle is
// deliberately excluded: it is an expensive resource that cannot cross
// process boundaries and is rebuilt on decode.
type pathState struct {
	Path   string           `json:"path"`
	Region string           `json:"region,omitempty"`
	Config *s3client.Config `json:"config,omitempty"`
}

// MarshalJSON serializes the path string, region and transfer config,
// excluding the client handle.
func (p *Path) MarshalJSON() ([]byte, error) {
	cfg := p.config
	return json.Marshal(pathState{
		Path:   p.raw,
		Region: p.region,
		Config: &cfg,
	})
}

// UnmarshalJSON reconstitutes a Path. Region and config are restored from
// the saved state when present, else re-derived from the environment and
// defaults, and a fresh client is built from them so the node is usable
// immediately with no manual re-wiring.
func (p *Path) UnmarshalJSON(data []byte) error {
	var st pathState
	if err := json.Unmarshal(data, &st); err != nil {
		return err
	}

	p.raw = canonical(st.Path)
	p.region = s3client.ResolveRegion(st.Region)
	if st.Config != nil {
		p.config = s3client.ResolveConfig(*st.Config)
	} else {
		p.config = s3client.ResolveConfig(s3client.Config{})
	}

	client, err := newDefaultClient(p.region, p.config)
	if err != nil {
		return err
	}
	p.client = client
	return nil
}
