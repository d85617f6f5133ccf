package s3path

import (
	"context"
	"strings"

	"github.com/3leaps/s3path/pkg/s3client"
	awsclient "github.com/3leaps/s3path/pkg/s3client/aws"
)

// Path is one storage location, immutable by convention. Identity (Equal,
// String, map keys via String) is defined solely by the canonical string form
// of the path; the client handle and transfer config never participate.
//
// Deriving a new Path (Join, Parent, WithName, WithSegments, Iterdir results)
// preserves the originating node's client, region and config, so a tree of
// derived paths shares one client.
type Path struct {
	raw    string
	region string
	config s3client.Config
	client s3client.Client
	parser Parser
}

// Option configures Path construction.
type Option func(*pathOptions)

type pathOptions struct {
	client s3client.Client
	region string
	config s3client.Config
}

// WithClient supplies a shared client handle instead of constructing one.
func WithClient(c s3client.Client) Option {
	return func(o *pathOptions) { o.client = c }
}

// WithRegion sets the bucket region explicitly, bypassing environment
// resolution.
func WithRegion(region string) Option {
	return func(o *pathOptions) { o.region = region }
}

// WithConfig sets the transfer configuration explicitly. Zero fields still
// resolve through the environment and defaults.
func WithConfig(cfg s3client.Config) Option {
	return func(o *pathOptions) { o.config = cfg }
}

// New constructs a Path from one or more segments, resolving region and
// transfer configuration (explicit option, then environment, then defaults)
// and building a storage client unless one is supplied.
func New(path string, opts ...Option) (*Path, error) {
	var o pathOptions
	for _, opt := range opts {
		opt(&o)
	}

	region := s3client.ResolveRegion(o.region)
	config := s3client.ResolveConfig(o.config)

	client := o.client
	if client == nil {
		var err error
		client, err = newDefaultClient(region, config)
		if err != nil {
			return nil, err
		}
	}

	return &Path{
		raw:    canonical(path),
		region: region,
		config: config,
		client: client,
	}, nil
}

// newDefaultClient builds a fresh client bound to the resolved region and
// transfer config.
func newDefaultClient(region string, cfg s3client.Config) (s3client.Client, error) {
	return awsclient.New(context.Background(), awsclient.Options{
		Region:   region,
		Transfer: cfg,
	})
}

// canonical normalizes a path string: duplicate separators and "." segments
// collapse, ".." segments are kept verbatim, and any trailing separator is
// dropped. Two paths that canonicalize identically are interchangeable.
func canonical(path string) string {
	var p Parser
	drive, key := p.SplitDrive(path)
	segs := splitSegments(key)
	joined := strings.Join(segs, Sep)
	if drive == "" {
		return joined
	}
	return drive + Sep + joined
}

// splitSegments splits a key into its meaningful segments.
func splitSegments(key string) []string {
	parts := strings.Split(key, Sep)
	segs := parts[:0]
	for _, s := range parts {
		if s == "" || s == "." {
			continue
		}
		segs = append(segs, s)
	}
	return segs
}

// derive clones the node with a new raw path, preserving client, region and
// config.
func (p *Path) derive(raw string) *Path {
	return &Path{
		raw:    canonical(raw),
		region: p.region,
		config: p.config,
		client: p.client,
	}
}

// String returns the canonical string form. Bucket roots render with a
// trailing separator ("s3://bucket/").
func (p *Path) String() string {
	return p.raw
}

// Equal reports whether two nodes have the same canonical string form,
// regardless of which client or config each holds.
func (p *Path) Equal(other *Path) bool {
	return other != nil && p.raw == other.raw
}

// IsAbs reports whether the path specifies a bucket.
func (p *Path) IsAbs() bool {
	return p.parser.IsAbs(p.raw)
}

// Drive returns "scheme://bucket", or "" for relative fragments.
func (p *Path) Drive() string {
	drive, _ := p.parser.SplitDrive(p.raw)
	return drive
}

// Anchor returns the drive plus root separator ("s3://bucket/"), or "" for
// relative fragments.
func (p *Path) Anchor() string {
	drive := p.Drive()
	if drive == "" {
		return ""
	}
	return drive + Sep
}

// Bucket returns the bucket name, empty unless absolute.
func (p *Path) Bucket() string {
	drive := p.Drive()
	if i := strings.Index(drive, schemeSep); i >= 0 {
		return drive[i+len(schemeSep):]
	}
	return ""
}

// Key returns the slash-joined segments after the bucket, empty unless
// absolute. A Path with a drive and an empty key is the bucket root and is
// always a directory.
func (p *Path) Key() string {
	if !p.IsAbs() {
		return ""
	}
	_, key := p.parser.SplitDrive(p.raw)
	return key
}

// Name returns the final path segment, or "" for bucket roots.
func (p *Path) Name() string {
	_, name := p.parser.Split(p.raw)
	return name
}

// Parent returns the logical parent. The parent of a bucket root (or an
// empty relative fragment) is the node itself.
func (p *Path) Parent() *Path {
	drive, key := p.parser.SplitDrive(p.raw)
	segs := splitSegments(key)
	if len(segs) == 0 {
		return p
	}
	parentKey := strings.Join(segs[:len(segs)-1], Sep)
	if drive == "" {
		return p.derive(parentKey)
	}
	return p.derive(drive + Sep + parentKey)
}

// Segments returns the key split into segments; for absolute paths the drive
// is not included.
func (p *Path) Segments() []string {
	if p.IsAbs() {
		return splitSegments(p.Key())
	}
	return splitSegments(p.raw)
}

// Join appends segments to the path, POSIX join semantics.
func (p *Path) Join(segments ...string) *Path {
	return p.derive(p.parser.Join(p.raw, segments...))
}

// WithSegments rebuilds a sibling node from raw segments, anchoring relative
// results under this node's bucket. Used by iteration to turn listed keys
// back into nodes.
func (p *Path) WithSegments(segments ...string) *Path {
	joined := strings.TrimPrefix(strings.Join(segments, Sep), Sep)
	if anchor := p.Anchor(); anchor != "" && !strings.HasPrefix(joined, anchor) {
		joined = anchor + joined
	}
	return p.derive(joined)
}

// WithName replaces the final path segment. Names containing a separator or
// a drive are invalid.
func (p *Path) WithName(name string) (*Path, error) {
	if name == "" || name == "." || name == ".." ||
		strings.Contains(name, Sep) || strings.Contains(name, schemeSep) {
		return nil, pathError("with_name", p.raw, ErrInvalidName)
	}
	parent, old := p.parser.Split(p.raw)
	if old == "" {
		return nil, pathError("with_name", p.raw, ErrInvalidName)
	}
	if parent == "" {
		// Relative fragment: replace the tail in place.
		if i := strings.LastIndex(p.raw, Sep); i >= 0 {
			return p.derive(p.raw[:i+1] + name), nil
		}
		return p.derive(name), nil
	}
	return p.derive(p.parser.Join(parent, name)), nil
}

// Region returns the resolved bucket region.
func (p *Path) Region() string {
	return p.region
}

// Config returns the resolved transfer configuration.
func (p *Path) Config() s3client.Config {
	return p.config
}

// Client returns the node's storage-client handle.
func (p *Path) Client() s3client.Client {
	return p.client
}
