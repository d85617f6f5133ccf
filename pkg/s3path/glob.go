package s3path

import (
	"context"
	"errors"
	"iter"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GlobOption configures a Glob call.
type GlobOption func(*globOptions)

type globOptions struct {
	caseInsensitive bool
}

// CaseInsensitive makes segment matching ignore case.
func CaseInsensitive() GlobOption {
	return func(o *globOptions) { o.caseInsensitive = true }
}

// Glob yields nodes under this directory matching a relative pattern.
//
// Pattern segments are matched against the synthetic hierarchy produced by
// Iterdir: literal segments, wildcard segments, and "**" for zero or more
// intermediate directories. Patterns that are anchored (leading separator or
// a drive) or traverse upward ("..") are unsupported.
//
// The sequence is lazy and restartable like Iterdir; matching re-lists on
// each range.
func (p *Path) Glob(ctx context.Context, pattern string, opts ...GlobOption) (iter.Seq[*Path], error) {
	var o globOptions
	for _, opt := range opts {
		opt(&o)
	}

	if pattern == "" {
		return nil, pathError("glob", p.raw, doublestar.ErrBadPattern)
	}
	if strings.HasPrefix(pattern, Sep) || p.parser.IsAbs(pattern) ||
		(p.Anchor() != "" && strings.HasPrefix(pattern, p.Anchor())) {
		return nil, pathError("glob", p.raw, errors.ErrUnsupported)
	}
	segments := strings.Split(pattern, Sep)
	for _, seg := range segments {
		if seg == ".." {
			return nil, pathError("glob", p.raw, errors.ErrUnsupported)
		}
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, pathError("glob", p.raw, doublestar.ErrBadPattern)
	}

	segs := splitSegments(pattern)
	return func(yield func(*Path) bool) {
		globRecurse(ctx, p, segs, o.caseInsensitive, yield)
	}, nil
}

// globRecurse matches the remaining pattern segments below node, yielding
// matches. Returns false once the consumer stops.
func globRecurse(ctx context.Context, node *Path, segs []string, ci bool, yield func(*Path) bool) bool {
	if len(segs) == 0 {
		return yield(node)
	}
	seg, rest := segs[0], segs[1:]

	if seg == "**" {
		// "**" matches zero directories at this node, or descends into
		// every child directory with the pattern unconsumed.
		if !globRecurse(ctx, node, rest, ci, yield) {
			return false
		}
		entries, err := node.iterdirEntries(ctx)
		if err != nil {
			return true
		}
		for child, isDir := range entries {
			if !isDir {
				continue
			}
			if !globRecurse(ctx, child, segs, ci, yield) {
				return false
			}
		}
		return true
	}

	entries, err := node.iterdirEntries(ctx)
	if err != nil {
		return true
	}
	for child, isDir := range entries {
		if len(rest) > 0 && !isDir {
			continue
		}
		if !matchSegment(seg, child.Name(), ci) {
			continue
		}
		if !globRecurse(ctx, child, rest, ci, yield) {
			return false
		}
	}
	return true
}

// matchSegment matches one pattern segment against one child name.
func matchSegment(pattern, name string, ci bool) bool {
	if ci {
		pattern = strings.ToLower(pattern)
		name = strings.ToLower(name)
	}
	ok, err := doublestar.Match(pattern, name)
	// Pattern was validated up front; a match error here means a segment
	// that cannot match anything.
	return err == nil && ok
}
