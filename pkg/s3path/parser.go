// Package s3path layers hierarchical filesystem-path semantics over flat
// object-storage keys. A Path is a value of the form s3://bucket/key whose
// operations (Open, Stat, Iterdir, Mkdir, Unlink, Rmdir, Glob) are translated
// into primitive calls on an s3client.Client, with directory semantics
// synthesized from key prefixes since the backend has no directory objects.
package s3path

import (
	"strings"
)

// Sep is the path separator. Keys are always slash-delimited regardless of
// platform.
const Sep = "/"

// schemeSep separates the scheme from the bucket in absolute paths.
const schemeSep = "://"

// Parser is the stateless grammar for s3://bucket/key strings. All methods
// are pure string functions; malformed input parses into empty components
// rather than erroring.
type Parser struct{}

// Join joins a base path and segments POSIX-style. A segment with a leading
// separator resets the result to that segment; no "."/".." normalization is
// performed.
func (Parser) Join(base string, segments ...string) string {
	result := base
	for _, seg := range segments {
		switch {
		case strings.HasPrefix(seg, Sep):
			result = seg
		case result == "" || strings.HasSuffix(result, Sep):
			result += seg
		default:
			result += Sep + seg
		}
	}
	return result
}

// Split parses a path into (parent, name) where name is the last key
// segment. For absolute paths the parent carries the drive:
//
//	Split("s3://bkt/a/b/c.txt") = ("s3://bkt/a/b", "c.txt")
//
// Relative fragments have no recoverable drive, so the parent is empty and
// only the final segment is returned.
func (p Parser) Split(path string) (parent, name string) {
	drive, key := p.SplitDrive(path)
	key = strings.TrimPrefix(key, Sep)
	i := strings.LastIndex(key, Sep)
	if i < 0 {
		parent, name = "", key
	} else {
		parent, name = key[:i], key[i+1:]
	}
	if drive == "" {
		return "", name
	}
	return drive + Sep + parent, name
}

// SplitDrive splits a path into (scheme://bucket, key). Relative fragments
// have an empty drive and are returned unchanged as the key.
func (Parser) SplitDrive(path string) (drive, key string) {
	i := strings.Index(path, schemeSep)
	if i < 0 {
		return "", path
	}
	rest := path[i+len(schemeSep):]
	j := strings.Index(rest, Sep)
	if j < 0 {
		return path, ""
	}
	return path[:i+len(schemeSep)] + rest[:j], rest[j+1:]
}

// SplitExt splits off the extension of the final segment, POSIX rules:
// the extension starts at the last dot of the basename, and leading dots
// (hidden-file style) do not count.
func (Parser) SplitExt(path string) (root, ext string) {
	base := path
	if i := strings.LastIndex(path, Sep); i >= 0 {
		base = path[i+1:]
	}
	dot := strings.LastIndex(base, ".")
	// Reject dots that only lead the basename (".profile" has no ext).
	lead := 0
	for lead < len(base) && base[lead] == '.' {
		lead++
	}
	if dot <= lead-1 || dot < 0 {
		return path, ""
	}
	cut := len(path) - (len(base) - dot)
	return path[:cut], path[cut:]
}

// NormCase normalizes case. Object keys are case-sensitive, so this is the
// identity, mirroring POSIX.
func (Parser) NormCase(path string) string {
	return path
}

// IsAbs reports whether the path specifies a bucket (contains the scheme
// delimiter). Relative fragments are never absolute.
func (Parser) IsAbs(path string) bool {
	return strings.Contains(path, schemeSep)
}
