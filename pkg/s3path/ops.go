package s3path

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"iter"
	"strings"
	"time"

	"github.com/3leaps/s3path/pkg/s3client"
)

// File is the handle returned by Open. Exactly one direction is active,
// decided by the open mode; using the other returns an error.
type File struct {
	r io.ReadCloser
	w io.WriteCloser
}

var errNotReadable = errors.New("file not open for reading")
var errNotWritable = errors.New("file not open for writing")

// Read reads from a file opened in read mode.
func (f *File) Read(p []byte) (int, error) {
	if f.r == nil {
		return 0, errNotReadable
	}
	return f.r.Read(p)
}

// Write writes to a file opened in write mode.
func (f *File) Write(p []byte) (int, error) {
	if f.w == nil {
		return 0, errNotWritable
	}
	return f.w.Write(p)
}

// Close releases the handle. For write mode this finalizes the object; the
// write is not durable until Close returns nil.
func (f *File) Close() error {
	if f.r != nil {
		return f.r.Close()
	}
	if f.w != nil {
		return f.w.Close()
	}
	return nil
}

// Open opens the object in the given mode. Modes reduce to exactly "r" or
// "w" after stripping the binary/text qualifiers ("b", "t"); anything else
// (append, read-write, "x") is unsupported. A missing object in read mode
// surfaces fs.ErrNotExist carrying the path string; write-mode backend errors
// propagate unchanged.
func (p *Path) Open(ctx context.Context, mode string) (*File, error) {
	if !p.IsAbs() {
		return nil, pathError("open", p.raw, errors.ErrUnsupported)
	}
	action := strings.Map(func(r rune) rune {
		if r == 'b' || r == 't' {
			return -1
		}
		return r
	}, mode)

	switch action {
	case "r":
		rc, err := p.client.GetObject(ctx, p.Bucket(), p.Key())
		if err != nil {
			if s3client.IsNotFound(err) {
				return nil, pathError("open", p.raw, fs.ErrNotExist)
			}
			return nil, err
		}
		return &File{r: rc}, nil
	case "w":
		wc, err := p.client.PutObject(ctx, p.Bucket(), p.Key())
		if err != nil {
			return nil, err
		}
		return &File{w: wc}, nil
	default:
		return nil, pathError("open", p.raw, errors.ErrUnsupported)
	}
}

// ReadBytes reads the whole object.
func (p *Path) ReadBytes(ctx context.Context) ([]byte, error) {
	f, err := p.Open(ctx, "rb")
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

// WriteBytes writes data as the object's full content.
func (p *Path) WriteBytes(ctx context.Context, data []byte) (int, error) {
	f, err := p.Open(ctx, "wb")
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, bytes.NewReader(data))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return int(n), err
}

// Stat resolves the node to a file or synthetic directory.
//
// The backend has no directory objects, so resolution is a decision cascade:
//  1. head the key directly; a hit is a file (or a directory when the key
//     itself ends with the separator)
//  2. head the key with a trailing separator; a hit is a directory marker
//  3. list the key as a prefix; any child synthesizes a zero-size directory
//  4. otherwise the path does not exist
//
// The bucket root (empty key) is always a directory.
func (p *Path) Stat(ctx context.Context) (fs.FileInfo, error) {
	if !p.IsAbs() {
		return nil, pathError("stat", p.raw, errors.ErrUnsupported)
	}
	key := p.Key()
	if key == "" {
		return &fileInfo{name: p.Bucket(), mode: fs.ModeDir}, nil
	}

	if info, err := p.client.HeadObject(ctx, p.Bucket(), key); err == nil {
		mode := fs.FileMode(0)
		if strings.HasSuffix(info.Key, Sep) {
			mode = fs.ModeDir
		}
		return newFileInfo(p.Name(), mode, info), nil
	} else if !s3client.IsNotFound(err) {
		return nil, err
	}

	if info, err := p.client.HeadObject(ctx, p.Bucket(), key+Sep); err == nil {
		return newFileInfo(p.Name(), fs.ModeDir, info), nil
	} else if !s3client.IsNotFound(err) {
		return nil, err
	}

	page, err := p.client.ListObjects(ctx, p.Bucket(), s3client.ListOptions{
		Prefix:  key + Sep,
		MaxKeys: 1,
	})
	if err == nil && (len(page.Objects) > 0 || len(page.CommonPrefixes) > 0) {
		return &fileInfo{name: p.Name(), mode: fs.ModeDir}, nil
	}

	return nil, pathError("stat", p.raw, fs.ErrNotExist)
}

// Exists reports whether the node resolves to a file or directory.
func (p *Path) Exists(ctx context.Context) bool {
	_, err := p.Stat(ctx)
	return err == nil
}

// IsDir reports whether the node currently resolves as a directory.
func (p *Path) IsDir(ctx context.Context) bool {
	info, err := p.Stat(ctx)
	return err == nil && info.IsDir()
}

// IsFile reports whether the node currently resolves as a regular object.
func (p *Path) IsFile(ctx context.Context) bool {
	info, err := p.Stat(ctx)
	return err == nil && !info.IsDir()
}

// Iterdir yields the directory's immediate children. The node must currently
// resolve as a directory, else ErrNotADirectory.
//
// The sequence is lazy and restartable: each range re-issues listing
// requests, and nothing is cached across calls. Per listing page, child
// prefixes (directories) are yielded before objects; the directory's own
// marker entry is never yielded. A listing failure ends the sequence rather
// than erroring; listing a nonexistent prefix simply has no children.
func (p *Path) Iterdir(ctx context.Context) (iter.Seq[*Path], error) {
	entries, err := p.iterdirEntries(ctx)
	if err != nil {
		return nil, err
	}
	return func(yield func(*Path) bool) {
		for child := range entries {
			if !yield(child) {
				return
			}
		}
	}, nil
}

// iterdirEntries is Iterdir with dir-ness attached to each child: true for
// children synthesized from common prefixes, false for objects. Glob uses
// the flag to prune descent without extra stat calls.
func (p *Path) iterdirEntries(ctx context.Context) (iter.Seq2[*Path, bool], error) {
	if !p.IsAbs() {
		return nil, pathError("iterdir", p.raw, errors.ErrUnsupported)
	}
	if !p.IsDir(ctx) {
		return nil, pathError("iterdir", p.raw, ErrNotADirectory)
	}

	bucket := p.Bucket()
	key := forceDir(p.Key())

	return func(yield func(*Path, bool) bool) {
		token := ""
		for {
			page, err := p.client.ListObjects(ctx, bucket, s3client.ListOptions{
				Prefix:            key,
				Delimiter:         Sep,
				ContinuationToken: token,
			})
			if err != nil {
				return
			}
			for _, cp := range page.CommonPrefixes {
				if !yield(p.WithSegments(strings.TrimSuffix(cp, Sep)), true) {
					return
				}
			}
			for _, obj := range page.Objects {
				if obj.Key == key {
					continue
				}
				if !yield(p.WithSegments(obj.Key), false) {
					return
				}
			}
			if !page.IsTruncated || page.ContinuationToken == "" {
				return
			}
			token = page.ContinuationToken
		}
	}, nil
}

// Mkdir materializes the directory as a zero-byte marker object whose key
// ends with the separator. An existing directory fails with fs.ErrExist
// unless existOK is set, in which case nothing is written.
func (p *Path) Mkdir(ctx context.Context, existOK bool) error {
	if !p.IsAbs() {
		return pathError("mkdir", p.raw, errors.ErrUnsupported)
	}
	if p.IsDir(ctx) {
		if existOK {
			return nil
		}
		return pathError("mkdir", p.raw, fs.ErrExist)
	}
	w, err := p.client.PutObject(ctx, p.Bucket(), forceDir(p.Key()))
	if err != nil {
		return err
	}
	return w.Close()
}

// Unlink deletes the object. Directories fail with ErrIsADirectory and must
// be removed with Rmdir. With missingOK unset an existence check runs first
// so a missing key surfaces fs.ErrNotExist; with missingOK set the delete is
// delegated directly to the idempotent backend delete.
func (p *Path) Unlink(ctx context.Context, missingOK bool) error {
	if !p.IsAbs() {
		return pathError("unlink", p.raw, errors.ErrUnsupported)
	}
	if p.IsDir(ctx) {
		return pathError("unlink", p.raw, ErrIsADirectory)
	}
	if !missingOK {
		if _, err := p.client.HeadObject(ctx, p.Bucket(), p.Key()); err != nil {
			if s3client.IsNotFound(err) {
				return pathError("unlink", p.raw, fs.ErrNotExist)
			}
			return err
		}
	}
	return p.client.DeleteObject(ctx, p.Bucket(), p.Key())
}

// Rmdir removes an empty directory. The emptiness probe stops at the first
// child rather than materializing the listing; any child fails the call with
// ErrNotEmpty. Removing the bucket root is unsupported.
func (p *Path) Rmdir(ctx context.Context) error {
	if p.IsAbs() && p.Key() == "" {
		return pathError("rmdir", p.raw, errors.ErrUnsupported)
	}
	children, err := p.Iterdir(ctx)
	if err != nil {
		return err
	}
	for range children {
		return pathError("rmdir", p.raw, ErrNotEmpty)
	}
	return p.client.DeleteObject(ctx, p.Bucket(), forceDir(p.Key()))
}

// forceDir appends the separator to a nonempty key that lacks one.
func forceDir(key string) string {
	if key == "" || strings.HasSuffix(key, Sep) {
		return key
	}
	return key + Sep
}

// fileInfo implements fs.FileInfo for stat results. Synthetic directories
// inferred from prefix listings have no size or mtime.
type fileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	sys     *s3client.ObjectInfo
}

func newFileInfo(name string, mode fs.FileMode, info *s3client.ObjectInfo) *fileInfo {
	return &fileInfo{
		name:    name,
		size:    info.Size,
		mode:    mode,
		modTime: info.LastModified,
		sys:     info,
	}
}

func (fi *fileInfo) Name() string       { return fi.name }
func (fi *fileInfo) Size() int64        { return fi.size }
func (fi *fileInfo) Mode() fs.FileMode  { return fi.mode }
func (fi *fileInfo) ModTime() time.Time { return fi.modTime }
func (fi *fileInfo) IsDir() bool        { return fi.mode.IsDir() }

// Sys returns the underlying *s3client.ObjectInfo, or nil for synthetic
// directories.
func (fi *fileInfo) Sys() any { return fi.sys }
