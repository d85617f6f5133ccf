package s3path

import (
	"errors"
	"io/fs"
)

// Sentinel errors for structural violations of directory operations. Missing
// and colliding paths use the io/fs sentinels (fs.ErrNotExist, fs.ErrExist)
// and unsupported modes/patterns use errors.ErrUnsupported, so callers can
// match with errors.Is against the standard taxonomy.
var (
	// ErrNotADirectory indicates a directory operation on a non-directory.
	ErrNotADirectory = errors.New("not a directory")

	// ErrNotEmpty indicates removal of a directory that still has children.
	ErrNotEmpty = errors.New("directory not empty")

	// ErrIsADirectory indicates unlink on a directory; directories are
	// removed with Rmdir.
	ErrIsADirectory = errors.New("is a directory; use Rmdir")

	// ErrInvalidName indicates a name edit containing a separator or drive.
	ErrInvalidName = errors.New("invalid name")
)

// pathError builds a *fs.PathError so every failure carries the offending
// path string.
func pathError(op, path string, err error) error {
	return &fs.PathError{Op: op, Path: path, Err: err}
}

// IsNotExist returns true if the error indicates a missing path.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// IsExist returns true if the error indicates a path collision.
func IsExist(err error) bool {
	return errors.Is(err, fs.ErrExist)
}

// IsNotADirectory returns true if the error indicates a directory operation
// on a non-directory.
func IsNotADirectory(err error) bool {
	return errors.Is(err, ErrNotADirectory)
}

// IsNotEmpty returns true if the error indicates a non-empty directory.
func IsNotEmpty(err error) bool {
	return errors.Is(err, ErrNotEmpty)
}
