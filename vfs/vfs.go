// Package vfs abstracts the filesystem the container codec reads and writes
// through. Two implementations exist: an OS-backed one and an in-memory one
// selected by the MemPrefix path scheme, which test harnesses use to avoid
// touching disk.
package vfs

import (
	"io"
	"strings"
)

// MemPrefix is the path scheme routed to the shared in-memory filesystem.
const MemPrefix = "/mem/"

// File is a random-access file handle. Containers address their strips and
// tables by absolute offset, so both directions use the *At forms.
type File interface {
	io.ReaderAt
	io.WriterAt
	io.Closer

	// Truncate changes the file size. Used when a rewritten tag dictionary
	// shrinks the container tail.
	Truncate(size int64) error

	// Size returns the current file size.
	Size() (int64, error)
}

// FS creates, opens, and removes container files by path.
type FS interface {
	// Create creates or truncates the file at path and opens it read-write.
	Create(path string) (File, error)

	// Open opens the file at path read-only. A missing file fails with an
	// error satisfying errors.Is(err, fs.ErrNotExist).
	Open(path string) (File, error)

	// OpenRW opens an existing file at path for reading and writing.
	OpenRW(path string) (File, error)

	// Remove deletes the file at path.
	Remove(path string) error

	// Exists reports whether a file exists at path.
	Exists(path string) bool
}

var memFS = NewMemFS()

// ForPath returns the filesystem responsible for path: the shared in-memory
// filesystem for MemPrefix paths, the OS filesystem otherwise.
func ForPath(path string) FS {
	if strings.HasPrefix(path, MemPrefix) {
		return memFS
	}

	return OSFS{}
}
