package vfs

import (
	"io"
	"io/fs"
	"sync"

	"github.com/arloliu/gta/errs"
)

// MemFS is an in-memory FS. Every open handle of a path shares the same
// backing buffer, so bytes written through one handle are visible to handles
// opened later, mirroring file semantics.
type MemFS struct {
	mu    sync.Mutex
	files map[string]*memEntry
}

var _ FS = (*MemFS)(nil)

type memEntry struct {
	mu   sync.RWMutex
	data []byte
}

type memFile struct {
	entry    *memEntry
	readOnly bool
	closed   bool
}

// NewMemFS creates an empty in-memory filesystem. Most callers use the
// shared instance behind ForPath instead.
func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string]*memEntry)}
}

// Create creates or truncates path and opens it read-write.
func (m *MemFS) Create(path string) (File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := &memEntry{}
	m.files[path] = entry

	return &memFile{entry: entry}, nil
}

// Open opens path read-only.
func (m *MemFS) Open(path string) (File, error) {
	entry, err := m.lookup(path, "open")
	if err != nil {
		return nil, err
	}

	return &memFile{entry: entry, readOnly: true}, nil
}

// OpenRW opens an existing path read-write.
func (m *MemFS) OpenRW(path string) (File, error) {
	entry, err := m.lookup(path, "openrw")
	if err != nil {
		return nil, err
	}

	return &memFile{entry: entry}, nil
}

// Remove deletes path.
func (m *MemFS) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[path]; !ok {
		return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrNotExist}
	}
	delete(m.files, path)

	return nil
}

// Exists reports whether path exists.
func (m *MemFS) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.files[path]

	return ok
}

func (m *MemFS) lookup(path, op string) (*memEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: op, Path: path, Err: fs.ErrNotExist}
	}

	return entry, nil
}

func (f *memFile) ReadAt(p []byte, off int64) (int, error) {
	if f.closed {
		return 0, errs.ErrClosed
	}

	f.entry.mu.RLock()
	defer f.entry.mu.RUnlock()

	if off < 0 || off >= int64(len(f.entry.data)) {
		return 0, io.EOF
	}

	n := copy(p, f.entry.data[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

func (f *memFile) WriteAt(p []byte, off int64) (int, error) {
	if f.closed {
		return 0, errs.ErrClosed
	}
	if f.readOnly {
		return 0, errs.ErrReadOnly
	}
	if off < 0 {
		return 0, fs.ErrInvalid
	}

	f.entry.mu.Lock()
	defer f.entry.mu.Unlock()

	end := off + int64(len(p))
	if end > int64(len(f.entry.data)) {
		grown := make([]byte, end)
		copy(grown, f.entry.data)
		f.entry.data = grown
	}

	return copy(f.entry.data[off:end], p), nil
}

func (f *memFile) Truncate(size int64) error {
	if f.closed {
		return errs.ErrClosed
	}
	if f.readOnly {
		return errs.ErrReadOnly
	}

	f.entry.mu.Lock()
	defer f.entry.mu.Unlock()

	switch {
	case size < int64(len(f.entry.data)):
		f.entry.data = f.entry.data[:size]
	case size > int64(len(f.entry.data)):
		grown := make([]byte, size)
		copy(grown, f.entry.data)
		f.entry.data = grown
	}

	return nil
}

func (f *memFile) Size() (int64, error) {
	if f.closed {
		return 0, errs.ErrClosed
	}

	f.entry.mu.RLock()
	defer f.entry.mu.RUnlock()

	return int64(len(f.entry.data)), nil
}

func (f *memFile) Close() error {
	f.closed = true
	return nil
}
