package vfs

import "os"

// OSFS implements FS on the host filesystem.
type OSFS struct{}

var _ FS = OSFS{}

type osFile struct {
	*os.File
}

func (f osFile) Size() (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	return info.Size(), nil
}

// Create creates or truncates path and opens it read-write.
func (OSFS) Create(path string) (File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}

	return osFile{f}, nil
}

// Open opens path read-only.
func (OSFS) Open(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return osFile{f}, nil
}

// OpenRW opens an existing path read-write.
func (OSFS) OpenRW(path string) (File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}

	return osFile{f}, nil
}

// Remove deletes path.
func (OSFS) Remove(path string) error {
	return os.Remove(path)
}

// Exists reports whether path exists.
func (OSFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
