package vfs

import (
	"io"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/gta/errs"
)

func TestForPath(t *testing.T) {
	t.Run("mem prefix routes to shared MemFS", func(t *testing.T) {
		a := ForPath("/mem/a.gta")
		b := ForPath("/mem/b.gta")
		require.IsType(t, (*MemFS)(nil), a)
		require.Same(t, a, b, "mem paths must share one filesystem")
	})

	t.Run("other paths route to the OS", func(t *testing.T) {
		require.IsType(t, OSFS{}, ForPath("/tmp/file.gta"))
		require.IsType(t, OSFS{}, ForPath("relative.gta"))
		require.IsType(t, OSFS{}, ForPath("/memx/file.gta"))
	})
}

// fsUnderTest runs the same contract tests against both implementations.
func fsUnderTest(t *testing.T) map[string]struct {
	fsys FS
	path string
} {
	t.Helper()

	return map[string]struct {
		fsys FS
		path string
	}{
		"memfs": {fsys: NewMemFS(), path: "/mem/contract.bin"},
		"osfs":  {fsys: OSFS{}, path: filepath.Join(t.TempDir(), "contract.bin")},
	}
}

func TestFS_Contract(t *testing.T) {
	for name, tc := range fsUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			fsys, path := tc.fsys, tc.path

			t.Run("open missing file", func(t *testing.T) {
				_, err := fsys.Open(path)
				require.ErrorIs(t, err, fs.ErrNotExist)
				require.False(t, fsys.Exists(path))
			})

			t.Run("create write read", func(t *testing.T) {
				f, err := fsys.Create(path)
				require.NoError(t, err)

				n, err := f.WriteAt([]byte("hello world"), 0)
				require.NoError(t, err)
				require.Equal(t, 11, n)

				buf := make([]byte, 5)
				n, err = f.ReadAt(buf, 6)
				require.NoError(t, err)
				require.Equal(t, 5, n)
				require.Equal(t, "world", string(buf))

				size, err := f.Size()
				require.NoError(t, err)
				require.Equal(t, int64(11), size)

				require.NoError(t, f.Close())
				require.True(t, fsys.Exists(path))
			})

			t.Run("sparse write grows file", func(t *testing.T) {
				f, err := fsys.OpenRW(path)
				require.NoError(t, err)
				defer f.Close()

				_, err = f.WriteAt([]byte{0xaa}, 100)
				require.NoError(t, err)

				size, err := f.Size()
				require.NoError(t, err)
				require.Equal(t, int64(101), size)

				// The gap reads as zeros
				buf := make([]byte, 4)
				_, err = f.ReadAt(buf, 50)
				require.NoError(t, err)
				require.Equal(t, []byte{0, 0, 0, 0}, buf)
			})

			t.Run("short read at tail returns EOF", func(t *testing.T) {
				f, err := fsys.Open(path)
				require.NoError(t, err)
				defer f.Close()

				buf := make([]byte, 10)
				n, err := f.ReadAt(buf, 99)
				require.ErrorIs(t, err, io.EOF)
				require.Equal(t, 2, n)
			})

			t.Run("truncate", func(t *testing.T) {
				f, err := fsys.OpenRW(path)
				require.NoError(t, err)
				defer f.Close()

				require.NoError(t, f.Truncate(4))
				size, err := f.Size()
				require.NoError(t, err)
				require.Equal(t, int64(4), size)

				buf := make([]byte, 4)
				_, err = f.ReadAt(buf, 0)
				require.NoError(t, err)
				require.Equal(t, "hell", string(buf))
			})

			t.Run("create truncates existing file", func(t *testing.T) {
				f, err := fsys.Create(path)
				require.NoError(t, err)
				defer f.Close()

				size, err := f.Size()
				require.NoError(t, err)
				require.Zero(t, size)
			})

			t.Run("remove", func(t *testing.T) {
				require.NoError(t, fsys.Remove(path))
				require.False(t, fsys.Exists(path))
				require.ErrorIs(t, fsys.Remove(path), fs.ErrNotExist)
			})

			t.Run("openrw missing file", func(t *testing.T) {
				_, err := fsys.OpenRW(path)
				require.ErrorIs(t, err, fs.ErrNotExist)
			})
		})
	}
}

func TestMemFS_SharedBuffer(t *testing.T) {
	m := NewMemFS()

	w, err := m.Create("/mem/shared")
	require.NoError(t, err)

	_, err = w.WriteAt([]byte("visible"), 0)
	require.NoError(t, err)

	// A handle opened later sees bytes written through the first one
	r, err := m.Open("/mem/shared")
	require.NoError(t, err)

	buf := make([]byte, 7)
	_, err = r.ReadAt(buf, 0)
	require.NoError(t, err)
	require.Equal(t, "visible", string(buf))

	require.NoError(t, w.Close())
	require.NoError(t, r.Close())
}

func TestMemFS_ReadOnlyHandle(t *testing.T) {
	m := NewMemFS()

	w, err := m.Create("/mem/ro")
	require.NoError(t, err)
	_, err = w.WriteAt([]byte("data"), 0)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := m.Open("/mem/ro")
	require.NoError(t, err)

	_, err = r.WriteAt([]byte("nope"), 0)
	require.ErrorIs(t, err, errs.ErrReadOnly)
	require.ErrorIs(t, r.Truncate(0), errs.ErrReadOnly)
	require.NoError(t, r.Close())
}

func TestMemFS_ClosedHandle(t *testing.T) {
	m := NewMemFS()

	f, err := m.Create("/mem/closed")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = f.ReadAt(make([]byte, 1), 0)
	require.ErrorIs(t, err, errs.ErrClosed)
	_, err = f.WriteAt([]byte{1}, 0)
	require.ErrorIs(t, err, errs.ErrClosed)
	_, err = f.Size()
	require.ErrorIs(t, err, errs.ErrClosed)
}
