// Package gta reads and writes self-describing tagged-array containers:
// single-file stores holding one or more fixed-shape typed arrays plus a
// nested, ordered tag dictionary.
//
// A container is laid out for update-in-place access. Each array component
// is split into fixed-size strips that are compressed independently, so a
// write touches only the strips it overlaps and never shifts its neighbors.
// The tag dictionary lives at the file tail and is rewritten atomically on
// flush.
//
// # Core Features
//
//   - 12 scalar element types, from int8 through complex float64
//   - Per-component compression (Zlib, Bzip2, XZ, Zstd, LZ4, S2) with
//     per-strip raw fallback for incompressible data
//   - Update-in-place strip writes with read-modify-write for partial strips
//   - Ordered, nested tag dictionary with typed values
//   - xxHash64 checksums on every strip and on the dictionary
//   - Explicit little- or big-endian storage, swapped to native on read
//   - In-memory files via the "/mem/" path prefix
//
// # Basic Usage
//
// Creating a container with one float32 component and writing to it:
//
//	import "github.com/arloliu/gta"
//
//	specs := []gta.ComponentSpec{{DataType: gta.TypeFloat32, Dims: []uint64{512, 512}}}
//	cont, _ := gta.Create("/tmp/demo.gta", specs, gta.WithCompression(gta.CompressionZstd, 0))
//	cont.Tags().SetString("producer", "demo")
//	cont.WriteAt(0, pixels, 0)
//	cont.Close()
//
// Reading it back:
//
//	cont, _ := gta.Open("/tmp/demo.gta", gta.ModeReadOnly)
//	defer cont.Close()
//	buf := make([]byte, 512*512*4)
//	cont.ReadAt(0, buf, 0)
//
// # Raster Adapter
//
// The raster package layers a band-oriented view on top of the container:
// each band is one 2-D component and georeferencing plus band metadata live
// in well-known tag keys. Use raster.Open, raster.CreateCopy, and
// raster.Delete for raster workflows.
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the container
// package. For the raster view use the raster package; for direct tag
// manipulation use tagdict.
package gta

import (
	"github.com/arloliu/gta/container"
	"github.com/arloliu/gta/endian"
	"github.com/arloliu/gta/format"
	"github.com/arloliu/gta/vfs"
)

// Re-exported container types, so common workflows need only this package.
type (
	// Container is an open tagged-array container file.
	Container = container.Container

	// ComponentSpec describes one array component at creation time.
	ComponentSpec = container.ComponentSpec

	// ComponentInfo describes an existing array component.
	ComponentInfo = container.ComponentInfo

	// Mode selects read-only or update access when opening.
	Mode = container.Mode

	// CreateOption configures Create.
	CreateOption = container.CreateOption
)

// Access modes for Open.
const (
	ModeReadOnly = container.ModeReadOnly
	ModeUpdate   = container.ModeUpdate
)

// Element types of array components.
const (
	TypeInt8     = format.TypeInt8
	TypeUInt8    = format.TypeUInt8
	TypeInt16    = format.TypeInt16
	TypeUInt16   = format.TypeUInt16
	TypeInt32    = format.TypeInt32
	TypeUInt32   = format.TypeUInt32
	TypeFloat32  = format.TypeFloat32
	TypeFloat64  = format.TypeFloat64
	TypeCInt16   = format.TypeCInt16
	TypeCInt32   = format.TypeCInt32
	TypeCFloat32 = format.TypeCFloat32
	TypeCFloat64 = format.TypeCFloat64
)

// Compression methods for array components.
const (
	CompressionNone  = format.CompressionNone
	CompressionZlib  = format.CompressionZlib
	CompressionBzip2 = format.CompressionBzip2
	CompressionXZ    = format.CompressionXZ
	CompressionZstd  = format.CompressionZstd
	CompressionLZ4   = format.CompressionLZ4
	CompressionS2    = format.CompressionS2
)

// Create builds a new container at path with the given component shapes.
// Paths under "/mem/" live in process memory; everything else goes to the
// local filesystem. The returned container is writable.
//
// Options:
//   - WithCompression(method, level) selects per-component compression
//   - WithByteOrder(engine) selects the stored byte order
//   - WithStripSize(n) overrides the raw strip size
//
// Example:
//
//	cont, err := gta.Create("/mem/scratch.gta",
//	    []gta.ComponentSpec{{DataType: gta.TypeUInt16, Dims: []uint64{64, 64}}},
//	    gta.WithCompression(gta.CompressionLZ4, 0),
//	)
func Create(path string, specs []ComponentSpec, opts ...CreateOption) (*Container, error) {
	return container.Create(vfs.ForPath(path), path, specs, opts...)
}

// Open opens an existing container at path. ModeUpdate allows strip writes
// and tag changes; ModeReadOnly rejects them with ErrReadOnly.
//
// Open returns ErrNotAContainer when the file does not start with the
// container magic, and ErrCorruptData when the header, component tables, or
// tag dictionary fail validation.
func Open(path string, mode Mode) (*Container, error) {
	return container.Open(vfs.ForPath(path), path, mode)
}

// WithCompression selects the compression method and level applied to every
// component of a new container. Level 0 picks the method's default.
func WithCompression(method format.Compression, level int) CreateOption {
	return container.WithCompression(method, level)
}

// WithByteOrder selects the stored byte order of a new container. The
// default is the host's native order; readers swap on foreign-endian files.
func WithByteOrder(engine endian.EndianEngine) CreateOption {
	return container.WithByteOrder(engine)
}

// WithStripSize overrides the raw strip size of a new container. Larger
// strips compress better; smaller strips make partial writes cheaper.
func WithStripSize(n int) CreateOption {
	return container.WithStripSize(n)
}
