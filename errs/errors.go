// Package errs defines the sentinel errors shared by all gta packages.
//
// Errors are plain sentinel values so callers can classify failures with
// errors.Is after any amount of fmt.Errorf("%w") context wrapping.
package errs

import "errors"

var (
	// ErrNotAContainer indicates the file's header magic does not match the
	// gta container format. It is distinct from I/O errors so callers can
	// probe file types cheaply.
	ErrNotAContainer = errors.New("not a gta container")

	// ErrCorruptData indicates a structurally invalid dictionary, component
	// table, or compressed stream.
	ErrCorruptData = errors.New("corrupt container data")

	// ErrUnsupportedCompression indicates an unknown compression algorithm
	// name or an out-of-range compression level.
	ErrUnsupportedCompression = errors.New("unsupported compression")

	// ErrFixedShapeViolation indicates a write that would grow a component
	// beyond the extent fixed at creation time.
	ErrFixedShapeViolation = errors.New("component shape is fixed at creation")

	// ErrReadOnly indicates a mutation attempt on a read-only handle.
	ErrReadOnly = errors.New("handle is read-only")

	// ErrClosed indicates an operation on a closed handle.
	ErrClosed = errors.New("handle is closed")

	// ErrInvalidBand indicates an out-of-range band index.
	ErrInvalidBand = errors.New("invalid band index")

	// ErrInvalidWindow indicates a raster window that falls outside the
	// band's extent or has a non-positive size.
	ErrInvalidWindow = errors.New("invalid raster window")
)
