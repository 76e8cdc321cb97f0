package raster

import "github.com/arloliu/gta/format"

// GCP is one ground control point: a correspondence between a pixel/line
// position and a georeferenced coordinate, used when no single affine
// transform suffices.
type GCP struct {
	ID    string
	Info  string
	Pixel float64
	Line  float64
	X     float64
	Y     float64
	Z     float64
}

// Source is the narrow view of a raster dataset that CreateCopy consumes.
// It is satisfied by *Dataset and *MemDataset, and by any external dataset
// abstraction that can produce band pixels and georeferencing.
type Source interface {
	// RasterSize returns the raster width and height in pixels.
	RasterSize() (width, height int)

	// BandCount returns the number of bands.
	BandCount() int

	// BandSource returns the 1-based band index's read view. Behavior is
	// undefined outside [1, BandCount()].
	BandSource(index int) BandSource

	// GeoTransform returns the affine pixel-to-map transform. ok is false
	// when the source has no transform set; the returned value is then the
	// identity transform (0, 1, 0, 0, 0, 1).
	GeoTransform() (gt [6]float64, ok bool)

	// Projection returns the spatial reference text (WKT or equivalent),
	// empty when unset.
	Projection() string

	// GCPs returns the ground control points and their projection text.
	GCPs() (gcps []GCP, projection string)
}

// BandSource is the per-band read view consumed by CreateCopy. Optional
// properties return ok=false when unset, which is distinct from a present
// zero value.
type BandSource interface {
	DataType() format.DataType

	// ReadRaster reads the window's pixels row by row into a new buffer of
	// w*h*DataType().Size() bytes.
	ReadRaster(x, y, w, h int) ([]byte, error)

	NoData() (float64, bool)
	Minimum() (float64, bool)
	Maximum() (float64, bool)
	Offset() (float64, bool)
	Scale() (float64, bool)
	Unit() string
	Description() string
	CategoryNames() []string
	ColorInterp() format.ColorInterp
}

// identityTransform is the default affine transform reported when a dataset
// has no georeference.
var identityTransform = [6]float64{0, 1, 0, 0, 0, 1}
