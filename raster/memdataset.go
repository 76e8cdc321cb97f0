package raster

import (
	"fmt"
	"math"

	"github.com/arloliu/gta/endian"
	"github.com/arloliu/gta/errs"
	"github.com/arloliu/gta/format"
)

// MemDataset is an in-memory raster that satisfies Source, so it can seed
// CreateCopy without touching a file. All bands share one width and height
// and pixels live in native byte order.
type MemDataset struct {
	width  int
	height int
	bands  []*MemBand

	transform    [6]float64
	hasTransform bool
	projection   string
	gcps         []GCP
	gcpProj      string
}

var _ Source = (*MemDataset)(nil)

// NewMemDataset allocates a width x height raster with the given band types.
// Pixels start zero-filled.
func NewMemDataset(width, height int, types ...format.DataType) (*MemDataset, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: raster size %dx%d", errs.ErrInvalidWindow, width, height)
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("%w: dataset needs at least one band", errs.ErrInvalidBand)
	}

	ds := &MemDataset{width: width, height: height}
	for i, dt := range types {
		if !dt.Valid() {
			return nil, fmt.Errorf("band %d: invalid data type %d", i+1, dt)
		}
		ds.bands = append(ds.bands, &MemBand{
			ds:       ds,
			index:    i + 1,
			dataType: dt,
			data:     make([]byte, width*height*dt.Size()),
			colorInt: format.CIUndefined,
		})
	}

	return ds, nil
}

// RasterSize returns the raster width and height in pixels.
func (d *MemDataset) RasterSize() (width, height int) { return d.width, d.height }

// BandCount returns the number of bands.
func (d *MemDataset) BandCount() int { return len(d.bands) }

// Band returns the 1-based band. It returns ErrInvalidBand for an index
// outside [1, BandCount()].
func (d *MemDataset) Band(index int) (*MemBand, error) {
	if index < 1 || index > len(d.bands) {
		return nil, fmt.Errorf("%w: band %d of %d", errs.ErrInvalidBand, index, len(d.bands))
	}

	return d.bands[index-1], nil
}

// BandSource returns the 1-based band's read view for CreateCopy.
func (d *MemDataset) BandSource(index int) BandSource { return d.bands[index-1] }

// GeoTransform returns the affine transform; ok is false when unset.
func (d *MemDataset) GeoTransform() (gt [6]float64, ok bool) {
	if !d.hasTransform {
		return identityTransform, false
	}

	return d.transform, true
}

// SetGeoTransform sets the affine pixel-to-map transform.
func (d *MemDataset) SetGeoTransform(gt [6]float64) {
	d.transform = gt
	d.hasTransform = true
}

// Projection returns the spatial reference text, empty when unset.
func (d *MemDataset) Projection() string { return d.projection }

// SetProjection sets the spatial reference text.
func (d *MemDataset) SetProjection(p string) { d.projection = p }

// GCPs returns the ground control points and their projection text.
func (d *MemDataset) GCPs() (gcps []GCP, projection string) {
	if len(d.gcps) == 0 {
		return nil, d.gcpProj
	}
	out := make([]GCP, len(d.gcps))
	copy(out, d.gcps)

	return out, d.gcpProj
}

// SetGCPs replaces the dataset's ground control points.
func (d *MemDataset) SetGCPs(gcps []GCP, projection string) {
	d.gcps = make([]GCP, len(gcps))
	copy(d.gcps, gcps)
	d.gcpProj = projection
}

// MemBand is one band of a MemDataset. Pixels are row-major, top row first,
// in native byte order.
type MemBand struct {
	ds       *MemDataset
	index    int
	dataType format.DataType
	data     []byte

	nodata     *float64
	minimum    *float64
	maximum    *float64
	offset     *float64
	scale      *float64
	unit       string
	desc       string
	categories []string
	colorInt   format.ColorInterp
}

var _ BandSource = (*MemBand)(nil)

// Index returns the band's 1-based index.
func (b *MemBand) Index() int { return b.index }

// DataType returns the band's pixel type.
func (b *MemBand) DataType() format.DataType { return b.dataType }

func (b *MemBand) checkWindow(x, y, w, h int) error {
	if w <= 0 || h <= 0 || x < 0 || y < 0 || x+w > b.ds.width || y+h > b.ds.height {
		return fmt.Errorf("%w: [%d,%d %dx%d] in %dx%d raster",
			errs.ErrInvalidWindow, x, y, w, h, b.ds.width, b.ds.height)
	}

	return nil
}

// ReadRaster reads the window's pixels row by row into a new buffer.
func (b *MemBand) ReadRaster(x, y, w, h int) ([]byte, error) {
	if err := b.checkWindow(x, y, w, h); err != nil {
		return nil, err
	}

	size := b.dataType.Size()
	rowBytes := b.ds.width * size
	out := make([]byte, w*h*size)
	for r := 0; r < h; r++ {
		src := (y+r)*rowBytes + x*size
		copy(out[r*w*size:(r+1)*w*size], b.data[src:src+w*size])
	}

	return out, nil
}

// WriteRaster writes the window's pixels row by row from data, which must be
// exactly w*h*DataType().Size() bytes.
func (b *MemBand) WriteRaster(x, y, w, h int, data []byte) error {
	if err := b.checkWindow(x, y, w, h); err != nil {
		return err
	}

	size := b.dataType.Size()
	if len(data) != w*h*size {
		return fmt.Errorf("%w: got %d bytes, want %d", errs.ErrInvalidWindow, len(data), w*h*size)
	}

	rowBytes := b.ds.width * size
	for r := 0; r < h; r++ {
		dst := (y+r)*rowBytes + x*size
		copy(b.data[dst:dst+w*size], data[r*w*size:(r+1)*w*size])
	}

	return nil
}

// Fill overwrites every pixel of the band with value. Integer types clamp
// and round; complex types take value as the real part.
func (b *MemBand) Fill(value float64) error {
	fillPixels(b.data, b.dataType, value, endian.Native())

	return nil
}

// NoData returns the band's nodata value; ok is false when unset.
func (b *MemBand) NoData() (float64, bool) { return deref(b.nodata) }

// SetNoData sets the band's nodata value.
func (b *MemBand) SetNoData(v float64) { b.nodata = &v }

// Minimum returns the band's cached minimum; ok is false when unset.
func (b *MemBand) Minimum() (float64, bool) { return deref(b.minimum) }

// Maximum returns the band's cached maximum; ok is false when unset.
func (b *MemBand) Maximum() (float64, bool) { return deref(b.maximum) }

// Offset returns the band's value offset; ok is false when unset.
func (b *MemBand) Offset() (float64, bool) { return deref(b.offset) }

// SetOffset sets the band's value offset.
func (b *MemBand) SetOffset(v float64) { b.offset = &v }

// Scale returns the band's value scale; ok is false when unset.
func (b *MemBand) Scale() (float64, bool) { return deref(b.scale) }

// SetScale sets the band's value scale.
func (b *MemBand) SetScale(v float64) { b.scale = &v }

// Unit returns the band's unit string, empty when unset.
func (b *MemBand) Unit() string { return b.unit }

// SetUnit sets the band's unit string.
func (b *MemBand) SetUnit(u string) { b.unit = u }

// Description returns the band's description, empty when unset.
func (b *MemBand) Description() string { return b.desc }

// SetDescription sets the band's description.
func (b *MemBand) SetDescription(d string) { b.desc = d }

// CategoryNames returns the band's ordered category names, nil when unset.
func (b *MemBand) CategoryNames() []string {
	if b.categories == nil {
		return nil
	}
	out := make([]string, len(b.categories))
	copy(out, b.categories)

	return out
}

// SetCategoryNames replaces the band's category names.
func (b *MemBand) SetCategoryNames(names []string) {
	b.categories = make([]string, len(names))
	copy(b.categories, names)
}

// ColorInterp returns the band's color interpretation.
func (b *MemBand) ColorInterp() format.ColorInterp { return b.colorInt }

// SetColorInterp sets the band's color interpretation.
func (b *MemBand) SetColorInterp(ci format.ColorInterp) { b.colorInt = ci }

// ComputeStatistics scans the band and caches its minimum and maximum.
// Complex types are measured by their real part.
func (b *MemBand) ComputeStatistics() (minVal, maxVal float64) {
	size := b.dataType.Size()
	engine := endian.Native()

	minVal = math.Inf(1)
	maxVal = math.Inf(-1)
	for i := 0; i+size <= len(b.data); i += size {
		v := decodePixel(b.data[i:], b.dataType, engine)
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	b.minimum = &minVal
	b.maximum = &maxVal

	return minVal, maxVal
}
