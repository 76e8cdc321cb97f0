package raster

import (
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/arloliu/gta/endian"
	"github.com/arloliu/gta/errs"
	"github.com/arloliu/gta/format"
	"github.com/arloliu/gta/internal/pool"
)

// Band is one raster band, backed by one container component. Pixel data is
// row-major, top row first, in the container's byte order.
type Band struct {
	ds       *Dataset
	index    int // 1-based
	dataType format.DataType

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

var _ BandSource = (*Band)(nil)

// loadTags populates the band descriptor from its tag dictionary sub-scope.
// A missing scope or missing keys leave the corresponding properties unset.
func (b *Band) loadTags() {
	scope, ok := b.ds.cont.Tags().Scope(bandScopeKey(b.index))
	if !ok {
		return
	}

	getF := func(key string) *float64 {
		if v, ok := scope.GetFloat64(key); ok {
			return &v
		}
		return nil
	}

	b.nodata = getF(keyNoData)
	b.minimum = getF(keyMinimum)
	b.maximum = getF(keyMaximum)
	b.offset = getF(keyOffset)
	b.scale = getF(keyScale)
	b.unit, _ = scope.GetString(keyUnit)
	b.desc, _ = scope.GetString(keyDescription)
	if ci, ok := scope.GetInt64(keyColorInterp); ok && format.ColorInterp(ci).Valid() {
		b.colorInt = format.ColorInterp(ci)
	}
	if cats, ok := scope.Scope(scopeCategories); ok {
		b.categories = make([]string, 0, cats.Len())
		for i := 0; i < cats.Len(); i++ {
			name, _ := cats.GetString(indexKey(i))
			b.categories = append(b.categories, name)
		}
	}
}

// Index returns the band's 1-based index.
func (b *Band) Index() int { return b.index }

// DataType returns the band's pixel type.
func (b *Band) DataType() format.DataType { return b.dataType }

// NoData returns the band's nodata value; ok is false when unset.
func (b *Band) NoData() (float64, bool) { return deref(b.nodata) }

// Minimum returns the band's cached minimum; ok is false when no statistics
// were stored or computed.
func (b *Band) Minimum() (float64, bool) { return deref(b.minimum) }

// Maximum returns the band's cached maximum; ok is false when no statistics
// were stored or computed.
func (b *Band) Maximum() (float64, bool) { return deref(b.maximum) }

// Offset returns the band's value offset; ok is false when unset.
func (b *Band) Offset() (float64, bool) { return deref(b.offset) }

// Scale returns the band's value scale; ok is false when unset.
func (b *Band) Scale() (float64, bool) { return deref(b.scale) }

// Unit returns the band's unit string, empty when unset.
func (b *Band) Unit() string { return b.unit }

// Description returns the band's free-text description, empty when unset.
func (b *Band) Description() string { return b.desc }

// CategoryNames returns the band's ordered category names, nil when unset.
func (b *Band) CategoryNames() []string {
	if b.categories == nil {
		return nil
	}
	out := make([]string, len(b.categories))
	copy(out, b.categories)

	return out
}

// ColorInterp returns the band's color interpretation.
func (b *Band) ColorInterp() format.ColorInterp { return b.colorInt }

func (b *Band) checkWindow(x, y, w, h int) error {
	if w <= 0 || h <= 0 || x < 0 || y < 0 || x+w > b.ds.width || y+h > b.ds.height {
		return fmt.Errorf("%w: [%d,%d %dx%d] in %dx%d raster",
			errs.ErrInvalidWindow, x, y, w, h, b.ds.width, b.ds.height)
	}

	return nil
}

// ReadRaster reads the window's pixels row by row into a new buffer in the
// host's native byte order, swapping if the container was written on a
// foreign-endian host.
func (b *Band) ReadRaster(x, y, w, h int) ([]byte, error) {
	if b.ds.closed {
		return nil, errs.ErrClosed
	}
	if err := b.checkWindow(x, y, w, h); err != nil {
		return nil, err
	}

	size := b.dataType.Size()
	comp := b.index - 1
	out := make([]byte, w*h*size)

	if x == 0 && w == b.ds.width {
		// Full-width windows are contiguous in the component.
		err := b.ds.cont.ReadAt(comp, out, int64(y)*int64(w)*int64(size))
		if err != nil {
			return nil, fmt.Errorf("band %d: %w", b.index, err)
		}
	} else {
		rowBytes := w * size
		for r := 0; r < h; r++ {
			off := (int64(y+r)*int64(b.ds.width) + int64(x)) * int64(size)
			if err := b.ds.cont.ReadAt(comp, out[r*rowBytes:(r+1)*rowBytes], off); err != nil {
				return nil, fmt.Errorf("band %d: %w", b.index, err)
			}
		}
	}

	if b.ds.cont.ByteOrder() != endian.Native() {
		swapScalars(out, b.dataType)
	}

	return out, nil
}

// WriteRaster overwrites the window's pixels from data, which must hold
// exactly w*h pixels in the band's type and the host's native byte order;
// pixels are swapped into the container's stored order as needed.
// Only the strips covering the window are rewritten; all other pixel data
// and all stored metadata remain untouched.
func (b *Band) WriteRaster(x, y, w, h int, data []byte) error {
	if b.ds.closed {
		return errs.ErrClosed
	}
	if err := b.checkWindow(x, y, w, h); err != nil {
		return err
	}

	size := b.dataType.Size()
	if len(data) != w*h*size {
		return fmt.Errorf("%w: got %d bytes, want %d", errs.ErrInvalidWindow, len(data), w*h*size)
	}

	if b.ds.cont.ByteOrder() != endian.Native() {
		swapped := make([]byte, len(data))
		copy(swapped, data)
		swapScalars(swapped, b.dataType)
		data = swapped
	}

	comp := b.index - 1
	if x == 0 && w == b.ds.width {
		if err := b.ds.cont.WriteAt(comp, data, int64(y)*int64(w)*int64(size)); err != nil {
			return fmt.Errorf("band %d: %w", b.index, err)
		}

		return nil
	}

	rowBytes := w * size
	for r := 0; r < h; r++ {
		off := (int64(y+r)*int64(b.ds.width) + int64(x)) * int64(size)
		if err := b.ds.cont.WriteAt(comp, data[r*rowBytes:(r+1)*rowBytes], off); err != nil {
			return fmt.Errorf("band %d: %w", b.index, err)
		}
	}

	return nil
}

// Fill overwrites every pixel of the band with value. Integer types clamp
// and round; complex types take value as the real part. Previously computed
// statistics are not invalidated; callers who need fresh min/max must call
// ComputeStatistics again.
func (b *Band) Fill(value float64) error {
	if b.ds.closed {
		return errs.ErrClosed
	}

	size := b.dataType.Size()
	engine := b.ds.cont.ByteOrder()
	total := int64(b.ds.width) * int64(b.ds.height) * int64(size)

	buf := pool.GetStripBuffer()
	defer pool.PutStripBuffer(buf)
	chunk := pool.StripBufferDefaultSize / size * size
	if int64(chunk) > total {
		chunk = int(total)
	}
	buf.Grow(chunk)
	fillPixels(buf.Bytes(), b.dataType, value, engine)

	comp := b.index - 1
	for off := int64(0); off < total; off += int64(chunk) {
		n := int64(chunk)
		if off+n > total {
			n = total - off
		}
		if err := b.ds.cont.WriteAt(comp, buf.Bytes()[:n], off); err != nil {
			return fmt.Errorf("band %d: %w", b.index, err)
		}
	}

	return nil
}

// Checksum returns a deterministic hash of the band's raw pixel data, for
// cheap equality checks across copies of a raster.
func (b *Band) Checksum() (uint64, error) {
	size := b.dataType.Size()
	rowBytes := b.ds.width * size

	digest := xxhash.New()
	for y := 0; y < b.ds.height; y++ {
		row, err := b.ReadRaster(0, y, b.ds.width, 1)
		if err != nil {
			return 0, err
		}
		digest.Write(row[:rowBytes])
	}

	return digest.Sum64(), nil
}

// ComputeStatistics scans the band and caches its minimum and maximum.
// Complex types are measured by their real part. On a writable dataset the
// result is also persisted to the band's tag scope.
func (b *Band) ComputeStatistics() (minVal, maxVal float64, err error) {
	size := b.dataType.Size()
	engine := endian.Native()

	minVal = math.Inf(1)
	maxVal = math.Inf(-1)

	for y := 0; y < b.ds.height; y++ {
		row, err := b.ReadRaster(0, y, b.ds.width, 1)
		if err != nil {
			return 0, 0, err
		}
		for i := 0; i+size <= len(row); i += size {
			v := decodePixel(row[i:], b.dataType, engine)
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}

	b.minimum = &minVal
	b.maximum = &maxVal

	if b.ds.cont.Writable() {
		scope := b.ds.cont.Tags().CreateScope(bandScopeKey(b.index))
		scope.SetFloat64(keyMinimum, minVal)
		scope.SetFloat64(keyMaximum, maxVal)
	}

	return minVal, maxVal, nil
}

func deref(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}

	return *p, true
}
