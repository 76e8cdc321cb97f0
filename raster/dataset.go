// Package raster maps the 2-D band-stack raster model onto a gta array
// container: one 2-D component per band, with georeferencing and per-band
// properties stored in the container's tag dictionary under well-known keys.
//
// The package exposes the driver-level operations CreateCopy, Open, and
// Delete, plus per-dataset and per-band property accessors mirroring the
// conventional raster dataset abstraction.
package raster

import (
	"fmt"

	"github.com/arloliu/gta/container"
	"github.com/arloliu/gta/errs"
	"github.com/arloliu/gta/format"
	"github.com/arloliu/gta/vfs"
)

// Mode selects dataset access, aliasing the container's open mode.
type Mode = container.Mode

const (
	ModeReadOnly = container.ModeReadOnly
	ModeUpdate   = container.ModeUpdate
)

// Dataset is an open raster dataset backed by one gta container. It holds a
// transient view over the container's tag dictionary; after Close the
// dataset and its bands must not be used.
type Dataset struct {
	cont   *container.Container
	path   string
	width  int
	height int
	bands  []*Band

	geoTransform    [6]float64
	hasGeoTransform bool
	projection      string
	gcps            []GCP
	gcpProjection   string

	closed bool
}

var _ Source = (*Dataset)(nil)

// Open opens the container at path as a raster dataset. Georeferencing and
// band descriptors are reconstructed from the tag dictionary, falling back
// to the identity transform and empty projection when absent.
func Open(path string, mode Mode) (*Dataset, error) {
	cont, err := container.Open(vfs.ForPath(path), path, mode)
	if err != nil {
		return nil, err
	}

	ds, err := newDataset(cont, path)
	if err != nil {
		cont.Close()
		return nil, err
	}

	return ds, nil
}

// newDataset builds the raster view over an open container.
func newDataset(cont *container.Container, path string) (*Dataset, error) {
	first := cont.Component(0)
	if len(first.Dims) != 2 {
		return nil, fmt.Errorf("%w: component 0 is %d-dimensional, want 2", errs.ErrCorruptData, len(first.Dims))
	}

	ds := &Dataset{
		cont:   cont,
		path:   path,
		height: int(first.Dims[0]),
		width:  int(first.Dims[1]),
	}

	ds.bands = make([]*Band, cont.ComponentCount())
	for i := range ds.bands {
		info := cont.Component(i)
		if len(info.Dims) != 2 || info.Dims[0] != first.Dims[0] || info.Dims[1] != first.Dims[1] {
			return nil, fmt.Errorf("%w: component %d does not match raster extent", errs.ErrCorruptData, i)
		}

		band := &Band{ds: ds, index: i + 1, dataType: info.DataType}
		band.loadTags()
		ds.bands[i] = band
	}

	if err := ds.loadGeoref(); err != nil {
		return nil, err
	}

	return ds, nil
}

func (d *Dataset) loadGeoref() error {
	d.geoTransform = identityTransform

	georef, ok := d.cont.Tags().Scope(scopeGeoref)
	if !ok {
		return nil
	}

	if raw, ok := georef.GetBytes(keyTransform); ok {
		if len(raw) != 48 {
			return fmt.Errorf("%w: geotransform has %d bytes, want 48", errs.ErrCorruptData, len(raw))
		}
		engine := d.cont.ByteOrder()
		for i := range d.geoTransform {
			d.geoTransform[i] = decodePixel(raw[8*i:], format.TypeFloat64, engine)
		}
		d.hasGeoTransform = true
	}
	if proj, ok := georef.GetString(keyProjection); ok {
		d.projection = proj
	}

	gcpScope, ok := georef.Scope(scopeGCPs)
	if !ok {
		return nil
	}
	count, _ := gcpScope.GetInt64(keyGCPCount)
	if proj, ok := gcpScope.GetString(keyProjection); ok {
		d.gcpProjection = proj
	}
	for i := int64(0); i < count; i++ {
		sub, ok := gcpScope.Scope(indexKey(int(i)))
		if !ok {
			return fmt.Errorf("%w: missing GCP record %d of %d", errs.ErrCorruptData, i, count)
		}
		var gcp GCP
		gcp.ID, _ = sub.GetString(keyGCPID)
		gcp.Info, _ = sub.GetString(keyGCPInfo)
		gcp.Pixel, _ = sub.GetFloat64(keyGCPPixel)
		gcp.Line, _ = sub.GetFloat64(keyGCPLine)
		gcp.X, _ = sub.GetFloat64(keyGCPX)
		gcp.Y, _ = sub.GetFloat64(keyGCPY)
		gcp.Z, _ = sub.GetFloat64(keyGCPZ)
		d.gcps = append(d.gcps, gcp)
	}

	return nil
}

// Path returns the dataset's container path.
func (d *Dataset) Path() string { return d.path }

// RasterSize returns the raster width and height in pixels.
func (d *Dataset) RasterSize() (width, height int) {
	return d.width, d.height
}

// BandCount returns the number of bands.
func (d *Dataset) BandCount() int { return len(d.bands) }

// Band returns the 1-based band. Out-of-range indexes fail with
// errs.ErrInvalidBand.
func (d *Dataset) Band(index int) (*Band, error) {
	if index < 1 || index > len(d.bands) {
		return nil, fmt.Errorf("%w: %d of %d", errs.ErrInvalidBand, index, len(d.bands))
	}

	return d.bands[index-1], nil
}

// Bands returns all bands in order.
func (d *Dataset) Bands() []*Band {
	out := make([]*Band, len(d.bands))
	copy(out, d.bands)

	return out
}

// BandSource returns the 1-based band as a read view for CreateCopy.
func (d *Dataset) BandSource(index int) BandSource {
	return d.bands[index-1]
}

// GeoTransform returns the dataset's affine transform. When no transform
// was stored, it returns the identity transform with ok=false.
func (d *Dataset) GeoTransform() (gt [6]float64, ok bool) {
	return d.geoTransform, d.hasGeoTransform
}

// Projection returns the dataset's spatial reference text, empty when unset.
func (d *Dataset) Projection() string { return d.projection }

// GCPs returns the dataset's ground control points and their projection.
func (d *Dataset) GCPs() (gcps []GCP, projection string) {
	out := make([]GCP, len(d.gcps))
	copy(out, d.gcps)

	return out, d.gcpProjection
}

// Flush persists pending metadata and strip tables to the container file.
func (d *Dataset) Flush() error {
	if d.closed {
		return errs.ErrClosed
	}

	return d.cont.Flush()
}

// Close flushes and releases the backing container. Close is idempotent.
func (d *Dataset) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	return d.cont.Close()
}
