package raster

import (
	"fmt"
	"strings"

	"github.com/arloliu/gta/container"
	"github.com/arloliu/gta/errs"
	"github.com/arloliu/gta/format"
	"github.com/arloliu/gta/internal/options"
	"github.com/arloliu/gta/vfs"
)

type createCopyConfig struct {
	compression format.Compression
	level       int
}

// CreateCopyOption configures CreateCopy.
type CreateCopyOption = options.Option[*createCopyConfig]

// WithCompress selects the COMPRESS creation option. Accepted values are
// NONE, BZIP2, XZ, ZLIB, and ZLIB1 through ZLIB9; anything else fails
// CreateCopy with errs.ErrUnsupportedCompression before any file is created.
func WithCompress(value string) CreateCopyOption {
	return options.New(func(cfg *createCopyConfig) error {
		compression, level, err := parseCompress(value)
		if err != nil {
			return err
		}
		cfg.compression = compression
		cfg.level = level

		return nil
	})
}

// parseCompress maps a COMPRESS option value onto a container compression
// method and level. The driver surface deliberately accepts a narrower set
// than the container itself supports.
func parseCompress(value string) (format.Compression, int, error) {
	v := strings.ToUpper(strings.TrimSpace(value))

	switch {
	case v == "NONE":
		return format.CompressionNone, 0, nil
	case v == "BZIP2":
		return format.CompressionBzip2, 0, nil
	case v == "XZ":
		return format.CompressionXZ, 0, nil
	case v == "ZLIB":
		return format.CompressionZlib, 0, nil
	case len(v) == 5 && strings.HasPrefix(v, "ZLIB") && v[4] >= '1' && v[4] <= '9':
		return format.CompressionZlib, int(v[4] - '0'), nil
	default:
		return 0, 0, fmt.Errorf("%w: COMPRESS=%s", errs.ErrUnsupportedCompression, value)
	}
}

// CreateCopy creates a new raster container at path holding a copy of src's
// pixels, georeferencing, and per-band metadata, and returns the new
// dataset open in update mode.
//
// The copy is streamed band by band in strip-sized row chunks; nodata
// values pass through verbatim with no resampling or reinterpretation. If
// any step fails, the destination file is removed: a failed CreateCopy
// never leaves behind a path that Open would accept.
func CreateCopy(path string, src Source, opts ...CreateCopyOption) (*Dataset, error) {
	cfg := &createCopyConfig{compression: format.CompressionNone}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	width, height := src.RasterSize()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid source raster size %dx%d", width, height)
	}
	bandCount := src.BandCount()
	if bandCount < 1 {
		return nil, fmt.Errorf("source has no raster bands")
	}

	specs := make([]container.ComponentSpec, bandCount)
	for i := 0; i < bandCount; i++ {
		dtype := src.BandSource(i + 1).DataType()
		if !dtype.Valid() {
			return nil, fmt.Errorf("band %d: unsupported data type %s", i+1, dtype)
		}
		specs[i] = container.ComponentSpec{
			DataType: dtype,
			Dims:     []uint64{uint64(height), uint64(width)},
		}
	}

	fsys := vfs.ForPath(path)
	cont, err := container.Create(fsys, path, specs,
		container.WithCompression(cfg.compression, cfg.level))
	if err != nil {
		return nil, err
	}

	if err := populate(cont, src); err != nil {
		cont.Close()
		fsys.Remove(path)

		return nil, err
	}

	if err := cont.Flush(); err != nil {
		cont.Close()
		fsys.Remove(path)

		return nil, err
	}

	ds, err := newDataset(cont, path)
	if err != nil {
		cont.Close()
		fsys.Remove(path)

		return nil, err
	}

	return ds, nil
}

// populate writes src's georeference, band metadata, and pixels into a
// freshly created container.
func populate(cont *container.Container, src Source) error {
	writeGeoref(cont, src)

	width, height := src.RasterSize()
	for i := 1; i <= src.BandCount(); i++ {
		band := src.BandSource(i)
		writeBandTags(cont, i, band)

		if err := copyPixels(cont, i-1, band, width, height); err != nil {
			return fmt.Errorf("band %d: %w", i, err)
		}
	}

	return nil
}

func writeGeoref(cont *container.Container, src Source) {
	engine := cont.ByteOrder()
	georef := cont.Tags().CreateScope(scopeGeoref)

	if gt, ok := src.GeoTransform(); ok {
		raw := make([]byte, 0, 48)
		for _, v := range gt {
			buf := make([]byte, 8)
			encodePixel(buf, format.TypeFloat64, v, engine)
			raw = append(raw, buf...)
		}
		georef.SetBytes(keyTransform, raw)
	}
	if proj := src.Projection(); proj != "" {
		georef.SetString(keyProjection, proj)
	}

	gcps, gcpProjection := src.GCPs()
	if len(gcps) == 0 {
		return
	}
	gcpScope := georef.CreateScope(scopeGCPs)
	gcpScope.SetInt64(keyGCPCount, int64(len(gcps)))
	gcpScope.SetString(keyProjection, gcpProjection)
	for i, gcp := range gcps {
		sub := gcpScope.CreateScope(indexKey(i))
		sub.SetString(keyGCPID, gcp.ID)
		sub.SetString(keyGCPInfo, gcp.Info)
		sub.SetFloat64(keyGCPPixel, gcp.Pixel)
		sub.SetFloat64(keyGCPLine, gcp.Line)
		sub.SetFloat64(keyGCPX, gcp.X)
		sub.SetFloat64(keyGCPY, gcp.Y)
		sub.SetFloat64(keyGCPZ, gcp.Z)
	}
}

func writeBandTags(cont *container.Container, index int, band BandSource) {
	scope := cont.Tags().CreateScope(bandScopeKey(index))

	if v, ok := band.NoData(); ok {
		scope.SetFloat64(keyNoData, v)
	}
	if v, ok := band.Minimum(); ok {
		scope.SetFloat64(keyMinimum, v)
	}
	if v, ok := band.Maximum(); ok {
		scope.SetFloat64(keyMaximum, v)
	}
	if v, ok := band.Offset(); ok {
		scope.SetFloat64(keyOffset, v)
	}
	if v, ok := band.Scale(); ok {
		scope.SetFloat64(keyScale, v)
	}
	if unit := band.Unit(); unit != "" {
		scope.SetString(keyUnit, unit)
	}
	if desc := band.Description(); desc != "" {
		scope.SetString(keyDescription, desc)
	}
	scope.SetInt64(keyColorInterp, int64(band.ColorInterp()))

	if cats := band.CategoryNames(); cats != nil {
		catScope := scope.CreateScope(scopeCategories)
		for i, name := range cats {
			catScope.SetString(indexKey(i), name)
		}
	}
}

// copyPixels streams one band's pixels into component comp in row chunks
// sized to match the container's strips.
func copyPixels(cont *container.Container, comp int, band BandSource, width, height int) error {
	size := band.DataType().Size()
	rowBytes := width * size

	chunkRows := container.DefaultStripSize / rowBytes
	if chunkRows < 1 {
		chunkRows = 1
	}

	for y := 0; y < height; y += chunkRows {
		rows := chunkRows
		if y+rows > height {
			rows = height - y
		}

		data, err := band.ReadRaster(0, y, width, rows)
		if err != nil {
			return err
		}
		if len(data) != rows*rowBytes {
			return fmt.Errorf("source returned %d bytes for %d rows, want %d", len(data), rows, rows*rowBytes)
		}
		if err := cont.WriteAt(comp, data, int64(y)*int64(rowBytes)); err != nil {
			return err
		}
	}

	return nil
}

// Delete removes the dataset's backing container file. The container format
// uses no sidecar files, so removal is a single filesystem operation;
// failures are reported, never swallowed.
func Delete(path string) error {
	if err := vfs.ForPath(path).Remove(path); err != nil {
		return fmt.Errorf("deleting %s: %w", path, err)
	}

	return nil
}
