package raster

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/gta/container"
	"github.com/arloliu/gta/endian"
	"github.com/arloliu/gta/errs"
	"github.com/arloliu/gta/format"
	"github.com/arloliu/gta/vfs"
)

// newTestDataset copies a fresh in-memory source to path and returns the
// dataset open in update mode.
func newTestDataset(t *testing.T, path string, types ...format.DataType) *Dataset {
	t.Helper()

	src := newMemSource(t, types...)
	ds, err := CreateCopy(path, src)
	require.NoError(t, err)
	t.Cleanup(func() {
		ds.Close()
		Delete(path)
	})

	return ds
}

func TestBand_Checksum(t *testing.T) {
	t.Run("identical pixels hash identically", func(t *testing.T) {
		a := newTestDataset(t, "/mem/cksum_a.gta", format.TypeUInt16)
		b := newTestDataset(t, "/mem/cksum_b.gta", format.TypeUInt16)

		bandA, err := a.Band(1)
		require.NoError(t, err)
		bandB, err := b.Band(1)
		require.NoError(t, err)

		sumA, err := bandA.Checksum()
		require.NoError(t, err)
		sumB, err := bandB.Checksum()
		require.NoError(t, err)
		require.Equal(t, sumA, sumB)
	})

	t.Run("pixel change alters the checksum", func(t *testing.T) {
		ds := newTestDataset(t, "/mem/cksum_c.gta", format.TypeUInt16)
		band, err := ds.Band(1)
		require.NoError(t, err)

		before, err := band.Checksum()
		require.NoError(t, err)

		pixel := make([]byte, 2)
		encodePixel(pixel, format.TypeUInt16, 999, endian.Native())
		require.NoError(t, band.WriteRaster(5, 5, 1, 1, pixel))

		after, err := band.Checksum()
		require.NoError(t, err)
		require.NotEqual(t, before, after)
	})
}

func TestBand_Fill(t *testing.T) {
	ds := newTestDataset(t, "/mem/fill.gta", format.TypeInt32)
	band, err := ds.Band(1)
	require.NoError(t, err)

	t.Run("fill zero", func(t *testing.T) {
		require.NoError(t, band.Fill(0))

		data, err := band.ReadRaster(0, 0, testWidth, testHeight)
		require.NoError(t, err)
		require.Equal(t, make([]byte, len(data)), data)
	})

	t.Run("fill value reads back everywhere", func(t *testing.T) {
		require.NoError(t, band.Fill(-77))

		data, err := band.ReadRaster(0, 0, testWidth, testHeight)
		require.NoError(t, err)
		engine := endian.Native()
		for i := 0; i < len(data); i += 4 {
			require.Equal(t, float64(-77), decodePixel(data[i:], format.TypeInt32, engine))
		}
	})

	t.Run("fill clamps for integer bands", func(t *testing.T) {
		ds := newTestDataset(t, "/mem/fillclamp.gta", format.TypeUInt8)
		band, err := ds.Band(1)
		require.NoError(t, err)

		require.NoError(t, band.Fill(300))

		data, err := band.ReadRaster(0, 0, 4, 1)
		require.NoError(t, err)
		require.Equal(t, []byte{255, 255, 255, 255}, data)
	})
}

func TestBand_WindowedReadWrite(t *testing.T) {
	const path = "/mem/window.gta"
	ds := newTestDataset(t, path, format.TypeUInt8)
	band, err := ds.Band(1)
	require.NoError(t, err)

	require.NoError(t, band.Fill(0))

	// Write a 4x3 patch at (10, 7)
	patch := []byte{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
	}
	require.NoError(t, band.WriteRaster(10, 7, 4, 3, patch))

	t.Run("window reads back", func(t *testing.T) {
		got, err := band.ReadRaster(10, 7, 4, 3)
		require.NoError(t, err)
		require.Equal(t, patch, got)
	})

	t.Run("surroundings untouched", func(t *testing.T) {
		row, err := band.ReadRaster(0, 7, testWidth, 1)
		require.NoError(t, err)
		for x, b := range row {
			if x >= 10 && x < 14 {
				require.Equal(t, byte(x-10+1), b, "column %d", x)
			} else {
				require.Zero(t, b, "column %d", x)
			}
		}
	})

	t.Run("offset window view", func(t *testing.T) {
		got, err := band.ReadRaster(11, 8, 2, 2)
		require.NoError(t, err)
		require.Equal(t, []byte{6, 7, 10, 11}, got)
	})

	t.Run("writes persist through reopen", func(t *testing.T) {
		require.NoError(t, ds.Flush())

		reopened, err := Open(path, ModeReadOnly)
		require.NoError(t, err)
		defer reopened.Close()

		band, err := reopened.Band(1)
		require.NoError(t, err)
		got, err := band.ReadRaster(10, 7, 4, 3)
		require.NoError(t, err)
		require.Equal(t, patch, got)
	})
}

func TestBand_PixelUpdateKeepsGeoref(t *testing.T) {
	src := newMemSource(t, format.TypeUInt8)
	src.SetGeoTransform([6]float64{100, 2, 0, 200, 0, -2})
	src.SetProjection("EPSG:4326")

	const path = "/mem/keepgeoref.gta"
	ds, err := CreateCopy(path, src)
	require.NoError(t, err)
	require.NoError(t, ds.Close())
	defer Delete(path)

	updatable, err := Open(path, ModeUpdate)
	require.NoError(t, err)
	band, err := updatable.Band(1)
	require.NoError(t, err)
	require.NoError(t, band.Fill(42))
	require.NoError(t, updatable.Close())

	reopened, err := Open(path, ModeReadOnly)
	require.NoError(t, err)
	defer reopened.Close()

	gt, ok := reopened.GeoTransform()
	require.True(t, ok)
	require.Equal(t, [6]float64{100, 2, 0, 200, 0, -2}, gt)
	require.Equal(t, "EPSG:4326", reopened.Projection())

	band, err = reopened.Band(1)
	require.NoError(t, err)
	got, err := band.ReadRaster(0, 0, 4, 1)
	require.NoError(t, err)
	require.Equal(t, []byte{42, 42, 42, 42}, got)
}

func TestBand_WindowValidation(t *testing.T) {
	ds := newTestDataset(t, "/mem/winval.gta", format.TypeUInt8)
	band, err := ds.Band(1)
	require.NoError(t, err)

	tests := []struct {
		name       string
		x, y, w, h int
	}{
		{name: "negative x", x: -1, y: 0, w: 4, h: 4},
		{name: "negative y", x: 0, y: -1, w: 4, h: 4},
		{name: "zero width", x: 0, y: 0, w: 0, h: 4},
		{name: "zero height", x: 0, y: 0, w: 4, h: 0},
		{name: "past right edge", x: testWidth - 2, y: 0, w: 4, h: 1},
		{name: "past bottom edge", x: 0, y: testHeight - 2, w: 1, h: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := band.ReadRaster(tt.x, tt.y, tt.w, tt.h)
			require.ErrorIs(t, err, errs.ErrInvalidWindow)

			err = band.WriteRaster(tt.x, tt.y, tt.w, tt.h, make([]byte, 16))
			require.ErrorIs(t, err, errs.ErrInvalidWindow)
		})
	}

	t.Run("buffer size mismatch", func(t *testing.T) {
		err := band.WriteRaster(0, 0, 4, 4, make([]byte, 15))
		require.ErrorIs(t, err, errs.ErrInvalidWindow)
	})
}

func TestBand_ComputeStatistics(t *testing.T) {
	const path = "/mem/stats.gta"
	ds := newTestDataset(t, path, format.TypeInt16)
	band, err := ds.Band(1)
	require.NoError(t, err)

	require.NoError(t, band.Fill(5))

	pixel := make([]byte, 2)
	encodePixel(pixel, format.TypeInt16, -40, endian.Native())
	require.NoError(t, band.WriteRaster(3, 3, 1, 1, pixel))
	encodePixel(pixel, format.TypeInt16, 9000, endian.Native())
	require.NoError(t, band.WriteRaster(20, 20, 1, 1, pixel))

	minVal, maxVal, err := band.ComputeStatistics()
	require.NoError(t, err)
	require.Equal(t, float64(-40), minVal)
	require.Equal(t, float64(9000), maxVal)

	t.Run("results are cached on the band", func(t *testing.T) {
		cachedMin, ok := band.Minimum()
		require.True(t, ok)
		require.Equal(t, float64(-40), cachedMin)

		cachedMax, ok := band.Maximum()
		require.True(t, ok)
		require.Equal(t, float64(9000), cachedMax)
	})

	t.Run("statistics persist to the file", func(t *testing.T) {
		require.NoError(t, ds.Flush())

		reopened, err := Open(path, ModeReadOnly)
		require.NoError(t, err)
		defer reopened.Close()

		band, err := reopened.Band(1)
		require.NoError(t, err)

		minVal, ok := band.Minimum()
		require.True(t, ok)
		require.Equal(t, float64(-40), minVal)
	})

	t.Run("pixel writes do not invalidate cached statistics", func(t *testing.T) {
		require.NoError(t, band.Fill(1))

		staleMin, ok := band.Minimum()
		require.True(t, ok)
		require.Equal(t, float64(-40), staleMin, "statistics refresh only on ComputeStatistics")

		minVal, _, err := band.ComputeStatistics()
		require.NoError(t, err)
		require.Equal(t, float64(1), minVal)
	})
}

func TestBand_ComplexStatisticsUseRealPart(t *testing.T) {
	ds := newTestDataset(t, "/mem/cstats.gta", format.TypeCFloat32)
	band, err := ds.Band(1)
	require.NoError(t, err)

	require.NoError(t, band.Fill(2.5))

	minVal, maxVal, err := band.ComputeStatistics()
	require.NoError(t, err)
	require.Equal(t, 2.5, minVal)
	require.Equal(t, 2.5, maxVal)
}

func TestDataset_BandAccess(t *testing.T) {
	ds := newTestDataset(t, "/mem/bands.gta", format.TypeUInt8, format.TypeFloat64)

	t.Run("valid indexes", func(t *testing.T) {
		for i := 1; i <= 2; i++ {
			band, err := ds.Band(i)
			require.NoError(t, err)
			require.Equal(t, i, band.Index())
		}

		bands := ds.Bands()
		require.Len(t, bands, 2)
		require.Equal(t, format.TypeUInt8, bands[0].DataType())
		require.Equal(t, format.TypeFloat64, bands[1].DataType())
	})

	t.Run("out of range indexes", func(t *testing.T) {
		for _, i := range []int{0, -1, 3} {
			_, err := ds.Band(i)
			require.ErrorIs(t, err, errs.ErrInvalidBand, "index %d", i)
		}
	})
}

func TestDataset_ReadOnly(t *testing.T) {
	const path = "/mem/rods.gta"
	src := newMemSource(t, format.TypeUInt8)

	ds, err := CreateCopy(path, src)
	require.NoError(t, err)
	require.NoError(t, ds.Close())
	defer Delete(path)

	reopened, err := Open(path, ModeReadOnly)
	require.NoError(t, err)
	defer reopened.Close()

	band, err := reopened.Band(1)
	require.NoError(t, err)

	require.ErrorIs(t, band.WriteRaster(0, 0, 1, 1, []byte{1}), errs.ErrReadOnly)
	require.ErrorIs(t, band.Fill(1), errs.ErrReadOnly)

	// Reading still works
	_, err = band.ReadRaster(0, 0, testWidth, testHeight)
	require.NoError(t, err)
}

func TestDataset_Closed(t *testing.T) {
	ds := newTestDataset(t, "/mem/closedds.gta", format.TypeUInt8)
	band, err := ds.Band(1)
	require.NoError(t, err)

	require.NoError(t, ds.Close())
	require.NoError(t, ds.Close(), "close must be idempotent")

	_, err = band.ReadRaster(0, 0, 1, 1)
	require.ErrorIs(t, err, errs.ErrClosed)
	require.ErrorIs(t, band.WriteRaster(0, 0, 1, 1, []byte{1}), errs.ErrClosed)
	require.ErrorIs(t, ds.Flush(), errs.ErrClosed)
}

func TestBand_ForeignByteOrder(t *testing.T) {
	const path = "/mem/foreign_order.gta"

	foreign := endian.GetBigEndianEngine()
	if endian.Native() == foreign {
		foreign = endian.GetLittleEndianEngine()
	}

	cont, err := container.Create(vfs.ForPath(path), path,
		[]container.ComponentSpec{{DataType: format.TypeUInt16, Dims: []uint64{4, 4}}},
		container.WithByteOrder(foreign),
	)
	require.NoError(t, err)
	require.NoError(t, cont.Close())
	t.Cleanup(func() { Delete(path) })

	// Pixel values encoded in host-native order, as the band API expects.
	native := endian.Native()
	data := make([]byte, 16*2)
	for i := 0; i < 16; i++ {
		native.PutUint16(data[i*2:], uint16(i*300+7))
	}

	ds, err := Open(path, ModeUpdate)
	require.NoError(t, err)
	band, err := ds.Band(1)
	require.NoError(t, err)
	require.NoError(t, band.WriteRaster(0, 0, 4, 4, data))

	got, err := band.ReadRaster(0, 0, 4, 4)
	require.NoError(t, err)
	require.Equal(t, data, got, "reads must return native-order bytes")

	require.NoError(t, ds.Close())

	// The container itself stores pixels in its declared byte order.
	reopened, err := container.Open(vfs.ForPath(path), path, container.ModeReadOnly)
	require.NoError(t, err)
	defer reopened.Close()

	raw := make([]byte, len(data))
	require.NoError(t, reopened.ReadAt(0, raw, 0))
	for i := 0; i < 16; i++ {
		require.Equal(t, uint16(i*300+7), foreign.Uint16(raw[i*2:2*i+2]), "pixel %d", i)
	}
}
