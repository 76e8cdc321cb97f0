package raster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/gta/endian"
	"github.com/arloliu/gta/format"
)

func allDataTypes() []format.DataType {
	return []format.DataType{
		format.TypeInt8,
		format.TypeUInt8,
		format.TypeInt16,
		format.TypeUInt16,
		format.TypeInt32,
		format.TypeUInt32,
		format.TypeFloat32,
		format.TypeFloat64,
		format.TypeCInt16,
		format.TypeCInt32,
		format.TypeCFloat32,
		format.TypeCFloat64,
	}
}

func TestPixel_RoundTrip(t *testing.T) {
	engine := endian.Native()

	for _, dt := range allDataTypes() {
		t.Run(dt.String(), func(t *testing.T) {
			buf := make([]byte, dt.Size())
			for _, v := range []float64{0, 1, 100, -7} {
				if v < 0 {
					switch dt {
					case format.TypeUInt8, format.TypeUInt16, format.TypeUInt32:
						continue
					}
				}
				encodePixel(buf, dt, v, engine)
				require.Equal(t, v, decodePixel(buf, dt, engine), "value %g", v)
			}
		})
	}
}

func TestPixel_IntegerClampAndRound(t *testing.T) {
	engine := endian.Native()

	tests := []struct {
		name string
		dt   format.DataType
		in   float64
		want float64
	}{
		{name: "int8 clamps high", dt: format.TypeInt8, in: 1000, want: 127},
		{name: "int8 clamps low", dt: format.TypeInt8, in: -1000, want: -128},
		{name: "uint8 clamps negative", dt: format.TypeUInt8, in: -5, want: 0},
		{name: "uint16 clamps high", dt: format.TypeUInt16, in: 1e9, want: 65535},
		{name: "int16 rounds", dt: format.TypeInt16, in: 41.6, want: 42},
		{name: "int32 rounds half up", dt: format.TypeInt32, in: 2.5, want: 3},
		{name: "nan becomes zero", dt: format.TypeInt32, in: math.NaN(), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.dt.Size())
			encodePixel(buf, tt.dt, tt.in, engine)
			require.Equal(t, tt.want, decodePixel(buf, tt.dt, engine))
		})
	}
}

func TestPixel_FloatPassThrough(t *testing.T) {
	engine := endian.Native()

	buf := make([]byte, 8)
	encodePixel(buf, format.TypeFloat64, 1.5, engine)
	require.Equal(t, 1.5, decodePixel(buf, format.TypeFloat64, engine),
		"float types must not round")

	encodePixel(buf[:4], format.TypeFloat32, -0.25, engine)
	require.Equal(t, -0.25, decodePixel(buf[:4], format.TypeFloat32, engine))
}

func TestPixel_ComplexImaginaryIsZero(t *testing.T) {
	engine := endian.Native()

	buf := make([]byte, 16)
	encodePixel(buf, format.TypeCFloat64, 3.5, engine)

	require.Equal(t, 3.5, decodePixel(buf, format.TypeCFloat64, engine))
	require.Zero(t, engine.Uint64(buf[8:]), "imaginary part must be zero")

	encodePixel(buf[:4], format.TypeCInt16, 7, engine)
	require.Equal(t, float64(7), decodePixel(buf[:4], format.TypeCInt16, engine))
	require.Zero(t, engine.Uint16(buf[2:4]))
}

func TestFillPixels(t *testing.T) {
	engine := endian.Native()

	t.Run("fills every slot", func(t *testing.T) {
		buf := make([]byte, 37*2) // odd count to exercise the tail copy
		fillPixels(buf, format.TypeUInt16, 513, engine)

		for i := 0; i < len(buf); i += 2 {
			require.Equal(t, uint16(513), engine.Uint16(buf[i:]), "slot %d", i/2)
		}
	})

	t.Run("buffer shorter than one pixel", func(t *testing.T) {
		buf := make([]byte, 3)
		fillPixels(buf, format.TypeFloat64, 1, engine)
		require.Equal(t, []byte{0, 0, 0}, buf)
	})
}

func TestSwapScalars(t *testing.T) {
	t.Run("uint16", func(t *testing.T) {
		data := []byte{0x01, 0x02, 0x03, 0x04}
		swapScalars(data, format.TypeUInt16)
		require.Equal(t, []byte{0x02, 0x01, 0x04, 0x03}, data)
	})

	t.Run("single byte types are untouched", func(t *testing.T) {
		data := []byte{1, 2, 3}
		swapScalars(data, format.TypeUInt8)
		require.Equal(t, []byte{1, 2, 3}, data)
	})

	t.Run("complex halves swap independently", func(t *testing.T) {
		data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
		swapScalars(data, format.TypeCFloat32)
		require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01, 0x08, 0x07, 0x06, 0x05}, data)
	})

	t.Run("swap is its own inverse", func(t *testing.T) {
		engine := endian.GetBigEndianEngine()
		data := make([]byte, 8)
		engine.PutUint64(data, 0x0102030405060708)

		swapScalars(data, format.TypeFloat64)
		require.Equal(t, uint64(0x0102030405060708), endian.GetLittleEndianEngine().Uint64(data))

		swapScalars(data, format.TypeFloat64)
		require.Equal(t, uint64(0x0102030405060708), engine.Uint64(data))
	})
}
