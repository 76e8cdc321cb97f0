package raster

import (
	"math"

	"github.com/arloliu/gta/endian"
	"github.com/arloliu/gta/format"
)

// encodePixel writes one pixel of type t holding value v into dst using the
// given byte order. Integer types clamp and round; complex types take v as
// the real part with a zero imaginary part.
func encodePixel(dst []byte, t format.DataType, v float64, engine endian.EndianEngine) {
	switch t {
	case format.TypeInt8:
		dst[0] = byte(int8(clamp(v, math.MinInt8, math.MaxInt8)))
	case format.TypeUInt8:
		dst[0] = byte(uint8(clamp(v, 0, math.MaxUint8)))
	case format.TypeInt16:
		engine.PutUint16(dst, uint16(int16(clamp(v, math.MinInt16, math.MaxInt16))))
	case format.TypeUInt16:
		engine.PutUint16(dst, uint16(clamp(v, 0, math.MaxUint16)))
	case format.TypeInt32:
		engine.PutUint32(dst, uint32(int32(clamp(v, math.MinInt32, math.MaxInt32))))
	case format.TypeUInt32:
		engine.PutUint32(dst, uint32(clamp(v, 0, math.MaxUint32)))
	case format.TypeFloat32:
		engine.PutUint32(dst, math.Float32bits(float32(v)))
	case format.TypeFloat64:
		engine.PutUint64(dst, math.Float64bits(v))
	case format.TypeCInt16:
		engine.PutUint16(dst, uint16(int16(clamp(v, math.MinInt16, math.MaxInt16))))
		engine.PutUint16(dst[2:], 0)
	case format.TypeCInt32:
		engine.PutUint32(dst, uint32(int32(clamp(v, math.MinInt32, math.MaxInt32))))
		engine.PutUint32(dst[4:], 0)
	case format.TypeCFloat32:
		engine.PutUint32(dst, math.Float32bits(float32(v)))
		engine.PutUint32(dst[4:], 0)
	case format.TypeCFloat64:
		engine.PutUint64(dst, math.Float64bits(v))
		engine.PutUint64(dst[8:], 0)
	}
}

// decodePixel reads one pixel of type t from src. Complex types report
// their real part, which is also what statistics are computed over.
func decodePixel(src []byte, t format.DataType, engine endian.EndianEngine) float64 {
	switch t {
	case format.TypeInt8:
		return float64(int8(src[0]))
	case format.TypeUInt8:
		return float64(src[0])
	case format.TypeInt16, format.TypeCInt16:
		return float64(int16(engine.Uint16(src)))
	case format.TypeUInt16:
		return float64(engine.Uint16(src))
	case format.TypeInt32, format.TypeCInt32:
		return float64(int32(engine.Uint32(src)))
	case format.TypeUInt32:
		return float64(engine.Uint32(src))
	case format.TypeFloat32, format.TypeCFloat32:
		return float64(math.Float32frombits(engine.Uint32(src)))
	case format.TypeFloat64, format.TypeCFloat64:
		return math.Float64frombits(engine.Uint64(src))
	default:
		return 0
	}
}

// fillPixels writes value v into every pixel slot of buf.
func fillPixels(buf []byte, t format.DataType, v float64, engine endian.EndianEngine) {
	size := t.Size()
	if len(buf) < size {
		return
	}

	encodePixel(buf, t, v, engine)
	// Doubling copy of the first encoded pixel.
	for filled := size; filled < len(buf); filled *= 2 {
		copy(buf[filled:], buf[:filled])
	}
}

// swapScalars reverses the byte order of every scalar element in data.
// Complex types swap their real and imaginary halves independently.
func swapScalars(data []byte, t format.DataType) {
	width := t.Size()
	if t.IsComplex() {
		width /= 2
	}
	if width <= 1 {
		return
	}

	for i := 0; i+width <= len(data); i += width {
		for a, z := i, i+width-1; a < z; a, z = a+1, z-1 {
			data[a], data[z] = data[z], data[a]
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return math.Round(v)
}
