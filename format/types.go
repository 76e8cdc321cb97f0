// Package format defines the closed enumerations shared by the gta container
// and its raster adapter: pixel data types, compression algorithms, and band
// color interpretations.
package format

type (
	DataType    uint8
	Compression uint8
	ColorInterp uint8
)

// Pixel data types. The complex types store interleaved real and imaginary
// parts of the named width.
const (
	TypeUnknown  DataType = 0x0
	TypeInt8     DataType = 0x1
	TypeUInt8    DataType = 0x2
	TypeInt16    DataType = 0x3
	TypeUInt16   DataType = 0x4
	TypeInt32    DataType = 0x5
	TypeUInt32   DataType = 0x6
	TypeFloat32  DataType = 0x7
	TypeFloat64  DataType = 0x8
	TypeCInt16   DataType = 0x9
	TypeCInt32   DataType = 0xa
	TypeCFloat32 DataType = 0xb
	TypeCFloat64 DataType = 0xc
)

// Compression algorithms accepted by the container. CompressionZlib is the
// only leveled algorithm (levels 1-9); the others ignore the level.
const (
	CompressionNone  Compression = 0x1
	CompressionZlib  Compression = 0x2
	CompressionBzip2 Compression = 0x3
	CompressionXZ    Compression = 0x4
	CompressionZstd  Compression = 0x5
	CompressionLZ4   Compression = 0x6
	CompressionS2    Compression = 0x7
)

// Band color interpretations, matching the conventional raster set. Palette
// is recognized but not writable by the adapter since color tables are not
// stored in the container.
const (
	CIUndefined ColorInterp = iota
	CIGray
	CIPalette
	CIRed
	CIGreen
	CIBlue
	CIAlpha
	CIHue
	CISaturation
	CILightness
	CICyan
	CIMagenta
	CIYellow
	CIBlack
	CIYCbCrY
	CIYCbCrCb
	CIYCbCrCr

	// CIMax is the number of defined color interpretations.
	CIMax = iota
)

// Size returns the size of one value of the data type in bytes, or 0 for
// TypeUnknown.
func (t DataType) Size() int {
	switch t {
	case TypeInt8, TypeUInt8:
		return 1
	case TypeInt16, TypeUInt16:
		return 2
	case TypeInt32, TypeUInt32, TypeFloat32, TypeCInt16:
		return 4
	case TypeFloat64, TypeCInt32, TypeCFloat32:
		return 8
	case TypeCFloat64:
		return 16
	default:
		return 0
	}
}

// IsComplex reports whether the data type stores interleaved real and
// imaginary parts.
func (t DataType) IsComplex() bool {
	switch t {
	case TypeCInt16, TypeCInt32, TypeCFloat32, TypeCFloat64:
		return true
	default:
		return false
	}
}

// Valid reports whether t is one of the defined pixel data types.
func (t DataType) Valid() bool {
	return t >= TypeInt8 && t <= TypeCFloat64
}

func (t DataType) String() string {
	switch t {
	case TypeInt8:
		return "Int8"
	case TypeUInt8:
		return "UInt8"
	case TypeInt16:
		return "Int16"
	case TypeUInt16:
		return "UInt16"
	case TypeInt32:
		return "Int32"
	case TypeUInt32:
		return "UInt32"
	case TypeFloat32:
		return "Float32"
	case TypeFloat64:
		return "Float64"
	case TypeCInt16:
		return "CInt16"
	case TypeCInt32:
		return "CInt32"
	case TypeCFloat32:
		return "CFloat32"
	case TypeCFloat64:
		return "CFloat64"
	default:
		return "Unknown"
	}
}

// Valid reports whether c is one of the defined compression algorithms.
func (c Compression) Valid() bool {
	return c >= CompressionNone && c <= CompressionS2
}

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZlib:
		return "Zlib"
	case CompressionBzip2:
		return "Bzip2"
	case CompressionXZ:
		return "XZ"
	case CompressionZstd:
		return "Zstd"
	case CompressionLZ4:
		return "LZ4"
	case CompressionS2:
		return "S2"
	default:
		return "Unknown"
	}
}

// Valid reports whether ci is one of the defined color interpretations.
func (ci ColorInterp) Valid() bool {
	return ci < CIMax
}

func (ci ColorInterp) String() string {
	switch ci {
	case CIGray:
		return "Gray"
	case CIPalette:
		return "Palette"
	case CIRed:
		return "Red"
	case CIGreen:
		return "Green"
	case CIBlue:
		return "Blue"
	case CIAlpha:
		return "Alpha"
	case CIHue:
		return "Hue"
	case CISaturation:
		return "Saturation"
	case CILightness:
		return "Lightness"
	case CICyan:
		return "Cyan"
	case CIMagenta:
		return "Magenta"
	case CIYellow:
		return "Yellow"
	case CIBlack:
		return "Black"
	case CIYCbCrY:
		return "YCbCr_Y"
	case CIYCbCrCb:
		return "YCbCr_Cb"
	case CIYCbCrCr:
		return "YCbCr_Cr"
	default:
		return "Undefined"
	}
}
