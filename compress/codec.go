package compress

import (
	"fmt"

	"github.com/arloliu/gta/errs"
	"github.com/arloliu/gta/format"
)

// Compressor compresses one strip of component data.
type Compressor interface {
	// Compress compresses data and returns a newly allocated result. The
	// input slice is not modified and not retained.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores one strip of component data.
type Decompressor interface {
	// Decompress decompresses data into exactly rawSize bytes. A corrupt
	// stream or a result of any other size fails with errs.ErrCorruptData;
	// the output is never silently truncated or padded.
	Decompress(data []byte, rawSize int) ([]byte, error)
}

// Codec combines both directions of one compression algorithm.
type Codec interface {
	Compressor
	Decompressor
}

// Zlib compression levels. Level 0 selects the library default; the
// container persists whatever level the writer chose so re-opening a file
// for update keeps compressing new strips the same way.
const (
	DefaultLevel = 0
	MinLevel     = 1
	MaxLevel     = 9
)

// New creates the Codec for the given algorithm and level.
//
// Level is validated only for leveled algorithms (Zlib); the others accept
// any level and ignore it, so a container written with an incidental level
// value always opens. An unknown algorithm or an out-of-range Zlib level
// fails with errs.ErrUnsupportedCompression.
func New(c format.Compression, level int) (Codec, error) {
	switch c {
	case format.CompressionNone:
		return NoneCodec{}, nil
	case format.CompressionZlib:
		if level != DefaultLevel && (level < MinLevel || level > MaxLevel) {
			return nil, fmt.Errorf("%w: zlib level %d out of range", errs.ErrUnsupportedCompression, level)
		}

		return ZlibCodec{Level: level}, nil
	case format.CompressionBzip2:
		return Bzip2Codec{}, nil
	case format.CompressionXZ:
		return XZCodec{}, nil
	case format.CompressionZstd:
		return ZstdCodec{}, nil
	case format.CompressionLZ4:
		return LZ4Codec{}, nil
	case format.CompressionS2:
		return S2Codec{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, c)
	}
}

// IsSupported reports whether the algorithm has a builtin codec.
func IsSupported(c format.Compression) bool {
	_, err := New(c, DefaultLevel)
	return err == nil
}

// verifySize checks a decompression result against the expected raw size.
func verifySize(got []byte, rawSize int) ([]byte, error) {
	if len(got) != rawSize {
		return nil, fmt.Errorf("%w: decompressed %d bytes, want %d", errs.ErrCorruptData, len(got), rawSize)
	}

	return got, nil
}
