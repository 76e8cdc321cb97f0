package compress

import (
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/gta/errs"
)

// lz4CompressorPool pools lz4.Compressor instances; the compressor keeps
// internal hash tables that benefit from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Codec compresses strips with the LZ4 block format. LZ4 ignores the
// container's level field. Decompression relies on the strip's recorded raw
// size, so no frame header is needed.
type LZ4Codec struct{}

var _ Codec = LZ4Codec{}

// Compress compresses data as a single LZ4 block.
func (LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}

	return dst[:n], nil
}

// Decompress restores an LZ4 block into exactly rawSize bytes.
func (LZ4Codec) Decompress(data []byte, rawSize int) ([]byte, error) {
	if rawSize == 0 && len(data) == 0 {
		return nil, nil
	}

	buf := make([]byte, rawSize)
	n, err := lz4.UncompressBlock(data, buf)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4: %v", errs.ErrCorruptData, err)
	}

	return verifySize(buf[:n], rawSize)
}
