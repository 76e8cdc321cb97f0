//go:build !gozstd

package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/arloliu/gta/errs"
)

// zstdDecoderPool pools zstd decoders for reuse; the klauspost decoder is
// designed to operate without allocations after warmup when stored.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			panic(fmt.Sprintf("zstd decoder for pool: %v", err))
		}

		return decoder
	},
}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("zstd encoder for pool: %v", err))
		}

		return encoder
	},
}

// Compress compresses data with Zstandard using a pooled encoder.
func (ZstdCodec) Compress(data []byte) ([]byte, error) {
	encoder, _ := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)

	// EncodeAll is stateless, so the pooled encoder stays reusable.
	return encoder.EncodeAll(data, nil), nil
}

// Decompress restores a Zstandard stream into exactly rawSize bytes.
func (ZstdCodec) Decompress(data []byte, rawSize int) ([]byte, error) {
	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", errs.ErrCorruptData, err)
	}

	return verifySize(raw, rawSize)
}
