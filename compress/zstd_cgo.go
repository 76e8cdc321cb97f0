//go:build gozstd

package compress

import (
	"fmt"

	"github.com/valyala/gozstd"

	"github.com/arloliu/gta/errs"
)

// Compress compresses data with Zstandard via libzstd.
func (ZstdCodec) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress restores a Zstandard stream into exactly rawSize bytes.
func (ZstdCodec) Decompress(data []byte, rawSize int) ([]byte, error) {
	raw, err := gozstd.Decompress(nil, data)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", errs.ErrCorruptData, err)
	}

	return verifySize(raw, rawSize)
}
