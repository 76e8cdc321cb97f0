package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/arloliu/gta/errs"
)

// ZlibCodec compresses strips with the zlib stream format at a fixed level.
// Level DefaultLevel (0) selects the library's default; levels 1-9 trade
// speed for ratio.
type ZlibCodec struct {
	Level int
}

var _ Codec = ZlibCodec{}

// Compress compresses data at the codec's level.
func (c ZlibCodec) Compress(data []byte) ([]byte, error) {
	level := c.Level
	if level == DefaultLevel {
		level = zlib.DefaultCompression
	}

	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("zlib writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress inflates data into exactly rawSize bytes.
func (c ZlibCodec) Decompress(data []byte, rawSize int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: zlib: %v", errs.ErrCorruptData, err)
	}
	defer r.Close()

	raw, err := io.ReadAll(io.LimitReader(r, int64(rawSize)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: zlib: %v", errs.ErrCorruptData, err)
	}

	return verifySize(raw, rawSize)
}
