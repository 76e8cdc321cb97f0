package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"

	"github.com/arloliu/gta/errs"
)

// XZCodec compresses strips with the xz format. XZ ignores the container's
// level field.
type XZCodec struct{}

var _ Codec = XZCodec{}

// Compress compresses data with xz.
func (XZCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("xz writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("xz compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("xz compress: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress restores an xz stream into exactly rawSize bytes.
func (XZCodec) Decompress(data []byte, rawSize int) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: xz: %v", errs.ErrCorruptData, err)
	}

	raw, err := io.ReadAll(io.LimitReader(r, int64(rawSize)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: xz: %v", errs.ErrCorruptData, err)
	}

	return verifySize(raw, rawSize)
}
