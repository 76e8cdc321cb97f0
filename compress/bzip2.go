package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"

	"github.com/arloliu/gta/errs"
)

// Bzip2Codec compresses strips with the bzip2 format. Bzip2 has no
// meaningful level knob at this layer; the library default is used.
type Bzip2Codec struct{}

var _ Codec = Bzip2Codec{}

// Compress compresses data with bzip2.
func (Bzip2Codec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: bzip2.DefaultCompression})
	if err != nil {
		return nil, fmt.Errorf("bzip2 writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("bzip2 compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("bzip2 compress: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress restores a bzip2 stream into exactly rawSize bytes.
func (Bzip2Codec) Decompress(data []byte, rawSize int) ([]byte, error) {
	r, err := bzip2.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: bzip2: %v", errs.ErrCorruptData, err)
	}
	defer r.Close()

	raw, err := io.ReadAll(io.LimitReader(r, int64(rawSize)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: bzip2: %v", errs.ErrCorruptData, err)
	}

	return verifySize(raw, rawSize)
}
