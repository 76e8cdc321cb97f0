package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"

	"github.com/arloliu/gta/errs"
)

// S2Codec compresses strips with the S2 block format. S2 ignores the
// container's level field.
type S2Codec struct{}

var _ Codec = S2Codec{}

// Compress compresses data with S2.
func (S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress restores an S2 block into exactly rawSize bytes.
func (S2Codec) Decompress(data []byte, rawSize int) ([]byte, error) {
	if rawSize == 0 && len(data) == 0 {
		return nil, nil
	}

	raw, err := s2.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("%w: s2: %v", errs.ErrCorruptData, err)
	}

	return verifySize(raw, rawSize)
}
