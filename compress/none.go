package compress

// NoneCodec passes strip data through unchanged in both directions.
//
// Compress returns the input slice as-is without copying; callers must not
// mutate the input while the returned slice is in use.
type NoneCodec struct{}

var _ Codec = NoneCodec{}

// Compress returns data unchanged.
func (NoneCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data unchanged after verifying its size.
func (NoneCodec) Decompress(data []byte, rawSize int) ([]byte, error) {
	return verifySize(data, rawSize)
}
