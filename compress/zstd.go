package compress

// ZstdCodec compresses strips with the Zstandard format. Zstd ignores the
// container's level field.
//
// Two backends are available: the default pure Go implementation
// (klauspost/compress/zstd) and a cgo implementation (valyala/gozstd)
// selected with the "gozstd" build tag for deployments that already link
// libzstd.
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}
