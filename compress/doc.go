// Package compress provides the compression codecs used for gta container
// strips.
//
// Compression is applied per strip: every strip of a component is compressed
// independently so a single strip can be rewritten in place without touching
// its neighbors. The container records the algorithm and level per component,
// and the raw size of every strip, so decompression never requires
// out-of-band knowledge from the writer.
//
// Supported algorithms:
//   - None: identity passthrough
//   - Zlib: levels 1-9 (klauspost/compress/zlib)
//   - Bzip2: dsnet/compress/bzip2
//   - XZ: ulikunitz/xz
//   - Zstd: klauspost/compress/zstd, or valyala/gozstd with the gozstd build tag
//   - LZ4: pierrec/lz4 block format
//   - S2: klauspost/compress/s2
//
// All codecs are stateless values safe for concurrent use; implementations
// that benefit from reusable encoder state draw it from internal sync.Pools.
package compress
