// Package container implements the gta array container: a seekable,
// self-describing file holding one or more typed N-dimensional components
// plus a tag dictionary.
//
// # File layout (version 1)
//
//	+--------------------------+  offset 0
//	| file header (32 bytes)   |  magic, version, byte order,
//	|                          |  component count, dictionary offset/size
//	+--------------------------+
//	| component tables         |  per component: descriptor + strip table
//	+--------------------------+  <- data region start
//	| strip data               |  fixed-capacity slots, one per strip
//	+--------------------------+  <- dictionary offset (fixed at creation)
//	| tag dictionary           |  rewritten in full on flush
//	+--------------------------+
//
// Each component's data is divided into strips of a fixed raw size (the last
// strip may be shorter). A strip's on-disk slot capacity equals its raw
// size: a strip whose compressed form would not fit is stored uncompressed,
// recorded in a per-strip method byte. This is what makes update-in-place
// possible — rewriting a strip recompresses only that strip and never
// reflows the rest of the file.
//
// The header and component tables fully describe how to decode every strip;
// no out-of-band knowledge from the writer is required. Component shape,
// data type, byte order, and compression are fixed at creation. The tag
// dictionary lives at the tail of the file so it can grow or shrink freely
// on flush.
//
// A container instance assumes single-writer discipline: at most one open
// read-write handle per underlying file. Concurrent readers of a file not
// open for write are safe.
package container
