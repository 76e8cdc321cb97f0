package container

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/arloliu/gta/compress"
	"github.com/arloliu/gta/endian"
	"github.com/arloliu/gta/errs"
	"github.com/arloliu/gta/format"
	"github.com/arloliu/gta/internal/options"
	"github.com/arloliu/gta/internal/pool"
	"github.com/arloliu/gta/tagdict"
	"github.com/arloliu/gta/vfs"
)

// Mode selects how Open accesses an existing container.
type Mode int

const (
	// ModeReadOnly opens the container for reading.
	ModeReadOnly Mode = iota
	// ModeUpdate opens the container for reading and in-place writing.
	ModeUpdate
)

// Container is an open handle to a gta container file.
//
// A Container owns its tag dictionary and strip tables exclusively; callers
// holding the *tagdict.Dict returned by Tags must not use it after Close.
type Container struct {
	path   string
	fsys   vfs.FS
	file   vfs.File
	engine endian.EndianEngine

	comps  []*component
	codecs []compress.Codec
	tags   *tagdict.Dict

	dictOffset uint64
	dictSize   uint64

	writable bool
	closed   bool

	// flushedTagVersion is the dictionary version last written to disk;
	// any later mutation marks the container dirty.
	flushedTagVersion uint64
}

type createConfig struct {
	compression format.Compression
	level       int
	engine      endian.EndianEngine
	stripSize   uint32
}

// CreateOption configures Create.
type CreateOption = options.Option[*createConfig]

// WithCompression selects the compression algorithm and level applied to
// every strip of every component. The algorithm and level are validated up
// front: an unsupported combination fails Create with
// errs.ErrUnsupportedCompression before any file is created.
func WithCompression(c format.Compression, level int) CreateOption {
	return options.New(func(cfg *createConfig) error {
		if _, err := compress.New(c, level); err != nil {
			return err
		}
		cfg.compression = c
		cfg.level = level

		return nil
	})
}

// WithByteOrder overrides the container byte order. The default is the
// host's native order.
func WithByteOrder(engine endian.EndianEngine) CreateOption {
	return options.NoError(func(cfg *createConfig) {
		cfg.engine = engine
	})
}

// WithStripSize overrides the raw strip size. Mostly useful in tests to
// force multi-strip components with small data.
func WithStripSize(n int) CreateOption {
	return options.New(func(cfg *createConfig) error {
		if n <= 0 {
			return fmt.Errorf("strip size must be positive, got %d", n)
		}
		cfg.stripSize = uint32(n)

		return nil
	})
}

// Create creates a new container at path with the given components. The
// returned handle is writable; its component shapes and types are fixed for
// the life of the file.
//
// Create validates all options and specs before touching the filesystem,
// and removes the file again if initialization fails partway, so a failed
// Create never leaves an openable path behind.
func Create(fsys vfs.FS, path string, specs []ComponentSpec, opts ...CreateOption) (*Container, error) {
	cfg := &createConfig{
		compression: format.CompressionNone,
		engine:      endian.Native(),
		stripSize:   DefaultStripSize,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if len(specs) == 0 {
		return nil, fmt.Errorf("container needs at least one component")
	}

	codec, err := compress.New(cfg.compression, cfg.level)
	if err != nil {
		return nil, err
	}

	comps := make([]*component, len(specs))
	for i, spec := range specs {
		c, err := newComponent(spec, cfg.compression, cfg.level, cfg.stripSize)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		comps[i] = c
	}

	// Lay out the file: tables directly after the header, then the strip
	// slots, then the dictionary.
	offset := uint64(HeaderSize)
	for _, c := range comps {
		c.tableOffset = offset
		offset += uint64(c.tableSize())
	}
	for _, c := range comps {
		for i := range c.strips {
			c.strips[i].offset = offset
			offset += uint64(c.strips[i].rawSize)
		}
	}

	file, err := fsys.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating container %s: %w", path, err)
	}

	cont := &Container{
		path:       path,
		fsys:       fsys,
		file:       file,
		engine:     cfg.engine,
		comps:      comps,
		tags:       tagdict.New(),
		dictOffset: offset,
		writable:   true,
	}
	cont.codecs = make([]compress.Codec, len(comps))
	for i := range cont.codecs {
		cont.codecs[i] = codec
	}

	if err := cont.flushMeta(); err != nil {
		file.Close()
		fsys.Remove(path)

		return nil, err
	}

	return cont, nil
}

// Open opens an existing container. The returned handle reports every
// component's shape, type, byte order, and compression via Component.
//
// A file whose magic does not match fails with errs.ErrNotAContainer; a
// valid magic with an inconsistent structure fails with errs.ErrCorruptData.
// Neither failure modifies the file.
func Open(fsys vfs.FS, path string, mode Mode) (*Container, error) {
	var (
		file vfs.File
		err  error
	)
	if mode == ModeUpdate {
		file, err = fsys.OpenRW(path)
	} else {
		file, err = fsys.Open(path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening container %s: %w", path, err)
	}

	cont, err := load(fsys, file, path, mode)
	if err != nil {
		file.Close()
		return nil, err
	}

	return cont, nil
}

func load(fsys vfs.FS, file vfs.File, path string, mode Mode) (*Container, error) {
	fileSize, err := file.Size()
	if err != nil {
		return nil, fmt.Errorf("container %s: %w", path, err)
	}

	headerBuf := make([]byte, HeaderSize)
	if fileSize >= HeaderSize {
		if _, err := file.ReadAt(headerBuf, 0); err != nil {
			return nil, fmt.Errorf("container %s: reading header: %w", path, err)
		}
	} else if fileSize > 0 {
		if _, err := file.ReadAt(headerBuf[:fileSize], 0); err != nil {
			return nil, fmt.Errorf("container %s: reading header: %w", path, err)
		}
		headerBuf = headerBuf[:fileSize]
	}

	header, err := ParseHeader(headerBuf)
	if err != nil {
		return nil, fmt.Errorf("container %s: %w", path, err)
	}

	// Both fields come from disk; check them without summing so forged
	// values near the uint64 ceiling cannot wrap past the bound.
	if header.DictOffset > uint64(fileSize) || header.DictSize > uint64(fileSize)-header.DictOffset {
		return nil, fmt.Errorf("%w: dictionary extends past end of file", errs.ErrCorruptData)
	}

	cont := &Container{
		path:       path,
		fsys:       fsys,
		file:       file,
		engine:     header.Engine,
		dictOffset: header.DictOffset,
		dictSize:   header.DictSize,
		writable:   mode == ModeUpdate,
	}

	// Component tables sit between the header and the first strip slot,
	// which is bounded by the dictionary offset.
	tableOffset := uint64(HeaderSize)
	cont.comps = make([]*component, header.ComponentCount)
	cont.codecs = make([]compress.Codec, header.ComponentCount)
	for i := range cont.comps {
		c, n, err := readComponentTable(file, tableOffset, header)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		tableOffset += uint64(n)

		for j := range c.strips {
			s := &c.strips[j]
			if s.offset < HeaderSize || s.offset > header.DictOffset ||
				uint64(s.rawSize) > header.DictOffset-s.offset {
				return nil, fmt.Errorf("%w: component %d strip %d outside data region", errs.ErrCorruptData, i, j)
			}
		}

		codec, err := compress.New(c.info.Compression, c.info.Level)
		if err != nil {
			return nil, fmt.Errorf("%w: component %d: %v", errs.ErrCorruptData, i, err)
		}

		cont.comps[i] = c
		cont.codecs[i] = codec
	}

	dictBuf := make([]byte, header.DictSize)
	if len(dictBuf) > 0 {
		if _, err := file.ReadAt(dictBuf, int64(header.DictOffset)); err != nil {
			return nil, fmt.Errorf("container %s: reading dictionary: %w", path, err)
		}
	}
	tags, err := tagdict.Decode(dictBuf, header.Engine)
	if err != nil {
		return nil, err
	}
	cont.tags = tags
	cont.flushedTagVersion = tags.Version()

	return cont, nil
}

// readComponentTable stages the variable-length component table from disk
// in bounded pieces, then hands the assembled bytes to parseComponent. The
// dictionary offset caps every length field so a corrupted table cannot
// trigger an oversized allocation.
func readComponentTable(file vfs.File, offset uint64, header Header) (*component, int, error) {
	readAt := func(n, at uint64) ([]byte, error) {
		if at+n > header.DictOffset {
			return nil, fmt.Errorf("%w: component table extends into data region", errs.ErrCorruptData)
		}
		buf := make([]byte, n)
		if _, err := file.ReadAt(buf, int64(at)); err != nil {
			return nil, fmt.Errorf("reading component table: %w", err)
		}

		return buf, nil
	}

	desc, err := readAt(8, offset)
	if err != nil {
		return nil, 0, err
	}
	ndims := uint64(header.Engine.Uint32(desc[4:8]))
	if ndims == 0 || ndims > 16 {
		return nil, 0, fmt.Errorf("%w: component has %d dimensions", errs.ErrCorruptData, ndims)
	}

	dims, err := readAt(8*ndims+8, offset+8)
	if err != nil {
		return nil, 0, err
	}
	stripCount := uint64(header.Engine.Uint32(dims[8*ndims+4:]))

	entries, err := readAt(stripEntrySize*stripCount, offset+8+8*ndims+8)
	if err != nil {
		return nil, 0, err
	}

	table := make([]byte, 0, uint64(len(desc)+len(dims)+len(entries)))
	table = append(table, desc...)
	table = append(table, dims...)
	table = append(table, entries...)

	return parseComponent(table, header.Engine, offset)
}

// Path returns the path the container was created or opened with.
func (c *Container) Path() string { return c.path }

// Writable reports whether the handle accepts writes.
func (c *Container) Writable() bool { return c.writable }

// ByteOrder returns the engine matching the container's on-disk byte order.
func (c *Container) ByteOrder() endian.EndianEngine { return c.engine }

// ComponentCount returns the number of components.
func (c *Container) ComponentCount() int { return len(c.comps) }

// Component returns the fixed description of component i. It panics when i
// is out of range; see ComponentCount for the valid interval.
func (c *Container) Component(i int) ComponentInfo {
	info := c.comps[i].info
	dims := make([]uint64, len(info.Dims))
	copy(dims, info.Dims)
	info.Dims = dims

	return info
}

// Tags returns the container's tag dictionary. Mutations through the
// returned dictionary mark the container dirty; they reach disk on the next
// Flush or Close and require a writable handle to persist.
func (c *Container) Tags() *tagdict.Dict { return c.tags }

// ReadAt reads len(p) raw bytes of component comp starting at byte offset
// off, decompressing the strips the range covers. Strips never written read
// back as zeros.
func (c *Container) ReadAt(comp int, p []byte, off int64) error {
	if c.closed {
		return errs.ErrClosed
	}
	if err := c.checkRange(comp, off, len(p)); err != nil {
		return err
	}

	cmp := c.comps[comp]
	for len(p) > 0 {
		idx := int(uint64(off) / uint64(cmp.stripSize))
		stripStart := uint64(idx) * uint64(cmp.stripSize)
		inStrip := int(uint64(off) - stripStart)
		n := int(cmp.strips[idx].rawSize) - inStrip
		if n > len(p) {
			n = len(p)
		}

		s := &cmp.strips[idx]
		if !s.written {
			clear(p[:n])
		} else if err := c.readStripInto(comp, idx, inStrip, p[:n]); err != nil {
			return err
		}

		p = p[n:]
		off += int64(n)
	}

	return nil
}

// WriteAt overwrites len(p) raw bytes of component comp starting at byte
// offset off, recompressing only the strips the range covers. Writes beyond
// the component's fixed extent fail with errs.ErrFixedShapeViolation and
// write nothing.
func (c *Container) WriteAt(comp int, p []byte, off int64) error {
	if c.closed {
		return errs.ErrClosed
	}
	if !c.writable {
		return errs.ErrReadOnly
	}
	if err := c.checkRange(comp, off, len(p)); err != nil {
		return err
	}

	cmp := c.comps[comp]
	for len(p) > 0 {
		idx := int(uint64(off) / uint64(cmp.stripSize))
		stripStart := uint64(idx) * uint64(cmp.stripSize)
		inStrip := int(uint64(off) - stripStart)
		rawSize := int(cmp.strips[idx].rawSize)
		n := rawSize - inStrip
		if n > len(p) {
			n = len(p)
		}

		if inStrip == 0 && n == rawSize {
			if err := c.storeStrip(comp, idx, p[:n]); err != nil {
				return err
			}
		} else {
			// Partial strip update: read-modify-write.
			buf := pool.GetStripBuffer()
			buf.Grow(rawSize)
			raw := buf.Bytes()

			s := &cmp.strips[idx]
			if !s.written {
				clear(raw)
			} else if err := c.readStripInto(comp, idx, 0, raw); err != nil {
				pool.PutStripBuffer(buf)
				return err
			}
			copy(raw[inStrip:], p[:n])

			err := c.storeStrip(comp, idx, raw)
			pool.PutStripBuffer(buf)
			if err != nil {
				return err
			}
		}

		p = p[n:]
		off += int64(n)
	}

	return nil
}

func (c *Container) checkRange(comp int, off int64, n int) error {
	if comp < 0 || comp >= len(c.comps) {
		return fmt.Errorf("component index %d out of range [0,%d)", comp, len(c.comps))
	}
	total := c.comps[comp].totalSize
	if off < 0 || uint64(off)+uint64(n) > total {
		return fmt.Errorf("%w: range [%d,%d) outside component extent %d",
			errs.ErrFixedShapeViolation, off, off+int64(n), total)
	}

	return nil
}

// readStripInto decompresses strip idx of component comp and copies
// raw[inStrip : inStrip+len(dst)] into dst.
func (c *Container) readStripInto(comp, idx, inStrip int, dst []byte) error {
	cmp := c.comps[comp]
	s := &cmp.strips[idx]

	buf := pool.GetStripBuffer()
	defer pool.PutStripBuffer(buf)
	buf.Grow(int(s.storedSize))
	stored := buf.Bytes()

	if _, err := c.file.ReadAt(stored, int64(s.offset)); err != nil {
		return fmt.Errorf("component %d strip %d: %w", comp, idx, err)
	}
	if xxhash.Sum64(stored) != s.checksum {
		return fmt.Errorf("%w: component %d strip %d checksum mismatch", errs.ErrCorruptData, comp, idx)
	}

	var (
		raw []byte
		err error
	)
	if s.method == format.CompressionNone {
		raw, err = compress.NoneCodec{}.Decompress(stored, int(s.rawSize))
	} else {
		raw, err = c.codecs[comp].Decompress(stored, int(s.rawSize))
	}
	if err != nil {
		return fmt.Errorf("component %d strip %d: %w", comp, idx, err)
	}

	copy(dst, raw[inStrip:inStrip+len(dst)])

	return nil
}

// storeStrip compresses raw and writes it into strip idx's fixed slot. A
// strip whose compressed form would not fit the slot is stored uncompressed.
func (c *Container) storeStrip(comp, idx int, raw []byte) error {
	cmp := c.comps[comp]
	s := &cmp.strips[idx]

	stored := raw
	method := format.CompressionNone
	if cmp.info.Compression != format.CompressionNone {
		compressed, err := c.codecs[comp].Compress(raw)
		if err != nil {
			return fmt.Errorf("component %d strip %d: %w", comp, idx, err)
		}
		if len(compressed) < len(raw) {
			stored = compressed
			method = cmp.info.Compression
		}
	}

	if _, err := c.file.WriteAt(stored, int64(s.offset)); err != nil {
		return fmt.Errorf("component %d strip %d: %w", comp, idx, err)
	}

	s.storedSize = uint32(len(stored))
	s.method = method
	s.written = true
	s.checksum = xxhash.Sum64(stored)
	cmp.dirty = true

	return nil
}

// Flush writes dirty strip tables, the tag dictionary if it changed, and
// the header to disk. Strip data itself is written eagerly by WriteAt, so
// after Flush the on-disk file is fully consistent.
func (c *Container) Flush() error {
	if c.closed {
		return errs.ErrClosed
	}
	if !c.writable {
		return nil
	}

	return c.flushMeta()
}

func (c *Container) flushMeta() error {
	for i, cmp := range c.comps {
		if !cmp.dirty && c.dictSize != 0 {
			continue
		}
		if _, err := c.file.WriteAt(cmp.encodeTable(c.engine), int64(cmp.tableOffset)); err != nil {
			return fmt.Errorf("writing component %d table: %w", i, err)
		}
		cmp.dirty = false
	}

	dictChanged := c.tags.Version() != c.flushedTagVersion || c.dictSize == 0
	if dictChanged {
		encoded := tagdict.Encode(c.tags, c.engine)
		if _, err := c.file.WriteAt(encoded, int64(c.dictOffset)); err != nil {
			return fmt.Errorf("writing dictionary: %w", err)
		}
		// Drop stale dictionary bytes beyond the new tail.
		if err := c.file.Truncate(int64(c.dictOffset) + int64(len(encoded))); err != nil {
			return fmt.Errorf("truncating dictionary tail: %w", err)
		}
		c.dictSize = uint64(len(encoded))
		c.flushedTagVersion = c.tags.Version()
	}

	header := Header{
		ComponentCount: uint32(len(c.comps)),
		DictOffset:     c.dictOffset,
		DictSize:       c.dictSize,
		Engine:         c.engine,
	}
	if _, err := c.file.WriteAt(header.Bytes(), 0); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	return nil
}

// Close flushes pending metadata and releases the file handle. Close is
// idempotent; only the first call reports flush errors.
func (c *Container) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	var flushErr error
	if c.writable {
		flushErr = c.flushMeta()
	}

	if err := c.file.Close(); err != nil && flushErr == nil {
		flushErr = err
	}

	return flushErr
}
