package container

import (
	"fmt"
	"math"

	"github.com/arloliu/gta/endian"
	"github.com/arloliu/gta/errs"
	"github.com/arloliu/gta/format"
)

// DefaultStripSize is the raw size of one strip slot. Strips around this
// size keep update-in-place rewrites cheap while amortizing per-strip
// compression overhead.
const DefaultStripSize = 64 * 1024

// stripEntrySize is the size of one strip table entry on disk:
//
//	0-7   data offset (absolute)
//	8-11  raw size
//	12-15 stored size
//	16    method (per-strip compression, None when incompressible)
//	17    flags (bit 0: strip has been written)
//	18-19 reserved
//	20-27 xxhash64 of the stored bytes
//	28-31 reserved
const stripEntrySize = 32

const stripFlagWritten = 0x1

// ComponentSpec describes one component at creation time.
type ComponentSpec struct {
	DataType format.DataType
	Dims     []uint64
}

// ComponentInfo describes a component of an open container. Shape, type,
// and compression are fixed at creation and reported back by Open so
// readers need no out-of-band knowledge.
type ComponentInfo struct {
	DataType    format.DataType
	Dims        []uint64
	Compression format.Compression
	Level       int
}

// Size returns the component's total raw size in bytes.
func (ci ComponentInfo) Size() uint64 {
	n := uint64(ci.DataType.Size())
	for _, d := range ci.Dims {
		n *= d
	}

	return n
}

type stripEntry struct {
	offset     uint64
	rawSize    uint32
	storedSize uint32
	method     format.Compression
	written    bool
	checksum   uint64
}

type component struct {
	info        ComponentInfo
	totalSize   uint64
	stripSize   uint32
	strips      []stripEntry
	tableOffset uint64
	dirty       bool
}

// totalSizeOf computes the raw byte size of a component spec, rejecting
// empty shapes and sizes that overflow uint64.
func totalSizeOf(spec ComponentSpec) (uint64, error) {
	if !spec.DataType.Valid() {
		return 0, fmt.Errorf("invalid component data type %d", spec.DataType)
	}
	if len(spec.Dims) == 0 {
		return 0, fmt.Errorf("component has no dimensions")
	}

	total := uint64(spec.DataType.Size())
	for _, d := range spec.Dims {
		if d == 0 {
			return 0, fmt.Errorf("component dimension is zero")
		}
		if total > math.MaxUint64/d {
			return 0, fmt.Errorf("component size overflows")
		}
		total *= d
	}

	return total, nil
}

func newComponent(spec ComponentSpec, compression format.Compression, level int, stripSize uint32) (*component, error) {
	total, err := totalSizeOf(spec)
	if err != nil {
		return nil, err
	}

	dims := make([]uint64, len(spec.Dims))
	copy(dims, spec.Dims)

	c := &component{
		info: ComponentInfo{
			DataType:    spec.DataType,
			Dims:        dims,
			Compression: compression,
			Level:       level,
		},
		totalSize: total,
		stripSize: stripSize,
	}

	count := (total + uint64(stripSize) - 1) / uint64(stripSize)
	c.strips = make([]stripEntry, count)
	for i := range c.strips {
		c.strips[i].rawSize = c.stripRawSize(i)
		c.strips[i].method = format.CompressionNone
	}

	return c, nil
}

// stripRawSize returns the raw size of strip i; only the last strip may be
// shorter than the strip size.
func (c *component) stripRawSize(i int) uint32 {
	if i == len(c.strips)-1 {
		if rem := c.totalSize % uint64(c.stripSize); rem != 0 {
			return uint32(rem)
		}
	}

	return c.stripSize
}

// tableSize returns the on-disk size of the component's descriptor plus its
// strip table.
func (c *component) tableSize() int {
	return 8 + 8*len(c.info.Dims) + 8 + stripEntrySize*len(c.strips)
}

// encodeTable serializes the component descriptor and strip table.
//
// Descriptor layout: dtype u8 | compression u8 | level u8 | reserved u8 |
// ndims u32 | dims (ndims x u64) | strip size u32 | strip count u32,
// followed by the strip entries.
func (c *component) encodeTable(engine endian.EndianEngine) []byte {
	buf := make([]byte, 0, c.tableSize())

	buf = append(buf, byte(c.info.DataType), byte(c.info.Compression), byte(c.info.Level), 0)
	buf = engine.AppendUint32(buf, uint32(len(c.info.Dims)))
	for _, d := range c.info.Dims {
		buf = engine.AppendUint64(buf, d)
	}
	buf = engine.AppendUint32(buf, c.stripSize)
	buf = engine.AppendUint32(buf, uint32(len(c.strips)))

	for i := range c.strips {
		s := &c.strips[i]
		buf = engine.AppendUint64(buf, s.offset)
		buf = engine.AppendUint32(buf, s.rawSize)
		buf = engine.AppendUint32(buf, s.storedSize)
		var flags byte
		if s.written {
			flags |= stripFlagWritten
		}
		buf = append(buf, byte(s.method), flags)
		buf = engine.AppendUint16(buf, 0)
		buf = engine.AppendUint64(buf, s.checksum)
		buf = engine.AppendUint32(buf, 0)
	}

	return buf
}

// parseComponent decodes one component table from data, returning the bytes
// consumed. Structural inconsistencies fail with errs.ErrCorruptData.
func parseComponent(data []byte, engine endian.EndianEngine, tableOffset uint64) (*component, int, error) {
	if len(data) < 8 {
		return nil, 0, fmt.Errorf("%w: truncated component descriptor", errs.ErrCorruptData)
	}

	dtype := format.DataType(data[0])
	compression := format.Compression(data[1])
	level := int(data[2])
	ndims := int(engine.Uint32(data[4:8]))
	pos := 8

	if !dtype.Valid() {
		return nil, 0, fmt.Errorf("%w: invalid component data type 0x%02x", errs.ErrCorruptData, data[0])
	}
	if !compression.Valid() {
		return nil, 0, fmt.Errorf("%w: invalid component compression 0x%02x", errs.ErrCorruptData, data[1])
	}
	if ndims == 0 || ndims > 16 {
		return nil, 0, fmt.Errorf("%w: component has %d dimensions", errs.ErrCorruptData, ndims)
	}
	if len(data) < pos+8*ndims+8 {
		return nil, 0, fmt.Errorf("%w: truncated component dimensions", errs.ErrCorruptData)
	}

	dims := make([]uint64, ndims)
	for i := range dims {
		dims[i] = engine.Uint64(data[pos:])
		pos += 8
	}

	stripSize := engine.Uint32(data[pos:])
	stripCount := int(engine.Uint32(data[pos+4:]))
	pos += 8

	total, err := totalSizeOf(ComponentSpec{DataType: dtype, Dims: dims})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", errs.ErrCorruptData, err)
	}
	if stripSize == 0 {
		return nil, 0, fmt.Errorf("%w: zero strip size", errs.ErrCorruptData)
	}
	if want := int((total + uint64(stripSize) - 1) / uint64(stripSize)); stripCount != want {
		return nil, 0, fmt.Errorf("%w: strip count %d does not match extent (want %d)", errs.ErrCorruptData, stripCount, want)
	}
	if len(data) < pos+stripEntrySize*stripCount {
		return nil, 0, fmt.Errorf("%w: truncated strip table", errs.ErrCorruptData)
	}

	c := &component{
		info: ComponentInfo{
			DataType:    dtype,
			Dims:        dims,
			Compression: compression,
			Level:       level,
		},
		totalSize:   total,
		stripSize:   stripSize,
		strips:      make([]stripEntry, stripCount),
		tableOffset: tableOffset,
	}

	for i := range c.strips {
		s := &c.strips[i]
		s.offset = engine.Uint64(data[pos:])
		s.rawSize = engine.Uint32(data[pos+8:])
		s.storedSize = engine.Uint32(data[pos+12:])
		s.method = format.Compression(data[pos+16])
		s.written = data[pos+17]&stripFlagWritten != 0
		s.checksum = engine.Uint64(data[pos+20:])
		pos += stripEntrySize

		if s.rawSize != c.stripRawSize(i) {
			return nil, 0, fmt.Errorf("%w: strip %d raw size %d does not match extent", errs.ErrCorruptData, i, s.rawSize)
		}
		if s.written {
			if !s.method.Valid() {
				return nil, 0, fmt.Errorf("%w: strip %d has invalid method 0x%02x", errs.ErrCorruptData, i, uint8(s.method))
			}
			if s.method != format.CompressionNone && s.method != compression {
				return nil, 0, fmt.Errorf("%w: strip %d method %s does not match component %s",
					errs.ErrCorruptData, i, s.method, compression)
			}
			if s.storedSize == 0 || s.storedSize > s.rawSize {
				return nil, 0, fmt.Errorf("%w: strip %d stored size %d exceeds slot %d",
					errs.ErrCorruptData, i, s.storedSize, s.rawSize)
			}
		}
	}

	return c, pos, nil
}
