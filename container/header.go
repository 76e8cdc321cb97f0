package container

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/gta/endian"
	"github.com/arloliu/gta/errs"
)

// Magic identifies a gta container file. The trailing byte is a DOS EOF
// marker so accidental text-mode dumps stop before binary data.
var Magic = [4]byte{'G', 'T', 'A', 0x1a}

// Version is the container format version this package reads and writes.
const Version = 1

// HeaderSize is the size of the fixed file header in bytes.
const HeaderSize = 32

const (
	flagLittleEndian = 0x0
	flagBigEndian    = 0x1
)

// Header is the fixed-size file header.
//
// Byte layout (multi-byte fields in the header's own byte order):
//
//	0-3   magic
//	4     format version
//	5     byte order flag (0 little-endian, 1 big-endian)
//	6-7   reserved
//	8-11  component count
//	12-15 reserved
//	16-23 dictionary offset
//	24-31 dictionary size
type Header struct {
	ComponentCount uint32
	DictOffset     uint64
	DictSize       uint64

	// Engine decodes the rest of the file in the order the writer used.
	Engine endian.EndianEngine
}

// ParseHeader parses and validates the fixed file header. A magic mismatch
// (including a file shorter than the header) fails with errs.ErrNotAContainer
// so callers can probe file types cheaply; structural problems after a valid
// magic fail with errs.ErrCorruptData.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize || [4]byte(data[0:4]) != Magic {
		return Header{}, errs.ErrNotAContainer
	}

	if v := data[4]; v != Version {
		return Header{}, fmt.Errorf("%w: unsupported container version %d", errs.ErrCorruptData, v)
	}

	var engine endian.EndianEngine
	switch data[5] {
	case flagLittleEndian:
		engine = binary.LittleEndian
	case flagBigEndian:
		engine = binary.BigEndian
	default:
		return Header{}, fmt.Errorf("%w: invalid byte order flag 0x%02x", errs.ErrCorruptData, data[5])
	}

	h := Header{
		ComponentCount: engine.Uint32(data[8:12]),
		DictOffset:     engine.Uint64(data[16:24]),
		DictSize:       engine.Uint64(data[24:32]),
		Engine:         engine,
	}
	if h.ComponentCount == 0 {
		return Header{}, fmt.Errorf("%w: container has no components", errs.ErrCorruptData)
	}
	if h.DictOffset < HeaderSize {
		return Header{}, fmt.Errorf("%w: dictionary offset %d inside header", errs.ErrCorruptData, h.DictOffset)
	}

	return h, nil
}

// Bytes serializes the header.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)

	copy(b[0:4], Magic[:])
	b[4] = Version
	if h.Engine == binary.BigEndian {
		b[5] = flagBigEndian
	} else {
		b[5] = flagLittleEndian
	}
	h.Engine.PutUint32(b[8:12], h.ComponentCount)
	h.Engine.PutUint64(b[16:24], h.DictOffset)
	h.Engine.PutUint64(b[24:32], h.DictSize)

	return b
}
