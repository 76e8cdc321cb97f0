package tagdict

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/arloliu/gta/endian"
	"github.com/arloliu/gta/errs"
)

// maxDepth bounds scope nesting during decode so corrupted length fields
// cannot drive unbounded recursion.
const maxDepth = 32

// checksumSize is the xxhash64 trailer appended to the serialized root scope.
const checksumSize = 8

// Encode serializes the dictionary in the given byte order and appends an
// xxhash64 checksum of the body. The encoding walks keys in insertion order,
// so equal dictionaries always serialize identically.
func Encode(d *Dict, engine endian.EndianEngine) []byte {
	body := appendDict(nil, d, engine)
	return engine.AppendUint64(body, xxhash.Sum64(body))
}

// Decode deserializes a dictionary produced by Encode. A checksum mismatch,
// trailing garbage, duplicate key, or any out-of-bounds length fails with
// errs.ErrCorruptData.
func Decode(data []byte, engine endian.EndianEngine) (*Dict, error) {
	if len(data) < checksumSize {
		return nil, fmt.Errorf("%w: dictionary shorter than checksum", errs.ErrCorruptData)
	}

	body := data[:len(data)-checksumSize]
	want := engine.Uint64(data[len(data)-checksumSize:])
	if xxhash.Sum64(body) != want {
		return nil, fmt.Errorf("%w: dictionary checksum mismatch", errs.ErrCorruptData)
	}

	d, rest, err := decodeDict(body, engine, nil, 0)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after dictionary", errs.ErrCorruptData, len(rest))
	}

	return d, nil
}

func appendDict(buf []byte, d *Dict, engine endian.EndianEngine) []byte {
	buf = engine.AppendUint32(buf, uint32(len(d.keys)))
	for _, key := range d.keys {
		v := d.vals[key]

		buf = engine.AppendUint16(buf, uint16(len(key)))
		buf = append(buf, key...)
		buf = append(buf, byte(v.kind))

		switch v.kind {
		case KindInt64, KindFloat64:
			buf = engine.AppendUint64(buf, v.num)
		case KindString:
			buf = engine.AppendUint32(buf, uint32(len(v.str)))
			buf = append(buf, v.str...)
		case KindBytes:
			buf = engine.AppendUint32(buf, uint32(len(v.raw)))
			buf = append(buf, v.raw...)
		case KindScope:
			nested := appendDict(nil, v.scope, engine)
			buf = engine.AppendUint32(buf, uint32(len(nested)))
			buf = append(buf, nested...)
		}
	}

	return buf
}

func decodeDict(data []byte, engine endian.EndianEngine, parent *Dict, depth int) (*Dict, []byte, error) {
	if depth > maxDepth {
		return nil, nil, fmt.Errorf("%w: scope nesting exceeds %d", errs.ErrCorruptData, maxDepth)
	}
	if len(data) < 4 {
		return nil, nil, fmt.Errorf("%w: truncated scope header", errs.ErrCorruptData)
	}

	count := engine.Uint32(data)
	data = data[4:]

	// The smallest entry is 7 bytes on the wire, so a count the remaining
	// bytes cannot hold is corrupt; never preallocate beyond that bound.
	hint := count
	if maxEntries := uint32(len(data) / 7); hint > maxEntries {
		hint = maxEntries
	}

	d := &Dict{parent: parent, vals: make(map[string]Value, hint)}

	for i := uint32(0); i < count; i++ {
		if len(data) < 2 {
			return nil, nil, fmt.Errorf("%w: truncated key length", errs.ErrCorruptData)
		}
		keyLen := int(engine.Uint16(data))
		data = data[2:]

		if len(data) < keyLen+1 {
			return nil, nil, fmt.Errorf("%w: truncated key", errs.ErrCorruptData)
		}
		key := string(data[:keyLen])
		kind := Kind(data[keyLen])
		data = data[keyLen+1:]

		if _, dup := d.vals[key]; dup {
			return nil, nil, fmt.Errorf("%w: duplicate key %q", errs.ErrCorruptData, key)
		}

		var v Value
		switch kind {
		case KindInt64, KindFloat64:
			if len(data) < 8 {
				return nil, nil, fmt.Errorf("%w: truncated value for key %q", errs.ErrCorruptData, key)
			}
			v = Value{kind: kind, num: engine.Uint64(data)}
			data = data[8:]
		case KindString, KindBytes:
			if len(data) < 4 {
				return nil, nil, fmt.Errorf("%w: truncated length for key %q", errs.ErrCorruptData, key)
			}
			n := int(engine.Uint32(data))
			data = data[4:]
			if len(data) < n {
				return nil, nil, fmt.Errorf("%w: truncated payload for key %q", errs.ErrCorruptData, key)
			}
			if kind == KindString {
				v = Value{kind: kind, str: string(data[:n])}
			} else {
				raw := make([]byte, n)
				copy(raw, data[:n])
				v = Value{kind: kind, raw: raw}
			}
			data = data[n:]
		case KindScope:
			if len(data) < 4 {
				return nil, nil, fmt.Errorf("%w: truncated scope length for key %q", errs.ErrCorruptData, key)
			}
			n := int(engine.Uint32(data))
			data = data[4:]
			if len(data) < n {
				return nil, nil, fmt.Errorf("%w: truncated scope for key %q", errs.ErrCorruptData, key)
			}
			sub, rest, err := decodeDict(data[:n], engine, d, depth+1)
			if err != nil {
				return nil, nil, err
			}
			if len(rest) != 0 {
				return nil, nil, fmt.Errorf("%w: trailing bytes in scope %q", errs.ErrCorruptData, key)
			}
			v = Value{kind: KindScope, scope: sub}
			data = data[n:]
		default:
			return nil, nil, fmt.Errorf("%w: unknown value kind 0x%02x for key %q", errs.ErrCorruptData, uint8(kind), key)
		}

		d.keys = append(d.keys, key)
		d.vals[key] = v
	}

	return d, data, nil
}
