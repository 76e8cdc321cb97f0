package tagdict

import (
	"fmt"
	"math"
)

// Kind identifies the type stored in a Value. The set is closed: every read
// site can switch exhaustively over it.
type Kind uint8

const (
	KindInt64   Kind = 0x1
	KindFloat64 Kind = 0x2
	KindString  Kind = 0x3
	KindBytes   Kind = 0x4
	KindScope   Kind = 0x5
)

func (k Kind) String() string {
	switch k {
	case KindInt64:
		return "Int64"
	case KindFloat64:
		return "Float64"
	case KindString:
		return "String"
	case KindBytes:
		return "Bytes"
	case KindScope:
		return "Scope"
	default:
		return "Unknown"
	}
}

// Value is the tagged union stored under a dictionary key: int64, float64,
// UTF-8 string, raw bytes, or a nested scope. The explicit kind tag is
// serialized with the value so a round trip preserves the exact type, not
// just its textual form.
type Value struct {
	kind  Kind
	num   uint64
	str   string
	raw   []byte
	scope *Dict
}

// Int64 creates an integer value.
func Int64(v int64) Value {
	return Value{kind: KindInt64, num: uint64(v)}
}

// Float64 creates a floating point value.
func Float64(v float64) Value {
	return Value{kind: KindFloat64, num: math.Float64bits(v)}
}

// String creates a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Bytes creates a raw byte sequence value. The slice is stored by reference;
// callers must not mutate it afterwards.
func Bytes(b []byte) Value {
	return Value{kind: KindBytes, raw: b}
}

// Kind returns the value's type tag.
func (v Value) Kind() Kind {
	return v.kind
}

// Int64 returns the integer payload; ok is false for other kinds.
func (v Value) Int64() (val int64, ok bool) {
	if v.kind != KindInt64 {
		return 0, false
	}

	return int64(v.num), true
}

// Float64 returns the float payload; ok is false for other kinds.
func (v Value) Float64() (val float64, ok bool) {
	if v.kind != KindFloat64 {
		return 0, false
	}

	return math.Float64frombits(v.num), true
}

// Text returns the string payload; ok is false for other kinds. A present
// empty string reports ok=true, distinct from an absent key.
func (v Value) Text() (val string, ok bool) {
	if v.kind != KindString {
		return "", false
	}

	return v.str, true
}

// Bytes returns the raw byte payload; ok is false for other kinds.
func (v Value) Bytes() (val []byte, ok bool) {
	if v.kind != KindBytes {
		return nil, false
	}

	return v.raw, true
}

// Scope returns the nested dictionary; ok is false for other kinds.
func (v Value) Scope() (*Dict, bool) {
	if v.kind != KindScope {
		return nil, false
	}

	return v.scope, true
}

// String implements fmt.Stringer for debugging output.
func (v Value) String() string {
	switch v.kind {
	case KindInt64:
		return fmt.Sprintf("int64(%d)", int64(v.num))
	case KindFloat64:
		return fmt.Sprintf("float64(%g)", math.Float64frombits(v.num))
	case KindString:
		return fmt.Sprintf("string(%q)", v.str)
	case KindBytes:
		return fmt.Sprintf("bytes(%d)", len(v.raw))
	case KindScope:
		return fmt.Sprintf("scope(%d keys)", v.scope.Len())
	default:
		return "invalid"
	}
}
