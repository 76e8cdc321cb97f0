// Package tagdict implements the container's tag dictionary: an ordered
// mapping from string keys to typed values with nested scopes.
//
// Keys are case-sensitive and unique within a scope, and insertion order is
// preserved so re-serialization is deterministic. Absence of a key is not an
// error; every getter distinguishes "not present" from "present with a zero
// value". Mutations bump a version counter that propagates to the root
// scope, which the owning container uses to decide whether the dictionary
// must be rewritten on flush.
package tagdict

// Dict is one dictionary scope. The zero value is not usable; create scopes
// with New or Dict.CreateScope.
type Dict struct {
	parent  *Dict
	keys    []string
	vals    map[string]Value
	version uint64
}

// New creates an empty root scope.
func New() *Dict {
	return &Dict{vals: make(map[string]Value)}
}

// Len returns the number of keys in this scope.
func (d *Dict) Len() int {
	return len(d.keys)
}

// Keys returns the scope's keys in insertion order. The slice is a copy.
func (d *Dict) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)

	return out
}

// Get returns the value stored under key; ok is false when the key is absent.
func (d *Dict) Get(key string) (Value, bool) {
	v, ok := d.vals[key]
	return v, ok
}

// Set stores a value under key. An existing key keeps its position in the
// insertion order; a new key is appended.
func (d *Dict) Set(key string, v Value) {
	if _, exists := d.vals[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.vals[key] = v
	d.bump()
}

// Delete removes key from the scope and reports whether it was present.
func (d *Dict) Delete(key string) bool {
	if _, exists := d.vals[key]; !exists {
		return false
	}
	delete(d.vals, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
	d.bump()

	return true
}

// Scope returns the nested scope stored under key; ok is false when the key
// is absent or holds a non-scope value.
func (d *Dict) Scope(key string) (*Dict, bool) {
	v, ok := d.vals[key]
	if !ok {
		return nil, false
	}

	return v.Scope()
}

// CreateScope returns the nested scope under key, creating it if needed. An
// existing non-scope value under the same key is replaced.
func (d *Dict) CreateScope(key string) *Dict {
	if sub, ok := d.Scope(key); ok {
		return sub
	}
	sub := &Dict{parent: d, vals: make(map[string]Value)}
	d.Set(key, Value{kind: KindScope, scope: sub})

	return sub
}

// Version returns the scope's mutation counter. Mutations in nested scopes
// propagate to their ancestors, so the root version changes whenever any
// part of the dictionary does.
func (d *Dict) Version() uint64 {
	return d.version
}

func (d *Dict) bump() {
	d.version++
	if d.parent != nil {
		d.parent.bump()
	}
}

// SetInt64 stores an integer value under key.
func (d *Dict) SetInt64(key string, v int64) { d.Set(key, Int64(v)) }

// SetFloat64 stores a float value under key.
func (d *Dict) SetFloat64(key string, v float64) { d.Set(key, Float64(v)) }

// SetString stores a string value under key.
func (d *Dict) SetString(key string, v string) { d.Set(key, String(v)) }

// SetBytes stores a raw byte value under key.
func (d *Dict) SetBytes(key string, v []byte) { d.Set(key, Bytes(v)) }

// GetInt64 returns the integer under key; ok is false when the key is absent
// or holds another kind.
func (d *Dict) GetInt64(key string) (int64, bool) {
	v, ok := d.Get(key)
	if !ok {
		return 0, false
	}

	return v.Int64()
}

// GetFloat64 returns the float under key; ok is false when the key is absent
// or holds another kind.
func (d *Dict) GetFloat64(key string) (float64, bool) {
	v, ok := d.Get(key)
	if !ok {
		return 0, false
	}

	return v.Float64()
}

// GetString returns the string under key; ok is false when the key is absent
// or holds another kind.
func (d *Dict) GetString(key string) (string, bool) {
	v, ok := d.Get(key)
	if !ok {
		return "", false
	}

	return v.Text()
}

// GetBytes returns the raw bytes under key; ok is false when the key is
// absent or holds another kind.
func (d *Dict) GetBytes(key string) ([]byte, bool) {
	v, ok := d.Get(key)
	if !ok {
		return nil, false
	}

	return v.Bytes()
}
