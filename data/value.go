package data

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which member of the Value union is set.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSeq
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSeq:
		return "sequence"
	case KindMap:
		return "mapping"
	}
	return "unknown"
}

// Value is a config value: a scalar, a sequence or a mapping.
// Values are immutable; merged documents share unchanged subtrees with
// their inputs.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	seq  []Value
	m    *Mapping
}

func Null() Value { return Value{} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func Int(i int64) Value { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func String(s string) Value { return Value{kind: KindString, s: s} }
func Map(m *Mapping) Value { return Value{kind: KindMap, m: m} }
func Seq(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindSeq, seq: cp}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsScalar reports whether v is a bool, number or string.
func (v Value) IsScalar() bool {
	switch v.kind {
	case KindBool, KindInt, KindFloat, KindString:
		return true
	}
	return false
}

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns integers, and floats with no fractional part.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		if v.f == float64(int64(v.f)) {
			return int64(v.f), true
		}
	}
	return 0, false
}

// AsFloat accepts both integer and float values.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsSeq returns a copy of the sequence items.
func (v Value) AsSeq() ([]Value, bool) {
	if v.kind != KindSeq {
		return nil, false
	}
	cp := make([]Value, len(v.seq))
	copy(cp, v.seq)
	return cp, true
}

func (v Value) AsMap() (*Mapping, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.m, true
}

// Equal compares two values structurally. Mapping key order is significant.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindSeq:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return v.m.Equal(o.m)
	}
	return false
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.s)
	case KindSeq:
		parts := make([]string, len(v.seq))
		for i, item := range v.seq {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		return v.m.String()
	}
	return fmt.Sprintf("<%d>", v.kind)
}

// Pair is one key/value entry used to build a Mapping.
type Pair struct {
	Key   string
	Value Value
}

// KV is shorthand for building mappings in code and tests.
func KV(key string, v Value) Pair { return Pair{Key: key, Value: v} }

// Mapping is a string-keyed mapping that remembers insertion order.
// The zero value and a nil *Mapping are both empty.
type Mapping struct {
	keys []string
	vals map[string]Value
}

// NewMapping builds a mapping from pairs. A repeated key keeps its first
// position and its last value.
func NewMapping(pairs ...Pair) *Mapping {
	m := &Mapping{vals: make(map[string]Value, len(pairs))}
	for _, p := range pairs {
		m.set(p.Key, p.Value)
	}
	return m
}

func (m *Mapping) set(key string, v Value) {
	if m.vals == nil {
		m.vals = make(map[string]Value)
	}
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	cp := make([]string, len(m.keys))
	copy(cp, m.keys)
	return cp
}

func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.vals[key]
	return v, ok
}

func (m *Mapping) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Lookup follows a dotted path through nested mappings, e.g.
// "components.Physics.mass".
func (m *Mapping) Lookup(path string) (Value, bool) {
	cur := m
	parts := strings.Split(path, ".")
	for i, part := range parts {
		v, ok := cur.Get(part)
		if !ok {
			return Value{}, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		next, ok := v.AsMap()
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return Value{}, false
}

// Each calls fn for every entry in insertion order until fn returns false.
func (m *Mapping) Each(fn func(key string, v Value) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.vals[k]) {
			return
		}
	}
}

// Without returns a copy of m minus the given keys.
func (m *Mapping) Without(keys ...string) *Mapping {
	out := NewMapping()
	m.Each(func(k string, v Value) bool {
		for _, drop := range keys {
			if k == drop {
				return true
			}
		}
		out.set(k, v)
		return true
	})
	return out
}

func (m *Mapping) Equal(o *Mapping) bool {
	if m.Len() != o.Len() {
		return false
	}
	for i, k := range m.Keys() {
		if o.keys[i] != k {
			return false
		}
		if !m.vals[k].Equal(o.vals[k]) {
			return false
		}
	}
	return true
}

func (m *Mapping) String() string {
	parts := make([]string, 0, m.Len())
	m.Each(func(k string, v Value) bool {
		parts = append(parts, k+": "+v.String())
		return true
	})
	return "{" + strings.Join(parts, ", ") + "}"
}
