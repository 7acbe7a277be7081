package data

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
)

// Reserved top-level keys.
const (
	KeyDeriveFrom = "derive_from"
	KeyComponents = "components"
)

// Document is one parsed config file. It is never modified after parsing;
// resolution builds a new Resolved instead.
type Document struct {
	Name       string
	DeriveFrom string
	// Fields holds every top-level key except derive_from.
	Fields *Mapping
}

// Resolved is a document with its derive_from chain flattened.
type Resolved struct {
	Name   string
	Fields *Mapping
	// Chain lists the documents that contributed, leaf first.
	Chain []string
}

// ComponentSpec is one entry of a resolved `components` block.
type ComponentSpec struct {
	Type   string
	Params *Mapping
}

// Get returns a top-level field.
func (r *Resolved) Get(key string) (Value, bool) { return r.Fields.Get(key) }

// Lookup returns a field by dotted path.
func (r *Resolved) Lookup(path string) (Value, bool) { return r.Fields.Lookup(path) }

// Components lists the component blocks in merge order: parent-defined
// types first, then types only the descendants add.
func (r *Resolved) Components() []ComponentSpec {
	v, ok := r.Fields.Get(KeyComponents)
	if !ok {
		return nil
	}
	block, _ := v.AsMap()
	specs := make([]ComponentSpec, 0, block.Len())
	block.Each(func(name string, params Value) bool {
		m, ok := params.AsMap()
		if !ok {
			m = NewMapping()
		}
		specs = append(specs, ComponentSpec{Type: name, Params: m})
		return true
	})
	return specs
}

// WithOverrides returns a copy of r with overrides merged on top, used to
// specialise a config at spawn time (team, position, ...).
func (r *Resolved) WithOverrides(overrides *Mapping) *Resolved {
	if overrides.Len() == 0 {
		return r
	}
	chain := make([]string, len(r.Chain))
	copy(chain, r.Chain)
	return &Resolved{Name: r.Name, Fields: Merge(r.Fields, overrides), Chain: chain}
}

// Encode renders the resolved fields as canonical YAML.
func (r *Resolved) Encode() ([]byte, error) {
	return Encode(r.Fields)
}

// Fingerprint hashes the canonical encoding. Equal fingerprints mean
// byte-identical documents.
func (r *Resolved) Fingerprint() (uint64, error) {
	b, err := r.Encode()
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(b), nil
}

// Equal reports whether two resolved documents encode identically.
func (r *Resolved) Equal(o *Resolved) bool {
	a, errA := r.Encode()
	b, errB := o.Encode()
	return errA == nil && errB == nil && bytes.Equal(a, b)
}
