package components

import (
	"fmt"

	"github.com/lmcneill42/space-game/data"
)

// FieldKind is the declared semantic type of a parameter.
type FieldKind uint8

const (
	FieldScalar FieldKind = iota // any bool, number or string
	FieldNumber
	FieldInt
	FieldString
	FieldBool
	FieldSequence
	FieldMapping
	FieldPosition  // [x, y]
	FieldEntityRef // config name, built into a child entity
	FieldConfigRef // config name, resolved but not built
	FieldList      // sequence of mappings, each checked against Field.Item
)

func (k FieldKind) String() string {
	switch k {
	case FieldScalar:
		return "scalar"
	case FieldNumber:
		return "number"
	case FieldInt:
		return "integer"
	case FieldString:
		return "string"
	case FieldBool:
		return "bool"
	case FieldSequence:
		return "sequence"
	case FieldMapping:
		return "mapping"
	case FieldPosition:
		return "position"
	case FieldEntityRef:
		return "entity reference"
	case FieldConfigRef:
		return "config reference"
	case FieldList:
		return "list"
	}
	return "unknown"
}

// Field describes one parameter of a component type.
type Field struct {
	Name     string
	Kind     FieldKind
	Required bool
	// Item is the schema of each element of a FieldList.
	Item Schema
	// Owner names a sibling FieldEntityRef whose entity owns the entity
	// built for this field. Empty means the entity being assembled owns it.
	Owner string
}

// Schema is the static parameter table of a component type. Parameters not
// listed are passed through to the factory unchecked.
type Schema []Field

// Ref is one config reference found in a parameter block.
type Ref struct {
	// Path is the dotted parameter path, e.g. "turrets[1].weapon_config".
	Path string
	Kind FieldKind
	// Target is the referenced config name.
	Target string
	// Owner is the Path of the reference whose entity owns this one, or
	// empty for the entity being assembled.
	Owner string
}

// Validate checks block against the schema: required parameters are
// present and every declared parameter has the declared shape.
func (s Schema) Validate(block *data.Mapping) error {
	return s.validate("", block)
}

func (s Schema) validate(prefix string, block *data.Mapping) error {
	for _, f := range s {
		p := joinPath(prefix, f.Name)
		v, ok := block.Get(f.Name)
		if !ok || v.IsNull() {
			if f.Required {
				return invalid(p, "required parameter missing")
			}
			continue
		}
		if !f.Kind.accepts(v) {
			return invalid(p, "expected %s, got %s", f.Kind, v.Kind())
		}
		if f.Kind != FieldList {
			continue
		}
		items, _ := v.AsSeq()
		for i, item := range items {
			m, _ := item.AsMap()
			if err := f.Item.validate(indexPath(p, i), m); err != nil {
				return err
			}
		}
	}
	return nil
}

func (k FieldKind) accepts(v data.Value) bool {
	switch k {
	case FieldScalar:
		return v.IsScalar()
	case FieldNumber:
		_, ok := v.AsFloat()
		return ok
	case FieldInt:
		_, ok := v.AsInt()
		return ok
	case FieldString:
		_, ok := v.AsString()
		return ok
	case FieldBool:
		// 0 and 1 are accepted as booleans, as older configs use them
		if _, ok := v.AsBool(); ok {
			return true
		}
		_, ok := v.AsInt()
		return ok
	case FieldSequence:
		return v.Kind() == data.KindSeq
	case FieldMapping:
		return v.Kind() == data.KindMap
	case FieldPosition:
		items, ok := v.AsSeq()
		if !ok || len(items) != 2 {
			return false
		}
		for _, item := range items {
			if _, ok := item.AsFloat(); !ok {
				return false
			}
		}
		return true
	case FieldEntityRef, FieldConfigRef:
		s, ok := v.AsString()
		return ok && s != ""
	case FieldList:
		items, ok := v.AsSeq()
		if !ok {
			return false
		}
		for _, item := range items {
			if item.Kind() != data.KindMap {
				return false
			}
		}
		return true
	}
	return false
}

// References lists the entity and config references in block, in schema
// order. Within a list item an owning reference comes before the
// references it owns. block must already have passed Validate.
func (s Schema) References(block *data.Mapping) []Ref {
	var refs []Ref
	s.collect("", "", block, &refs)
	return refs
}

func (s Schema) collect(prefix, owner string, block *data.Mapping, refs *[]Ref) {
	for _, f := range s.ownersFirst() {
		p := joinPath(prefix, f.Name)
		v, ok := block.Get(f.Name)
		if !ok || v.IsNull() {
			continue
		}
		switch f.Kind {
		case FieldEntityRef, FieldConfigRef:
			target, _ := v.AsString()
			o := owner
			if f.Owner != "" {
				o = joinPath(prefix, f.Owner)
			}
			*refs = append(*refs, Ref{Path: p, Kind: f.Kind, Target: target, Owner: o})
		case FieldList:
			items, _ := v.AsSeq()
			for i, item := range items {
				m, _ := item.AsMap()
				f.Item.collect(indexPath(p, i), owner, m, refs)
			}
		}
	}
}

// ownersFirst orders fields so that any field named as an Owner comes
// before the fields it owns. Otherwise schema order is kept.
func (s Schema) ownersFirst() []Field {
	owners := make(map[string]bool)
	for _, f := range s {
		if f.Owner != "" {
			owners[f.Owner] = true
		}
	}
	if len(owners) == 0 {
		return s
	}
	out := make([]Field, 0, len(s))
	for _, f := range s {
		if owners[f.Name] {
			out = append(out, f)
		}
	}
	for _, f := range s {
		if !owners[f.Name] {
			out = append(out, f)
		}
	}
	return out
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func indexPath(p string, i int) string {
	return fmt.Sprintf("%s[%d]", p, i)
}
