package components

import (
	"github.com/lmcneill42/space-game/assets"
	"github.com/lmcneill42/space-game/data"
	"github.com/lmcneill42/space-game/ecs"
)

// BuildContext gives factories access back to the loading pipeline.
type BuildContext interface {
	// Entity is the entity the component will be attached to.
	Entity() *ecs.Entity
	Load(name string) (*data.Document, error)
	Resolve(doc *data.Document) (*data.Resolved, error)
	// Build assembles a child of Entity() within the current build; it is
	// committed only if the whole build succeeds.
	Build(name string) (*ecs.Entity, error)
	Animations() assets.Loader
}

// Params is a component's parameter block with its references already
// resolved. Entity and config references are keyed by parameter path.
type Params struct {
	block    *data.Mapping
	prefix   string
	entities map[string]*ecs.Entity
	configs  map[string]*data.Resolved
}

// NewParams wraps a parameter block with no resolved references.
func NewParams(block *data.Mapping) Params {
	return Params{block: block}
}

// WithEntity returns p with the entity built for the reference at path.
func (p Params) WithEntity(path string, e *ecs.Entity) Params {
	if p.entities == nil {
		p.entities = make(map[string]*ecs.Entity)
	}
	p.entities[path] = e
	return p
}

// WithConfig returns p with the document resolved for the reference at path.
func (p Params) WithConfig(path string, r *data.Resolved) Params {
	if p.configs == nil {
		p.configs = make(map[string]*data.Resolved)
	}
	p.configs[path] = r
	return p
}

// Raw returns the underlying block.
func (p Params) Raw() *data.Mapping { return p.block }

// Path returns the full parameter path of name.
func (p Params) Path(name string) string { return joinPath(p.prefix, name) }

// Has reports whether name is set to a non-null value.
func (p Params) Has(name string) bool {
	v, ok := p.block.Get(name)
	return ok && !v.IsNull()
}

// Value returns the raw value of name.
func (p Params) Value(name string) data.Value {
	v, _ := p.block.Get(name)
	return v
}

// Float returns name as a number, or def if unset.
func (p Params) Float(name string, def float64) float64 {
	if f, ok := p.Value(name).AsFloat(); ok {
		return f
	}
	return def
}

// Int returns name as an integer, or def if unset.
func (p Params) Int(name string, def int) int {
	if i, ok := p.Value(name).AsInt(); ok {
		return int(i)
	}
	return def
}

// Bool returns name as a boolean, or def if unset. Integers are truthy
// when non-zero.
func (p Params) Bool(name string, def bool) bool {
	v := p.Value(name)
	if b, ok := v.AsBool(); ok {
		return b
	}
	if i, ok := v.AsInt(); ok {
		return i != 0
	}
	return def
}

// String returns name as a string, or def if unset.
func (p Params) String(name string, def string) string {
	if s, ok := p.Value(name).AsString(); ok {
		return s
	}
	return def
}

// Position returns name as an [x, y] pair, or the zero vector if unset.
func (p Params) Position(name string) Vec2 {
	items, ok := p.Value(name).AsSeq()
	if !ok || len(items) != 2 {
		return Vec2{}
	}
	x, _ := items[0].AsFloat()
	y, _ := items[1].AsFloat()
	return Vec2{X: x, Y: y}
}

// Seq returns name as a sequence.
func (p Params) Seq(name string) []data.Value {
	items, _ := p.Value(name).AsSeq()
	return items
}

// Mapping returns name as a mapping, or nil.
func (p Params) Mapping(name string) *data.Mapping {
	m, _ := p.Value(name).AsMap()
	return m
}

// Entity returns the entity built for the entity reference name.
func (p Params) Entity(name string) *ecs.Entity {
	return p.entities[p.Path(name)]
}

// Config returns the document resolved for the config reference name.
func (p Params) Config(name string) *data.Resolved {
	return p.configs[p.Path(name)]
}

// Items returns the elements of a list parameter as Params sharing p's
// resolved references.
func (p Params) Items(name string) []Params {
	seq := p.Seq(name)
	out := make([]Params, 0, len(seq))
	for i, item := range seq {
		m, _ := item.AsMap()
		out = append(out, Params{
			block:    m,
			prefix:   indexPath(p.Path(name), i),
			entities: p.entities,
			configs:  p.configs,
		})
	}
	return out
}
