package components

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lmcneill42/space-game/data"
	"github.com/lmcneill42/space-game/ecs"
)

// Factory builds a fresh component instance from validated params. It must
// not cache or share instances between calls.
type Factory func(p Params, ctx BuildContext) (ecs.Component, error)

// Spec is everything the registry knows about one component type.
type Spec struct {
	ID      ecs.ComponentID
	Schema  Schema
	Factory Factory
}

// Registry maps component type names, as written in configs, to specs.
type Registry struct {
	mu      sync.RWMutex
	specs   map[string]Spec
	aliases map[string]string
	folded  map[string]string // Lowercased name or alias -> first name registered
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		specs:   make(map[string]Spec),
		aliases: make(map[string]string),
		folded:  make(map[string]string),
	}
}

// Register adds or replaces the spec for typeName.
func (r *Registry) Register(typeName string, spec Spec) {
	if spec.Factory == nil {
		panic(fmt.Sprintf("components: nil factory for %q", typeName))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs[typeName] = spec
	r.fold(typeName)
}

// Alias makes alias resolve to typeName, e.g. the fully qualified names
// older configs use ("src.behaviours.Hitpoints").
func (r *Registry) Alias(alias, typeName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[alias] = typeName
	r.fold(alias)
}

// fold indexes name for case-insensitive lookup. When two names differ
// only by case the first one registered wins.
func (r *Registry) fold(name string) {
	lower := strings.ToLower(name)
	if _, ok := r.folded[lower]; !ok {
		r.folded[lower] = name
	}
}

// Lookup returns the spec for a type name. The lookup is case-insensitive
// when there is no exact match.
func (r *Registry) Lookup(typeName string) (Spec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Try exact match first
	if spec, ok := r.lookup(typeName); ok {
		return spec, nil
	}

	// Try case-insensitive match
	if name, ok := r.folded[strings.ToLower(typeName)]; ok {
		if spec, ok := r.lookup(name); ok {
			return spec, nil
		}
	}

	return Spec{}, &UnknownComponentTypeError{Type: typeName}
}

func (r *Registry) lookup(name string) (Spec, bool) {
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	spec, ok := r.specs[name]
	return spec, ok
}

// Names returns the registered type names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate looks up typeName and checks block against its schema.
func (r *Registry) Validate(typeName string, block *data.Mapping) (Spec, error) {
	spec, err := r.Lookup(typeName)
	if err != nil {
		return Spec{}, err
	}
	if err := spec.Schema.Validate(block); err != nil {
		return Spec{}, withType(typeName, err)
	}
	return spec, nil
}

// Construct validates params against the type's schema and runs its
// factory.
func (r *Registry) Construct(typeName string, p Params, ctx BuildContext) (ecs.Component, error) {
	spec, err := r.Validate(typeName, p.Raw())
	if err != nil {
		return nil, err
	}

	c, err := spec.Factory(p, ctx)
	if err != nil {
		return nil, withType(typeName, err)
	}
	if c == nil {
		return nil, &ComponentConstructionError{Type: typeName, Reason: "factory returned nil"}
	}
	if c.ComponentID() != spec.ID {
		return nil, &ComponentConstructionError{
			Type:   typeName,
			Reason: fmt.Sprintf("factory returned %T with component ID %d, want %d", c, c.ComponentID(), spec.ID),
		}
	}
	return c, nil
}

func withType(typeName string, err error) error {
	if cerr, ok := err.(*ComponentConstructionError); ok {
		if cerr.Type == "" {
			cerr.Type = typeName
		}
		return cerr
	}
	return &ComponentConstructionError{Type: typeName, Err: err}
}
