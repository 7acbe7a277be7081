package spawners

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/lmcneill42/space-game/assets"
	"github.com/lmcneill42/space-game/components"
	"github.com/lmcneill42/space-game/data"
	"github.com/lmcneill42/space-game/ecs"
	"github.com/lmcneill42/space-game/logger"
	"github.com/lmcneill42/space-game/metrics"
)

// Assembler builds live entities from named configs
type Assembler struct {
	world    *ecs.World
	store    data.Loader
	resolver *data.Resolver
	registry *components.Registry
	anims    assets.Loader
	log      logrus.FieldLogger
	maxDepth int
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) AssemblerOption {
	return func(a *Assembler) { a.log = l }
}

// WithAnimations sets the animation loader handed to factories. The default
// accepts every name.
func WithAnimations(l assets.Loader) AssemblerOption {
	return func(a *Assembler) { a.anims = l }
}

// WithNestingLimit caps how deep entity references may nest. The default
// is the resolver's depth limit.
func WithNestingLimit(n int) AssemblerOption {
	return func(a *Assembler) {
		if n > 0 {
			a.maxDepth = n
		}
	}
}

// NewAssembler creates an entity assembler. Built entities are committed
// to world.
func NewAssembler(world *ecs.World, store data.Loader, resolver *data.Resolver, registry *components.Registry, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		world:    world,
		store:    store,
		resolver: resolver,
		registry: registry,
		anims:    assets.NewCatalog(nil),
		log:      logger.Get(),
		maxDepth: resolver.MaxDepth(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type buildOptions struct {
	overrides *data.Mapping
	parent    ecs.EntityID
	tags      []string
}

// BuildOption specialises a single build.
type BuildOption func(*buildOptions)

// WithOverrides merges m over the resolved config before assembly, the
// way a spawner sets team or position on a shared config.
func WithOverrides(m *data.Mapping) BuildOption {
	return func(o *buildOptions) { o.overrides = data.Merge(o.overrides, m) }
}

// WithParent makes the built entity a child of an existing entity.
func WithParent(id ecs.EntityID) BuildOption {
	return func(o *buildOptions) { o.parent = id }
}

// WithTags tags the built entity.
func WithTags(tags ...string) BuildOption {
	return func(o *buildOptions) { o.tags = append(o.tags, tags...) }
}

// Build loads and resolves name, then assembles and commits the entity and
// every entity its components reference. On error nothing is committed.
func (a *Assembler) Build(name string, opts ...BuildOption) (*ecs.Entity, error) {
	res, err := a.resolver.ResolveName(name)
	if err != nil {
		return nil, a.failed(name, err)
	}
	return a.BuildResolved(res, opts...)
}

// BuildResolved assembles an already resolved config, e.g. a bullet_config
// a weapon holds.
func (a *Assembler) BuildResolved(res *data.Resolved, opts ...BuildOption) (*ecs.Entity, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}
	res = res.WithOverrides(o.overrides)

	var parent *ecs.Entity
	if o.parent != 0 {
		if parent = a.world.GetEntity(o.parent); parent == nil {
			return nil, a.failed(res.Name, fmt.Errorf("parent entity %d not in world", o.parent))
		}
	}

	s := &session{a: a}
	root, err := s.build(res, nil, []string{res.Name})
	if err != nil {
		return nil, a.failed(res.Name, err)
	}

	for _, tag := range o.tags {
		root.AddTag(tag)
	}
	if parent != nil {
		parent.AddChild(root)
	}
	a.world.Commit(s.staged...)
	metrics.BuildSucceeded()

	a.log.WithFields(logrus.Fields{
		"config":   res.Name,
		"entity":   root.ID,
		"entities": len(s.staged),
	}).Debug("Built entity")
	return root, nil
}

func (a *Assembler) failed(name string, err error) error {
	metrics.BuildFailed()
	a.log.WithError(err).WithField("config", name).Warn("Entity build failed")
	return fmt.Errorf("build %s: %w", name, err)
}

// session is one top-level build. Every entity it creates is staged until
// the whole tree has been assembled.
type session struct {
	a      *Assembler
	staged []*ecs.Entity
}

// build assembles res into a new entity owned by owner (nil for the
// top-level entity). chain holds the config names from the top-level
// entity down to res.
func (s *session) build(res *data.Resolved, owner *ecs.Entity, chain []string) (*ecs.Entity, error) {
	e := ecs.NewEntity(res.Name)
	if owner != nil {
		owner.AddChild(e)
	}
	s.staged = append(s.staged, e)

	// Components are built in merge order: parent-defined types first
	for _, spec := range res.Components() {
		c, err := s.construct(e, spec, chain)
		if err != nil {
			return nil, err
		}
		if err := e.AddComponent(c); err != nil {
			return nil, &components.ComponentConstructionError{Type: spec.Type, Err: err}
		}
	}
	return e, nil
}

// construct resolves the references in one component block, building any
// referenced entities first, then runs the component's factory.
func (s *session) construct(e *ecs.Entity, spec data.ComponentSpec, chain []string) (ecs.Component, error) {
	cs, err := s.a.registry.Validate(spec.Type, spec.Params)
	if err != nil {
		return nil, err
	}

	params := components.NewParams(spec.Params)
	built := make(map[string]*ecs.Entity)
	for _, ref := range cs.Schema.References(spec.Params) {
		field := spec.Type + "." + ref.Path
		switch ref.Kind {
		case components.FieldEntityRef:
			owner := e
			if ref.Owner != "" {
				owner = built[ref.Owner]
			}
			child, err := s.nested(ref.Target, field, owner, chain)
			if err != nil {
				return nil, err
			}
			built[ref.Path] = child
			params = params.WithEntity(ref.Path, child)

		case components.FieldConfigRef:
			res, err := s.a.resolver.ResolveName(ref.Target)
			if err != nil {
				return nil, &NestedBuildError{Chain: extend(chain, ref.Target), Field: field, Err: err}
			}
			params = params.WithConfig(ref.Path, res)
		}
	}

	return s.a.registry.Construct(spec.Type, params, &buildContext{s: s, entity: e, chain: chain})
}

// nested builds the entity referenced by target as a child of owner.
func (s *session) nested(target, field string, owner *ecs.Entity, chain []string) (*ecs.Entity, error) {
	name, err := data.NormalizeName(target)
	if err != nil {
		name = target
	}
	next := extend(chain, name)

	if slices.Contains(chain, name) {
		return nil, &NestedBuildError{Chain: next, Field: field, Err: &CyclicReferenceError{Chain: next}}
	}
	if len(next) > s.a.maxDepth {
		return nil, &NestedBuildError{Chain: next, Field: field, Err: &data.ResolutionDepthExceededError{Limit: s.a.maxDepth, Chain: next}}
	}

	res, err := s.a.resolver.ResolveName(name)
	if err != nil {
		return nil, &NestedBuildError{Chain: next, Field: field, Err: err}
	}
	child, err := s.build(res, owner, next)
	if err != nil {
		var nested *NestedBuildError
		if errors.As(err, &nested) {
			return nil, err
		}
		return nil, &NestedBuildError{Chain: next, Field: field, Err: err}
	}
	return child, nil
}

func extend(chain []string, name string) []string {
	return append(slices.Clip(chain), name)
}

// buildContext is the components.BuildContext for one component.
type buildContext struct {
	s      *session
	entity *ecs.Entity
	chain  []string
}

func (c *buildContext) Entity() *ecs.Entity { return c.entity }

func (c *buildContext) Load(name string) (*data.Document, error) { return c.s.a.store.Load(name) }

func (c *buildContext) Resolve(doc *data.Document) (*data.Resolved, error) {
	return c.s.a.resolver.Resolve(doc)
}

func (c *buildContext) Build(name string) (*ecs.Entity, error) {
	return c.s.nested(name, "", c.entity, c.chain)
}

func (c *buildContext) Animations() assets.Loader { return c.s.a.anims }
