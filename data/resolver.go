package data

import (
	"fmt"
	"slices"
)

// DefaultMaxDepth bounds derive_from chains and nested entity references.
const DefaultMaxDepth = 64

// Resolver flattens derive_from chains.
type Resolver struct {
	loader   Loader
	maxDepth int
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithMaxDepth sets the longest derive_from chain accepted.
func WithMaxDepth(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.maxDepth = n
		}
	}
}

// NewResolver creates a resolver that loads parents through loader.
func NewResolver(loader Loader, opts ...ResolverOption) *Resolver {
	r := &Resolver{loader: loader, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MaxDepth returns the configured chain limit.
func (r *Resolver) MaxDepth() int { return r.maxDepth }

// Loader returns the loader parents are read through.
func (r *Resolver) Loader() Loader { return r.loader }

// ResolveName loads and resolves a document.
func (r *Resolver) ResolveName(name string) (*Resolved, error) {
	doc, err := r.loader.Load(name)
	if err != nil {
		return nil, err
	}
	return r.Resolve(doc)
}

// Resolve flattens doc's derive_from chain. A document without a parent
// resolves to its own fields; otherwise the resolved parent is merged
// under doc with doc's values taking precedence.
func (r *Resolver) Resolve(doc *Document) (*Resolved, error) {
	return r.resolve(doc, nil)
}

func (r *Resolver) resolve(doc *Document, stack []string) (*Resolved, error) {
	stack = append(slices.Clip(stack), doc.Name)
	if len(stack) > r.maxDepth {
		return nil, &ResolutionDepthExceededError{Limit: r.maxDepth, Chain: stack}
	}

	if doc.DeriveFrom == "" {
		return &Resolved{Name: doc.Name, Fields: doc.Fields, Chain: []string{doc.Name}}, nil
	}

	parentName, err := NormalizeName(doc.DeriveFrom)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", doc.Name, &NotFoundError{Name: doc.DeriveFrom, Err: err})
	}
	if slices.Contains(stack, parentName) {
		return nil, &CyclicInheritanceError{Chain: append(slices.Clip(stack), parentName)}
	}

	parentDoc, err := r.loader.Load(parentName)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: parent: %w", doc.Name, err)
	}
	parent, err := r.resolve(parentDoc, stack)
	if err != nil {
		return nil, err
	}

	return &Resolved{
		Name:   doc.Name,
		Fields: Merge(parent.Fields, doc.Fields),
		Chain:  append([]string{doc.Name}, parent.Chain...),
	}, nil
}
