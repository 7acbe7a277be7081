package ecs

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// EntityID is a unique identifier for an entity. IDs are never reused
// within a process; zero means "no entity".
type EntityID uint64

var nextEntityID uint64 = 0

// NewEntityID generates a new unique entity ID
func NewEntityID() EntityID {
	return EntityID(atomic.AddUint64(&nextEntityID, 1))
}

// ErrDuplicateComponent is returned when an entity already holds a component
// with the same ComponentID.
var ErrDuplicateComponent = errors.New("duplicate component")

// Entity represents a game object: a handle plus the components it owns,
// in the order they were attached.
type Entity struct {
	ID EntityID
	// Name of the config the entity was assembled from, if any
	Name string
	// Parent is the entity this one was built for (turret -> hull)
	Parent   EntityID
	Children []EntityID
	// Tags can be used for quick identification (e.g., "player", "enemy")
	Tags map[string]bool

	components []Component
	index      map[ComponentID]int
}

// NewEntity creates a new entity
func NewEntity(name string) *Entity {
	return &Entity{
		ID:    NewEntityID(),
		Name:  name,
		Tags:  make(map[string]bool),
		index: make(map[ComponentID]int),
	}
}

// AddTag adds a tag to the entity
func (e *Entity) AddTag(tag string) {
	e.Tags[tag] = true
}

// HasTag checks if the entity has a specific tag
func (e *Entity) HasTag(tag string) bool {
	return e.Tags[tag]
}

// RemoveTag removes a tag from the entity
func (e *Entity) RemoveTag(tag string) {
	delete(e.Tags, tag)
}

// AddComponent attaches c. An entity holds at most one component per
// ComponentID.
func (e *Entity) AddComponent(c Component) error {
	id := c.ComponentID()
	if _, exists := e.index[id]; exists {
		return fmt.Errorf("entity %d (%s): %w %T", e.ID, e.Name, ErrDuplicateComponent, c)
	}
	e.index[id] = len(e.components)
	e.components = append(e.components, c)
	return nil
}

// Component retrieves a component by ID
func (e *Entity) Component(id ComponentID) (Component, bool) {
	i, ok := e.index[id]
	if !ok {
		return nil, false
	}
	return e.components[i], true
}

// HasComponent checks if the entity has a specific component
func (e *Entity) HasComponent(id ComponentID) bool {
	_, ok := e.index[id]
	return ok
}

// Components returns the attached components in attach order.
func (e *Entity) Components() []Component {
	out := make([]Component, len(e.components))
	copy(out, e.components)
	return out
}

// AddChild records child as owned by e.
func (e *Entity) AddChild(child *Entity) {
	child.Parent = e.ID
	e.Children = append(e.Children, child.ID)
}

func (e *Entity) removeChild(id EntityID) {
	for i, c := range e.Children {
		if c == id {
			e.Children = append(e.Children[:i], e.Children[i+1:]...)
			return
		}
	}
}

func (e *Entity) String() string {
	return fmt.Sprintf("%s#%d", e.Name, e.ID)
}

// Get returns the first component of type T on e.
//
//	hp, ok := ecs.Get[*components.Hitpoints](entity)
func Get[T Component](e *Entity) (T, bool) {
	for _, c := range e.components {
		if t, ok := c.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}
