package ecs

// ComponentID is a unique identifier for component types
type ComponentID uint

// Component is the base interface for all components. Each concrete type
// reports a fixed ID, which is the capability it is looked up by.
type Component interface {
	ComponentID() ComponentID
}
