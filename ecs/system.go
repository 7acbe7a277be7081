package ecs

// System defines an interface for processing entities with specific components
type System interface {
	// Update is called each frame with the seconds elapsed since the last
	Update(world *World, dt float64)
}

// Initializer is implemented by systems that subscribe to events. The world
// calls Initialize once when the system is added, so handlers are in place
// before the first entity is committed. Initialize must be idempotent.
type Initializer interface {
	Initialize(world *World)
}
