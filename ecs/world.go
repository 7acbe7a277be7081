package ecs

import (
	"sort"
	"sync"
)

// World holds every live entity, the systems that process them and the
// event manager they talk through. It is safe for concurrent use; entity
// and component state itself is not synchronised.
type World struct {
	mu       sync.RWMutex
	entities map[EntityID]*Entity
	// Systems slice to store all systems
	systems []System
	// Tag-based entity lookup for quick access
	entityTags map[string]map[EntityID]bool
	// Event manager for system communication
	eventManager *EventManager
}

// NewWorld creates a new ECS world
func NewWorld() *World {
	return &World{
		entities:     make(map[EntityID]*Entity),
		systems:      make([]System, 0),
		entityTags:   make(map[string]map[EntityID]bool),
		eventManager: NewEventManager(),
	}
}

// Commit adds fully built entities to the world and emits an
// EntityCreatedEvent for each, in order.
func (w *World) Commit(entities ...*Entity) {
	w.mu.Lock()
	for _, entity := range entities {
		w.entities[entity.ID] = entity
		for tag := range entity.Tags {
			w.indexTag(entity.ID, tag)
		}
	}
	w.mu.Unlock()

	for _, entity := range entities {
		w.eventManager.Emit(EntityCreatedEvent{Entity: entity})
	}
}

// RemoveEntity removes an entity and, recursively, the entities it owns.
// It returns the removed entities, parent first.
func (w *World) RemoveEntity(entityID EntityID) []*Entity {
	w.mu.Lock()
	entity, exists := w.entities[entityID]
	if !exists {
		w.mu.Unlock()
		return nil
	}
	if parent, ok := w.entities[entity.Parent]; ok {
		parent.removeChild(entityID)
	}

	var removed []*Entity
	var remove func(e *Entity)
	remove = func(e *Entity) {
		// Remove entity from tag lookups
		for tag := range e.Tags {
			delete(w.entityTags[tag], e.ID)
			if len(w.entityTags[tag]) == 0 {
				delete(w.entityTags, tag)
			}
		}
		delete(w.entities, e.ID)
		removed = append(removed, e)
		for _, childID := range e.Children {
			if child, ok := w.entities[childID]; ok {
				remove(child)
			}
		}
	}
	remove(entity)
	w.mu.Unlock()

	for _, e := range removed {
		w.eventManager.Emit(EntityRemovedEvent{Entity: e})
	}
	return removed
}

// AddSystem adds a system to the world
func (w *World) AddSystem(system System) {
	w.mu.Lock()
	w.systems = append(w.systems, system)
	w.mu.Unlock()

	// Outside the lock: Initialize subscribes through the event manager
	if initializer, ok := system.(Initializer); ok {
		initializer.Initialize(w)
	}
}

// Update updates all systems in the world, in the order they were added
func (w *World) Update(dt float64) {
	for _, system := range w.GetSystems() {
		system.Update(w, dt)
	}
}

// GetSystems returns all systems registered in the world
func (w *World) GetSystems() []System {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]System, len(w.systems))
	copy(out, w.systems)
	return out
}

// TagEntity adds a tag to an entity and updates the tag lookup
func (w *World) TagEntity(entityID EntityID, tag string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	entity, exists := w.entities[entityID]
	if !exists {
		return
	}
	entity.AddTag(tag)
	w.indexTag(entityID, tag)
}

func (w *World) indexTag(entityID EntityID, tag string) {
	if _, exists := w.entityTags[tag]; !exists {
		w.entityTags[tag] = make(map[EntityID]bool)
	}
	w.entityTags[tag][entityID] = true
}

// GetEntitiesWithTag returns all entities with a specific tag, by ID
func (w *World) GetEntitiesWithTag(tag string) []*Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()

	entities := make([]*Entity, 0)
	for entityID := range w.entityTags[tag] {
		if entity, ok := w.entities[entityID]; ok {
			entities = append(entities, entity)
		}
	}
	return sortByID(entities)
}

// GetAllEntities returns a slice of all entities in the world, by ID
func (w *World) GetAllEntities() []*Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()

	entities := make([]*Entity, 0, len(w.entities))
	for _, entity := range w.entities {
		entities = append(entities, entity)
	}
	return sortByID(entities)
}

// GetEntitiesWithComponent returns all entities that have a specific component
func (w *World) GetEntitiesWithComponent(componentID ComponentID) []*Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()

	entities := make([]*Entity, 0)
	for _, entity := range w.entities {
		if entity.HasComponent(componentID) {
			entities = append(entities, entity)
		}
	}
	return sortByID(entities)
}

// GetEntity returns an entity by its ID
func (w *World) GetEntity(entityID EntityID) *Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.entities[entityID]
}

// Len returns the number of live entities.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entities)
}

// GetEventManager returns the world's event manager
func (w *World) GetEventManager() *EventManager {
	return w.eventManager
}

// EmitEvent is a convenience method to emit an event
func (w *World) EmitEvent(event Event) {
	w.eventManager.Emit(event)
}

func sortByID(entities []*Entity) []*Entity {
	sort.Slice(entities, func(i, j int) bool { return entities[i].ID < entities[j].ID })
	return entities
}
