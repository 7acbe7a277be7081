package systems

import (
	"github.com/lmcneill42/space-game/components"
	"github.com/lmcneill42/space-game/ecs"
)

// Event type constants
const (
	EventCollision ecs.EventType = "collision"
	EventDamage    ecs.EventType = "damage"
	EventDeath     ecs.EventType = "death"
	EventGameOver  ecs.EventType = "game_over"
	EventSpawn     ecs.EventType = "spawn"
	EventExplosion ecs.EventType = "explosion"
)

// CollisionEvent is emitted when two bodies touch
type CollisionEvent struct {
	EntityID1 ecs.EntityID // First entity involved in collision
	EntityID2 ecs.EntityID // Second entity involved in collision
}

// Type returns the event type
func (e CollisionEvent) Type() ecs.EventType {
	return EventCollision
}

// DamageEvent is emitted after damage has been applied
type DamageEvent struct {
	TargetID ecs.EntityID // Entity that was hit
	SourceID ecs.EntityID // Entity that dealt the damage (if any)
	Amount   float64      // Damage dealt before shields
	Absorbed float64      // Portion the shields took
}

// Type returns the event type
func (e DamageEvent) Type() ecs.EventType {
	return EventDamage
}

// DeathEvent is emitted when an entity dies
type DeathEvent struct {
	EntityID ecs.EntityID // Entity that died
	KillerID ecs.EntityID // Entity that caused the death (if any)
}

// Type returns the event type
func (e DeathEvent) Type() ecs.EventType {
	return EventDeath
}

// GameOverEvent is emitted when an entity with EndProgramOnDeath dies
type GameOverEvent struct {
	EntityID ecs.EntityID
}

// Type returns the event type
func (e GameOverEvent) Type() ecs.EventType {
	return EventGameOver
}

// SpawnEvent is emitted when a system spawns an entity from a config
// reference (fighters, explosions)
type SpawnEvent struct {
	EntityID ecs.EntityID // The spawned entity
	SourceID ecs.EntityID // Entity whose component caused the spawn
	Config   string
}

// Type returns the event type
func (e SpawnEvent) Type() ecs.EventType {
	return EventSpawn
}

// ExplosionEvent is emitted when an entity with ExplodesOnDeath dies
type ExplosionEvent struct {
	EntityID    ecs.EntityID
	Position    components.Vec2
	ShakeFactor float64
}

// Type returns the event type
func (e ExplosionEvent) Type() ecs.EventType {
	return EventExplosion
}
