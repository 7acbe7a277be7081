package systems

import (
	"github.com/lmcneill42/space-game/components"
	"github.com/lmcneill42/space-game/ecs"
)

type bodyPair struct {
	a, b ecs.EntityID
}

// MovementSystem integrates bodies and reports collisions. A
// CollisionEvent is emitted when two collideable bodies start touching;
// pairs that stay in contact are not reported again.
type MovementSystem struct {
	touching map[bodyPair]bool
}

// NewMovementSystem creates a new movement system
func NewMovementSystem() *MovementSystem {
	return &MovementSystem{touching: make(map[bodyPair]bool)}
}

// Update moves every body by dt seconds, then checks for contacts
func (s *MovementSystem) Update(world *ecs.World, dt float64) {
	entities := world.GetEntitiesWithComponent(components.Physics)
	for _, entity := range entities {
		body, _ := ecs.Get[*components.PhysicsComponent](entity)
		if body.Mass > 0 {
			body.Velocity = body.Velocity.Add(body.Force.Scale(dt / body.Mass))
		}
		body.Position = body.Position.Add(body.Velocity.Scale(dt))
		body.Force = components.Vec2{}
	}

	var started []bodyPair
	touching := make(map[bodyPair]bool, len(s.touching))
	for i, a := range entities {
		ba, _ := ecs.Get[*components.PhysicsComponent](a)
		if !ba.IsCollideable {
			continue
		}
		for _, b := range entities[i+1:] {
			bb, _ := ecs.Get[*components.PhysicsComponent](b)
			if !bb.IsCollideable || related(a, b) {
				continue
			}
			reach := ba.Size + bb.Size
			if ba.Position.Sub(bb.Position).Len() >= reach {
				continue
			}
			pair := bodyPair{a.ID, b.ID}
			touching[pair] = true
			if !s.touching[pair] {
				started = append(started, pair)
			}
		}
	}
	s.touching = touching

	// Handlers may remove entities, so events go out after the sweep
	for _, pair := range started {
		world.EmitEvent(CollisionEvent{EntityID1: pair.a, EntityID2: pair.b})
	}
}

// related reports whether one entity directly owns the other
func related(a, b *ecs.Entity) bool {
	return a.Parent == b.ID || b.Parent == a.ID
}
