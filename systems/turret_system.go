package systems

import (
	"github.com/lmcneill42/space-game/components"
	"github.com/lmcneill42/space-game/ecs"
)

// TurretSystem keeps turret housings at their mount point on the hull,
// turning with it
type TurretSystem struct{}

// NewTurretSystem creates a new turret system
func NewTurretSystem() *TurretSystem {
	return &TurretSystem{}
}

// Update moves every mounted turret to its place on its hull
func (s *TurretSystem) Update(world *ecs.World, dt float64) {
	for _, hull := range world.GetEntitiesWithComponent(components.Turrets) {
		turrets, _ := ecs.Get[*components.TurretsComponent](hull)
		hullBody, ok := ecs.Get[*components.PhysicsComponent](hull)
		if !ok {
			continue
		}
		for _, mount := range turrets.Mounts {
			housing := world.GetEntity(mount.Turret)
			if housing == nil {
				// Shot off
				continue
			}
			body, ok := ecs.Get[*components.PhysicsComponent](housing)
			if !ok {
				continue
			}
			body.Position = hullBody.Position.Add(mount.Position.Rotated(hullBody.Angle))
			body.Velocity = hullBody.Velocity
		}
	}
}
