package systems

import (
	"math"

	"github.com/lmcneill42/space-game/components"
	"github.com/lmcneill42/space-game/ecs"
)

// TrackingSystem picks a target for every entity with Tracking: the
// closest living body on another team. Targets are kept until they die.
type TrackingSystem struct{}

// NewTrackingSystem creates a new tracking system
func NewTrackingSystem() *TrackingSystem {
	return &TrackingSystem{}
}

// Update drops dead targets and finds new ones
func (s *TrackingSystem) Update(world *ecs.World, dt float64) {
	candidates := world.GetEntitiesWithComponent(components.Hitpoints)
	for _, entity := range world.GetEntitiesWithComponent(components.Tracking) {
		tracking, _ := ecs.Get[*components.TrackingComponent](entity)
		if tracking.Tracked != 0 && world.GetEntity(tracking.Tracked) == nil {
			tracking.Tracked = 0
		}
		if tracking.Tracked != 0 || tracking.TrackType != "team" {
			continue
		}
		body := findBody(world, entity)
		if body == nil {
			continue
		}
		tracking.Tracked = closestHostile(entity, body.Position, candidates)
	}
}

func closestHostile(self *ecs.Entity, from components.Vec2, candidates []*ecs.Entity) ecs.EntityID {
	team, ok := ecs.Get[*components.TeamComponent](self)
	if !ok || team.Team == "" {
		return 0
	}

	var best ecs.EntityID
	bestDist := math.Inf(1)
	for _, other := range candidates {
		otherTeam, ok := ecs.Get[*components.TeamComponent](other)
		if !ok || otherTeam.Team == "" || otherTeam.Team == team.Team {
			continue
		}
		body, ok := ecs.Get[*components.PhysicsComponent](other)
		if !ok {
			continue
		}
		if d := body.Position.Sub(from).Len(); d < bestDist {
			best, bestDist = other.ID, d
		}
	}
	return best
}

// FollowsTrackedSystem steers entities towards their tracked target,
// closing to their desired distance
type FollowsTrackedSystem struct{}

// NewFollowsTrackedSystem creates a new follow system
func NewFollowsTrackedSystem() *FollowsTrackedSystem {
	return &FollowsTrackedSystem{}
}

// Update applies each follower's steering for this step
func (s *FollowsTrackedSystem) Update(world *ecs.World, dt float64) {
	for _, entity := range world.GetEntitiesWithComponent(components.FollowsTracked) {
		follows, _ := ecs.Get[*components.FollowsTrackedComponent](entity)
		tracking, ok := ecs.Get[*components.TrackingComponent](entity)
		if !ok || tracking.Tracked == 0 {
			continue
		}
		this, ok := ecs.Get[*components.PhysicsComponent](entity)
		if !ok {
			continue
		}
		target := world.GetEntity(tracking.Tracked)
		if target == nil {
			continue
		}
		that, ok := ecs.Get[*components.PhysicsComponent](target)
		if !ok {
			continue
		}

		displacement := that.Position.Sub(this.Position)
		if follows.DesiredDistance <= 0 {
			continue
		}
		this.Angle = displacement.Angle()

		switch follows.FollowType {
		case "direct":
			// Fly straight at the target, stopping at the desired distance
			if displacement.Len() <= follows.DesiredDistance {
				this.Velocity = that.Velocity
				continue
			}
			this.Velocity = displacement.Normalized().Scale(follows.Acceleration)

		default:
			// Blend matching the target's velocity with closing the
			// distance, the further away the more we close
			rvel := that.Velocity.Sub(this.Velocity)
			distality := 1 - math.Pow(2, -displacement.Len()/follows.DesiredDistance)
			direction := rvel.Normalized().Scale(1 - distality).Add(displacement.Normalized().Scale(distality))
			frac := math.Min(math.Max(displacement.Len()/follows.DesiredDistance, rvel.Len()/200), 1)
			this.ApplyForce(direction.Scale(frac * this.Mass * follows.Acceleration))
		}
	}
}

// findBody returns the entity's body or, for bodiless entities such as
// weapons, the nearest ancestor's
func findBody(world *ecs.World, e *ecs.Entity) *components.PhysicsComponent {
	for e != nil {
		if body, ok := ecs.Get[*components.PhysicsComponent](e); ok {
			return body
		}
		if e.Parent == 0 {
			return nil
		}
		e = world.GetEntity(e.Parent)
	}
	return nil
}
