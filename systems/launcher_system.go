package systems

import (
	"github.com/sirupsen/logrus"

	"github.com/lmcneill42/space-game/components"
	"github.com/lmcneill42/space-game/data"
	"github.com/lmcneill42/space-game/ecs"
	"github.com/lmcneill42/space-game/logger"
	"github.com/lmcneill42/space-game/spawners"
)

// LauncherSystem launches fighters from carriers. Fighters join the
// carrier's team and take off along its heading.
type LauncherSystem struct {
	spawner Spawner
	log     logrus.FieldLogger
}

// NewLauncherSystem creates a new launcher system
func NewLauncherSystem(spawner Spawner) *LauncherSystem {
	return &LauncherSystem{spawner: spawner, log: logger.Get()}
}

// Update ticks every spawn timer and launches a wave when one expires
func (s *LauncherSystem) Update(world *ecs.World, dt float64) {
	for _, carrier := range world.GetEntitiesWithComponent(components.LaunchesFighters) {
		launcher, _ := ecs.Get[*components.LaunchesFightersComponent](carrier)
		if launcher.FighterConfig == nil || !launcher.SpawnTimer.Tick(dt) {
			continue
		}
		launcher.SpawnTimer.Reset()
		for i := 0; i < launcher.NumFighters; i++ {
			s.launch(world, carrier, launcher, i)
		}
	}
}

func (s *LauncherSystem) launch(world *ecs.World, carrier *ecs.Entity, launcher *components.LaunchesFightersComponent, i int) {
	var opts []spawners.BuildOption
	if team, ok := ecs.Get[*components.TeamComponent](carrier); ok && team.Team != "" {
		opts = append(opts, spawners.WithOverrides(teamOverride(team.Team)))
	}

	fighter, err := s.spawner.BuildResolved(launcher.FighterConfig, opts...)
	if err != nil {
		s.log.WithError(err).WithField("entity", carrier.ID).Warn("Fighter launch failed")
		return
	}
	placeAt(fighter, carrier)

	if body, ok := ecs.Get[*components.PhysicsComponent](fighter); ok {
		angle := body.Angle
		if launcher.NumFighters > 1 {
			angle += launcher.TakeoffSpread * (float64(i)/float64(launcher.NumFighters-1) - 0.5)
		}
		body.Velocity = components.FromAngle(angle).Scale(launcher.TakeoffSpeed)
	}
	world.EmitEvent(SpawnEvent{EntityID: fighter.ID, SourceID: carrier.ID, Config: launcher.FighterConfig.Name})
}

func teamOverride(team string) *data.Mapping {
	return data.NewMapping(data.KV(data.KeyComponents, data.Map(data.NewMapping(
		data.KV("Team", data.Map(data.NewMapping(data.KV("team", data.String(team))))),
	))))
}
