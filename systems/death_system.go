package systems

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lmcneill42/space-game/components"
	"github.com/lmcneill42/space-game/data"
	"github.com/lmcneill42/space-game/ecs"
	"github.com/lmcneill42/space-game/logger"
	"github.com/lmcneill42/space-game/spawners"
)

// Spawner builds entities from resolved configs. *spawners.Assembler
// implements it.
type Spawner interface {
	BuildResolved(res *data.Resolved, opts ...spawners.BuildOption) (*ecs.Entity, error)
}

// DeathSystem handles death events and their consequences
type DeathSystem struct {
	initialized bool
	spawner     Spawner
	messages    *MessageLog
	log         logrus.FieldLogger
	onGameOver  func()
}

// NewDeathSystem creates a new death system. spawner may be nil, in which
// case nothing explodes.
func NewDeathSystem(spawner Spawner, messages *MessageLog) *DeathSystem {
	return &DeathSystem{spawner: spawner, messages: messages, log: logger.Get()}
}

// SetGameOverHandler sets the callback run when an entity with
// EndProgramOnDeath dies
func (s *DeathSystem) SetGameOverHandler(fn func()) {
	s.onGameOver = fn
}

// Initialize sets up event listeners
func (s *DeathSystem) Initialize(world *ecs.World) {
	if s.initialized {
		return
	}

	// Subscribe to death events
	world.GetEventManager().Subscribe(EventDeath, func(event ecs.Event) {
		deathEvent := event.(DeathEvent)
		s.handleDeath(world, deathEvent)
	})

	s.initialized = true
}

// handleDeath spawns the entity's explosion, ends the game if needed and
// removes the entity along with everything mounted on it
func (s *DeathSystem) handleDeath(world *ecs.World, event DeathEvent) {
	entity := world.GetEntity(event.EntityID)
	if entity == nil {
		return
	}

	if explodes, ok := ecs.Get[*components.ExplodesOnDeathComponent](entity); ok {
		s.explode(world, entity, explodes)
	}

	removed := world.RemoveEntity(entity.ID)
	s.log.WithFields(logrus.Fields{
		"entity":  entity.ID,
		"config":  entity.Name,
		"removed": len(removed),
	}).Debug("Entity died")

	if _, ok := ecs.Get[*components.EndProgramOnDeathComponent](entity); ok {
		if s.messages != nil {
			s.messages.AddAlert("Game Over!")
		}
		world.EmitEvent(GameOverEvent{EntityID: entity.ID})
		if s.onGameOver != nil {
			s.onGameOver()
		}
	}
}

func (s *DeathSystem) explode(world *ecs.World, entity *ecs.Entity, explodes *components.ExplodesOnDeathComponent) {
	blast := ExplosionEvent{EntityID: entity.ID, ShakeFactor: explodes.ShakeFactor}
	if body, ok := ecs.Get[*components.PhysicsComponent](entity); ok {
		blast.Position = body.Position
	}
	world.EmitEvent(blast)

	if s.spawner == nil || explodes.ExplosionConfig == nil {
		return
	}
	explosion, err := s.spawner.BuildResolved(explodes.ExplosionConfig)
	if err != nil {
		s.log.WithError(err).WithField("entity", entity.ID).Warn("Explosion failed to spawn")
		return
	}
	placeAt(explosion, entity)
	world.EmitEvent(SpawnEvent{EntityID: explosion.ID, SourceID: entity.ID, Config: explodes.ExplosionConfig.Name})
	if s.messages != nil {
		s.messages.AddTyped(fmt.Sprintf("%s exploded", entity), MessageTypeCombat)
	}
}

// placeAt moves e's body to where origin's body is.
func placeAt(e, origin *ecs.Entity) {
	from, ok := ecs.Get[*components.PhysicsComponent](origin)
	if !ok {
		return
	}
	if to, ok := ecs.Get[*components.PhysicsComponent](e); ok {
		to.Position = from.Position
		to.Angle = from.Angle
	}
}

// Update registers with event system if not already initialized
func (s *DeathSystem) Update(world *ecs.World, dt float64) {
	// Ensure system is initialized with event handlers
	if !s.initialized {
		s.Initialize(world)
	}
}
