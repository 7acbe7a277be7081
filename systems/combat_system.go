package systems

import (
	"fmt"

	"github.com/lmcneill42/space-game/components"
	"github.com/lmcneill42/space-game/ecs"
)

// CombatSystem resolves damage: shields first, then hitpoints
type CombatSystem struct {
	initialized bool
	messages    *MessageLog
}

// NewCombatSystem creates a new combat system
func NewCombatSystem(messages *MessageLog) *CombatSystem {
	return &CombatSystem{messages: messages}
}

// Initialize sets up event listeners
func (s *CombatSystem) Initialize(world *ecs.World) {
	if s.initialized {
		return
	}

	// Subscribe to collision events
	world.GetEventManager().Subscribe(EventCollision, func(event ecs.Event) {
		collisionEvent := event.(CollisionEvent)
		s.handleCollision(world, collisionEvent)
	})

	s.initialized = true
}

// handleCollision lets each side with DamageOnContact damage the other,
// unless both are on the same team
func (s *CombatSystem) handleCollision(world *ecs.World, event CollisionEvent) {
	a := world.GetEntity(event.EntityID1)
	b := world.GetEntity(event.EntityID2)
	if a == nil || b == nil || sameTeam(a, b) {
		return
	}

	s.contact(world, a, b)
	s.contact(world, b, a)
}

// contact lets source damage target. Sources without hitpoints of their
// own (bullets) are used up by the hit.
func (s *CombatSystem) contact(world *ecs.World, source, target *ecs.Entity) {
	dmg, ok := ecs.Get[*components.DamageOnContactComponent](source)
	if !ok || world.GetEntity(source.ID) == nil || world.GetEntity(target.ID) == nil {
		return
	}
	s.ApplyDamage(world, target.ID, source.ID, dmg.Damage)
	if !source.HasComponent(components.Hitpoints) {
		world.EmitEvent(DeathEvent{EntityID: source.ID, KillerID: target.ID})
	}
}

// Update registers with event system if not already initialized
func (s *CombatSystem) Update(world *ecs.World, dt float64) {
	// Ensure system is initialized with event handlers
	if !s.initialized {
		s.Initialize(world)
	}
}

// ApplyDamage damages targetID. The target's own shields, or failing that
// the nearest ancestor's, absorb what they can; the rest comes off its
// hitpoints. Reports whether the target died.
func (s *CombatSystem) ApplyDamage(world *ecs.World, targetID, sourceID ecs.EntityID, amount float64) bool {
	target := world.GetEntity(targetID)
	if target == nil || amount <= 0 {
		return false
	}
	hp, hasHP := ecs.Get[*components.HitpointsComponent](target)
	if hasHP && hp.HP <= 0 {
		// Already dead, waiting for removal
		return false
	}

	remaining := amount
	if shields := findShields(world, target); shields != nil {
		remaining = shields.Absorb(amount)
	}
	world.EmitEvent(DamageEvent{TargetID: targetID, SourceID: sourceID, Amount: amount, Absorbed: amount - remaining})

	if !hasHP || !hp.ReceiveDamage(remaining) {
		return false
	}

	if s.messages != nil {
		s.messages.AddTyped(fmt.Sprintf("%s was destroyed", target), MessageTypeCombat)
	}
	world.EmitEvent(DeathEvent{EntityID: targetID, KillerID: sourceID})
	return true
}

func findShields(world *ecs.World, e *ecs.Entity) *components.ShieldsComponent {
	for e != nil {
		if shields, ok := ecs.Get[*components.ShieldsComponent](e); ok {
			return shields
		}
		if e.Parent == 0 {
			return nil
		}
		e = world.GetEntity(e.Parent)
	}
	return nil
}

func sameTeam(a, b *ecs.Entity) bool {
	ta, okA := ecs.Get[*components.TeamComponent](a)
	tb, okB := ecs.Get[*components.TeamComponent](b)
	return okA && okB && ta.Team != "" && ta.Team == tb.Team
}
