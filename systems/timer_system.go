package systems

import (
	"github.com/lmcneill42/space-game/components"
	"github.com/lmcneill42/space-game/ecs"
)

// KillOnTimerSystem kills entities whose lifetime has run out
type KillOnTimerSystem struct{}

// NewKillOnTimerSystem creates a new kill-on-timer system
func NewKillOnTimerSystem() *KillOnTimerSystem {
	return &KillOnTimerSystem{}
}

// Update ticks every lifetime and emits a DeathEvent for each that expires
func (s *KillOnTimerSystem) Update(world *ecs.World, dt float64) {
	var expired []ecs.EntityID
	for _, entity := range world.GetEntitiesWithComponent(components.KillOnTimer) {
		kill, _ := ecs.Get[*components.KillOnTimerComponent](entity)
		wasExpired := kill.Lifetime.Expired()
		if kill.Lifetime.Tick(dt) && !wasExpired {
			expired = append(expired, entity.ID)
		}
	}

	for _, id := range expired {
		world.EmitEvent(DeathEvent{EntityID: id})
	}
}

// BlinkSystem toggles blinking text once per blink period
type BlinkSystem struct{}

// NewBlinkSystem creates a new blink system
func NewBlinkSystem() *BlinkSystem {
	return &BlinkSystem{}
}

// Update ticks every blinking text's timer
func (s *BlinkSystem) Update(world *ecs.World, dt float64) {
	for _, entity := range world.GetEntitiesWithComponent(components.Text) {
		text, _ := ecs.Get[*components.TextComponent](entity)
		if !text.Blink {
			continue
		}
		if text.BlinkTimer.Tick(dt) {
			text.BlinkTimer.Reset()
			text.Visible = !text.Visible
		}
	}
}
