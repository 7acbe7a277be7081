package systems

import (
	"github.com/lmcneill42/space-game/components"
	"github.com/lmcneill42/space-game/ecs"
)

// PowerSystem recharges power pools. An overloaded pool does not recharge
// until its overload timer runs out.
type PowerSystem struct{}

// NewPowerSystem creates a new power system
func NewPowerSystem() *PowerSystem {
	return &PowerSystem{}
}

// Update recharges every power pool by dt seconds
func (s *PowerSystem) Update(world *ecs.World, dt float64) {
	for _, entity := range world.GetEntitiesWithComponent(components.Power) {
		power, _ := ecs.Get[*components.PowerComponent](entity)
		if power.Overloaded {
			if power.OverloadTimer.Tick(dt) {
				power.Overloaded = false
				power.OverloadTimer.Reset()
			}
			continue
		}
		power.Power = min(power.Capacity, power.Power+power.RechargeRate*dt)
	}
}

// ShieldSystem recharges shields, drawing on the entity's own power. An
// entity without power has no shields. Shields only take spare power and
// never overload the pool.
type ShieldSystem struct{}

// NewShieldSystem creates a new shield system
func NewShieldSystem() *ShieldSystem {
	return &ShieldSystem{}
}

// Update recharges every shield by dt seconds
func (s *ShieldSystem) Update(world *ecs.World, dt float64) {
	for _, entity := range world.GetEntitiesWithComponent(components.Shields) {
		shields, _ := ecs.Get[*components.ShieldsComponent](entity)
		power, ok := ecs.Get[*components.PowerComponent](entity)
		if !ok {
			shields.HP = 0
			continue
		}
		if shields.Overloaded {
			if shields.OverloadTimer.Tick(dt) {
				shields.Overloaded = false
				shields.OverloadTimer.Reset()
			}
			continue
		}
		want := min(shields.MaxHP-shields.HP, shields.RechargeRate*dt)
		shields.HP = min(shields.MaxHP, shields.HP+power.Draw(want))
	}
}
