package components

import (
	"image/color"

	"github.com/lmcneill42/space-game/assets"
	"github.com/lmcneill42/space-game/ecs"
)

// HitpointsComponent is an entity's health pool
type HitpointsComponent struct {
	HP    float64
	MaxHP float64
}

// NewHitpointsComponent creates a full health pool
func NewHitpointsComponent(hp float64) *HitpointsComponent {
	return &HitpointsComponent{HP: hp, MaxHP: hp}
}

func (*HitpointsComponent) ComponentID() ecs.ComponentID { return Hitpoints }

// ReceiveDamage subtracts amount and reports whether the pool is empty
func (h *HitpointsComponent) ReceiveDamage(amount float64) bool {
	h.HP -= amount
	return h.HP <= 0
}

// PowerComponent stores and produces power
type PowerComponent struct {
	Power         float64
	Capacity      float64
	RechargeRate  float64 // Power per second
	Overloaded    bool
	OverloadTimer Timer // Recharge is suspended until this expires
}

// NewPowerComponent creates a fully charged power pool
func NewPowerComponent(capacity, rechargeRate, overloadTime float64) *PowerComponent {
	return &PowerComponent{
		Power:         capacity,
		Capacity:      capacity,
		RechargeRate:  rechargeRate,
		OverloadTimer: NewTimer(overloadTime),
	}
}

func (*PowerComponent) ComponentID() ecs.ComponentID { return Power }

// Consume draws up to amount and returns how much was available. Draining
// a charged pool overloads it; an empty pool just yields nothing.
func (p *PowerComponent) Consume(amount float64) float64 {
	if p.Overloaded || amount <= 0 || p.Power <= 0 {
		return 0
	}
	if amount >= p.Power {
		amount = p.Power
		p.Power = 0
		p.Overloaded = true
		return amount
	}
	p.Power -= amount
	return amount
}

// Draw takes up to amount without ever overloading the pool, for users
// that trickle-charge from whatever is spare
func (p *PowerComponent) Draw(amount float64) float64 {
	if p.Overloaded || amount <= 0 || p.Power <= 0 {
		return 0
	}
	amount = min(amount, p.Power)
	p.Power -= amount
	return amount
}

// ShieldsComponent absorbs damage before hitpoints
type ShieldsComponent struct {
	HP            float64
	MaxHP         float64
	RechargeRate  float64
	Overloaded    bool
	OverloadTimer Timer
}

// NewShieldsComponent creates fully charged shields
func NewShieldsComponent(hp, rechargeRate, overloadTime float64) *ShieldsComponent {
	return &ShieldsComponent{
		HP:            hp,
		MaxHP:         hp,
		RechargeRate:  rechargeRate,
		OverloadTimer: NewTimer(overloadTime),
	}
}

func (*ShieldsComponent) ComponentID() ecs.ComponentID { return Shields }

// Absorb takes damage into the shields and returns what gets through.
// Collapsing shields overload.
func (s *ShieldsComponent) Absorb(damage float64) float64 {
	s.HP -= damage
	if s.HP >= 0 {
		return 0
	}
	rest := -s.HP
	s.HP = 0
	s.Overloaded = true
	return rest
}

// PhysicsComponent is an entity's rigid body: a circle of Size radius
type PhysicsComponent struct {
	Mass          float64
	Size          float64
	IsCollideable bool
	Position      Vec2
	Velocity      Vec2
	Force         Vec2    // Cleared after every step
	Angle         float64 // Radians
}

// NewPhysicsComponent creates a body at rest at the origin
func NewPhysicsComponent(mass, size float64, collideable bool) *PhysicsComponent {
	return &PhysicsComponent{Mass: mass, Size: size, IsCollideable: collideable}
}

func (*PhysicsComponent) ComponentID() ecs.ComponentID { return Physics }

// ApplyForce adds f to the force acting on the body this step
func (b *PhysicsComponent) ApplyForce(f Vec2) {
	b.Force = b.Force.Add(f)
}

// AnimationComponent binds an entity to an animation
type AnimationComponent struct {
	Anim         assets.Handle
	KillOnFinish bool
	Brightness   float64
}

func (*AnimationComponent) ComponentID() ecs.ComponentID { return Animation }

// TeamComponent puts an entity on a team. Empty means no team.
type TeamComponent struct {
	Team string
}

func (*TeamComponent) ComponentID() ecs.ComponentID { return Team }

// TextComponent displays text, optionally blinking
type TextComponent struct {
	Text          string
	FontName      string
	FontSize      int
	SmallFontSize int
	FontColour    color.RGBA
	Blink         bool
	BlinkTimer    Timer
	Visible       bool
}

func (*TextComponent) ComponentID() ecs.ComponentID { return Text }
