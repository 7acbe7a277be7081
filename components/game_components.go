package components

import (
	"fmt"

	"github.com/lmcneill42/space-game/data"
	"github.com/lmcneill42/space-game/ecs"
)

// ThrustersComponent holds the direction an entity wants to move and turn
type ThrustersComponent struct {
	Thrusters []data.Value // Per-thruster config, passed through
	Direction Vec2
	Turn      float64
}

func (*ThrustersComponent) ComponentID() ecs.ComponentID { return Thrusters }

// TrackingComponent selects a target to track
type TrackingComponent struct {
	TrackType string       // "team" tracks the nearest entity on another team
	Tracked   ecs.EntityID // Zero when nothing is tracked
}

func (*TrackingComponent) ComponentID() ecs.ComponentID { return Tracking }

// FollowsTrackedComponent steers toward the tracked entity
type FollowsTrackedComponent struct {
	FollowType      string // "accelerate" or "direct"
	DesiredDistance float64
	Acceleration    float64
}

func (*FollowsTrackedComponent) ComponentID() ecs.ComponentID { return FollowsTracked }

// ShootsAtTrackedComponent fires bursts at the tracked entity
type ShootsAtTrackedComponent struct {
	FireTimer  Timer
	BurstTimer Timer
	CanShoot   bool
}

func (*ShootsAtTrackedComponent) ComponentID() ecs.ComponentID { return ShootsAtTracked }

// WeaponComponent fires bullets built from BulletConfig
type WeaponComponent struct {
	Type           string // "projectile_thrower" or "beam"
	BulletConfig   *data.Resolved
	ShotsPerSecond float64
	BulletSpeed    float64
	Spread         float64
	Range          float64
	Radius         float64
	Damage         float64
	PowerUsage     float64
	Shooting       bool
	ShootingAt     ecs.EntityID
	ShotTimer      Timer
}

func (*WeaponComponent) ComponentID() ecs.ComponentID { return Weapon }

// LaunchesFightersComponent periodically launches fighters
type LaunchesFightersComponent struct {
	FighterConfig *data.Resolved
	SpawnTimer    Timer
	NumFighters   int
	TakeoffSpeed  float64
	TakeoffSpread float64
}

func (*LaunchesFightersComponent) ComponentID() ecs.ComponentID { return LaunchesFighters }

// KillOnTimerComponent kills the entity once its lifetime is up
type KillOnTimerComponent struct {
	Lifetime Timer
}

func (*KillOnTimerComponent) ComponentID() ecs.ComponentID { return KillOnTimer }

// ExplodesOnDeathComponent spawns an explosion when the entity dies
type ExplodesOnDeathComponent struct {
	ExplosionConfig *data.Resolved
	ShakeFactor     float64
	Sound           string
}

func (*ExplodesOnDeathComponent) ComponentID() ecs.ComponentID { return ExplodesOnDeath }

// EndProgramOnDeathComponent ends the game when the entity dies
type EndProgramOnDeathComponent struct{}

func (*EndProgramOnDeathComponent) ComponentID() ecs.ComponentID { return EndProgramOnDeath }

// DamageOnContactComponent damages whatever the entity touches
type DamageOnContactComponent struct {
	Damage float64
}

func (*DamageOnContactComponent) ComponentID() ecs.ComponentID { return DamageOnContact }

// TurretMount records a turret housing and the weapon it carries, at an
// offset from the hull. The IDs are links, not ownership: the world owns
// both entities.
type TurretMount struct {
	Position Vec2
	Turret   ecs.EntityID
	Weapon   ecs.EntityID
}

// TurretsComponent lists the turrets mounted on a hull
type TurretsComponent struct {
	Mounts []TurretMount
}

func (*TurretsComponent) ComponentID() ecs.ComponentID { return Turrets }

// TurretComponent marks an entity as a turret affixed to its parent
type TurretComponent struct {
	Position Vec2
	Weapon   ecs.EntityID
}

func (*TurretComponent) ComponentID() ecs.ComponentID { return Turret }

// String formats the mount for logs.
func (m TurretMount) String() string {
	return fmt.Sprintf("turret %d weapon %d at (%g, %g)", m.Turret, m.Weapon, m.Position.X, m.Position.Y)
}
