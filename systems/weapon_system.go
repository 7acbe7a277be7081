package systems

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lmcneill42/space-game/components"
	"github.com/lmcneill42/space-game/ecs"
	"github.com/lmcneill42/space-game/logger"
	"github.com/lmcneill42/space-game/spawners"
)

// ShootsAtTrackedSystem fires weapons at tracked targets in bursts: a
// burst starts when the fire timer runs out and the target is in range,
// and lasts one burst period
type ShootsAtTrackedSystem struct{}

// NewShootsAtTrackedSystem creates a new targeting system
func NewShootsAtTrackedSystem() *ShootsAtTrackedSystem {
	return &ShootsAtTrackedSystem{}
}

// Update aims and starts or stops each shooter's weapon
func (s *ShootsAtTrackedSystem) Update(world *ecs.World, dt float64) {
	for _, entity := range world.GetEntitiesWithComponent(components.ShootsAtTracked) {
		shooter, _ := ecs.Get[*components.ShootsAtTrackedComponent](entity)
		weapon := weaponOf(world, entity)
		if weapon == nil {
			continue
		}

		var target *ecs.Entity
		if tracking, ok := ecs.Get[*components.TrackingComponent](entity); ok && tracking.Tracked != 0 {
			target = world.GetEntity(tracking.Tracked)
		}
		body := findBody(world, entity)
		if target == nil || body == nil {
			weapon.Shooting = false
			weapon.ShootingAt = 0
			continue
		}
		targetBody, ok := ecs.Get[*components.PhysicsComponent](target)
		if !ok {
			continue
		}

		offset := targetBody.Position.Sub(body.Position)
		body.Angle = offset.Angle()

		if weapon.Shooting {
			if shooter.BurstTimer.Tick(dt) {
				shooter.BurstTimer.Reset()
				weapon.Shooting = false
				weapon.ShootingAt = 0
			}
			continue
		}

		if !shooter.CanShoot && shooter.FireTimer.Tick(dt) {
			shooter.FireTimer.Reset()
			shooter.CanShoot = true
		}
		if shooter.CanShoot && (weapon.Range <= 0 || offset.Len() <= weapon.Range+targetBody.Size) {
			shooter.CanShoot = false
			weapon.Shooting = true
			weapon.ShootingAt = target.ID
		}
	}
}

// weaponOf returns the entity's own weapon or, for a turret housing, the
// weapon it carries
func weaponOf(world *ecs.World, e *ecs.Entity) *components.WeaponComponent {
	if weapon, ok := ecs.Get[*components.WeaponComponent](e); ok {
		return weapon
	}
	turret, ok := ecs.Get[*components.TurretComponent](e)
	if !ok {
		return nil
	}
	carried := world.GetEntity(turret.Weapon)
	if carried == nil {
		return nil
	}
	weapon, _ := ecs.Get[*components.WeaponComponent](carried)
	return weapon
}

// WeaponSystem fires weapons that are shooting: projectile throwers spawn
// bullets at their rate of fire, beams drain power and damage the target
// continuously
type WeaponSystem struct {
	spawner Spawner
	combat  *CombatSystem
	log     logrus.FieldLogger
	rng     *rand.Rand
}

// NewWeaponSystem creates a new weapon system. Beam damage goes through
// combat.
func NewWeaponSystem(spawner Spawner, combat *CombatSystem) *WeaponSystem {
	return &WeaponSystem{
		spawner: spawner,
		combat:  combat,
		log:     logger.Get(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Update fires every shooting weapon for dt seconds
func (s *WeaponSystem) Update(world *ecs.World, dt float64) {
	for _, entity := range world.GetEntitiesWithComponent(components.Weapon) {
		weapon, _ := ecs.Get[*components.WeaponComponent](entity)
		if !weapon.Shooting {
			// Stay loaded so the first shot goes out immediately
			if !weapon.ShotTimer.Expired() {
				weapon.ShotTimer.Tick(dt)
			}
			continue
		}

		target := world.GetEntity(weapon.ShootingAt)
		body := findBody(world, entity)
		if target == nil || body == nil {
			weapon.Shooting = false
			weapon.ShootingAt = 0
			continue
		}
		targetBody, ok := ecs.Get[*components.PhysicsComponent](target)
		if !ok {
			continue
		}
		direction := targetBody.Position.Sub(body.Position).Normalized()

		switch weapon.Type {
		case "beam":
			s.shootBeam(world, entity, weapon, target, dt)
		default:
			if weapon.ShotTimer.Period <= 0 {
				continue
			}
			// More than one bullet per step at high rates of fire
			weapon.ShotTimer.Tick(dt)
			for weapon.ShotTimer.Expired() {
				weapon.ShotTimer.Reset()
				s.shootBullet(world, entity, weapon, body, direction)
			}
		}
	}
}

func (s *WeaponSystem) shootBullet(world *ecs.World, entity *ecs.Entity, weapon *components.WeaponComponent, body *components.PhysicsComponent, direction components.Vec2) {
	if s.spawner == nil || weapon.BulletConfig == nil {
		return
	}

	var opts []spawners.BuildOption
	if team := teamOf(world, entity); team != "" {
		opts = append(opts, spawners.WithOverrides(teamOverride(team)))
	}
	bullet, err := s.spawner.BuildResolved(weapon.BulletConfig, opts...)
	if err != nil {
		s.log.WithError(err).WithField("entity", entity.ID).Warn("Bullet failed to spawn")
		weapon.Shooting = false
		return
	}

	if bulletBody, ok := ecs.Get[*components.PhysicsComponent](bullet); ok {
		spread := (s.rng.Float64() - 0.5) * weapon.Spread
		muzzle := direction.Rotated(spread).Scale(weapon.BulletSpeed)
		bulletBody.Position = body.Position.Add(direction.Scale(body.Size * 2))
		bulletBody.Velocity = body.Velocity.Add(muzzle)
		bulletBody.Angle = muzzle.Angle()
	}
	world.EmitEvent(SpawnEvent{EntityID: bullet.ID, SourceID: entity.ID, Config: weapon.BulletConfig.Name})
}

func (s *WeaponSystem) shootBeam(world *ecs.World, entity *ecs.Entity, weapon *components.WeaponComponent, target *ecs.Entity, dt float64) {
	if need := weapon.PowerUsage * dt; need > 0 {
		power := findPower(world, entity)
		if power == nil || power.Consume(need) < need {
			weapon.Shooting = false
			weapon.ShootingAt = 0
			return
		}
	}
	if s.combat != nil {
		s.combat.ApplyDamage(world, target.ID, entity.ID, weapon.Damage*dt)
	}
}

// findPower returns the power pool of the entity or its nearest ancestor
func findPower(world *ecs.World, e *ecs.Entity) *components.PowerComponent {
	for e != nil {
		if power, ok := ecs.Get[*components.PowerComponent](e); ok {
			return power
		}
		if e.Parent == 0 {
			return nil
		}
		e = world.GetEntity(e.Parent)
	}
	return nil
}

// teamOf returns the team of the entity or its nearest ancestor with one
func teamOf(world *ecs.World, e *ecs.Entity) string {
	for e != nil {
		if team, ok := ecs.Get[*components.TeamComponent](e); ok && team.Team != "" {
			return team.Team
		}
		if e.Parent == 0 {
			return ""
		}
		e = world.GetEntity(e.Parent)
	}
	return ""
}
