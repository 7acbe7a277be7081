package systems

import (
	"math"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmcneill42/space-game/components"
	"github.com/lmcneill42/space-game/data"
	"github.com/lmcneill42/space-game/ecs"
	"github.com/lmcneill42/space-game/spawners"
)

var fleet = fstest.MapFS{
	"rock.txt": file("components:\n  Physics: {mass: 2, size: 5}\n"),
	"ally.txt": file(`
components:
  Physics: {size: 5}
  Hitpoints: {hp: 10}
  Team: {team: player}
`),
	"hostile.txt": file(`
components:
  Physics: {size: 5}
  Hitpoints: {hp: 10}
  Team: {team: enemy}
`),
	"hunter.txt": file(`
components:
  Physics: {mass: 4}
  Team: {team: enemy}
  Tracking: {track_type: team}
  FollowsTracked: {follow_type: accelerate, desired_distance_to_player: 10, acceleration: 5}
`),
	"drone.txt": file(`
derive_from: hunter.txt
components:
  FollowsTracked: {follow_type: direct}
`),
	"shot.txt": file(`
components:
  Physics: {size: 1}
  DamageOnContact: {damage: 5}
  KillOnTimer: {lifetime: 2}
`),
	"gunship.txt": file(`
components:
  Physics: {size: 3}
  Team: {team: player}
  Weapon: {bullet_config: shot.txt, shots_per_second: 4, bullet_speed: 100}
`),
	"beamship.txt": file(`
components:
  Physics: {size: 3}
  Team: {team: player}
  Power: {capacity: 10, recharge_rate: 1}
  Weapon: {type: beam, damage: 20, power_usage: 10}
`),
	"housing.txt": file(`
components:
  Physics: {size: 2}
  Team: {team: enemy}
  Tracking: {track_type: team}
  ShootsAtTracked: {fire_period: 1, burst_period: 0.5}
`),
	"cannon.txt": file("components:\n  Weapon: {type: beam, range: 10}\n"),
	"frigate.txt": file(`
components:
  Physics: {size: 10}
  Team: {team: enemy}
  Turrets:
    turrets:
      - {position: [5, 0], turret_config: housing.txt, weapon_config: cannon.txt}
`),
}

func setupFleet(t *testing.T) (*ecs.World, *spawners.Assembler) {
	t.Helper()
	world := ecs.NewWorld()
	store := data.NewStore(fleet)
	return world, spawners.NewAssembler(world, store, data.NewResolver(store), components.DefaultRegistry())
}

func place(t *testing.T, a *spawners.Assembler, name string, x, y float64) (*ecs.Entity, *components.PhysicsComponent) {
	t.Helper()
	e, err := a.Build(name)
	require.NoError(t, err)
	body, ok := ecs.Get[*components.PhysicsComponent](e)
	require.True(t, ok)
	body.Position = components.Vec2{X: x, Y: y}
	return e, body
}

func TestMovementIntegratesForces(t *testing.T) {
	world, a := setupFleet(t)
	_, body := place(t, a, "rock.txt", 0, 0)
	body.ApplyForce(components.Vec2{X: 4})

	NewMovementSystem().Update(world, 0.5)

	assert.Equal(t, components.Vec2{X: 1}, body.Velocity)
	assert.Equal(t, components.Vec2{X: 0.5}, body.Position)
	assert.Equal(t, components.Vec2{}, body.Force)
}

func TestCollisionsAreReportedWhenContactStarts(t *testing.T) {
	world, a := setupFleet(t)
	_, first := place(t, a, "rock.txt", 0, 0)
	place(t, a, "rock.txt", 8, 0)

	var hits []CollisionEvent
	world.GetEventManager().Subscribe(EventCollision, func(e ecs.Event) { hits = append(hits, e.(CollisionEvent)) })

	movement := NewMovementSystem()
	movement.Update(world, 0.1)
	movement.Update(world, 0.1)
	require.Len(t, hits, 1)

	first.Position = components.Vec2{X: -20}
	movement.Update(world, 0.1)
	first.Position = components.Vec2{}
	movement.Update(world, 0.1)
	assert.Len(t, hits, 2)
}

func TestMountedTurretsDoNotCollideWithTheirHull(t *testing.T) {
	world, a := setupFleet(t)
	place(t, a, "frigate.txt", 0, 0)

	var hits int
	world.GetEventManager().Subscribe(EventCollision, func(ecs.Event) { hits++ })
	NewMovementSystem().Update(world, 0.1)
	assert.Zero(t, hits)
}

func TestBulletIsUsedUpOnHit(t *testing.T) {
	world, a := setupFleet(t)
	target, _ := place(t, a, "hostile.txt", 0, 0)
	bullet, _ := place(t, a, "shot.txt", 2, 0)

	NewCombatSystem(nil).Initialize(world)
	NewDeathSystem(a, nil).Initialize(world)
	NewMovementSystem().Update(world, 0.01)

	hp, _ := ecs.Get[*components.HitpointsComponent](target)
	assert.Equal(t, 5.0, hp.HP)
	assert.Nil(t, world.GetEntity(bullet.ID))
	assert.NotNil(t, world.GetEntity(target.ID))
}

func TestTrackingPicksClosestHostile(t *testing.T) {
	world, a := setupFleet(t)
	hunter, _ := place(t, a, "hunter.txt", 0, 0)
	place(t, a, "hostile.txt", 5, 0)
	far, _ := place(t, a, "ally.txt", 100, 0)
	near, _ := place(t, a, "ally.txt", 0, 50)

	tracking := NewTrackingSystem()
	tracking.Update(world, 0.1)
	tracked, _ := ecs.Get[*components.TrackingComponent](hunter)
	assert.Equal(t, near.ID, tracked.Tracked)

	world.RemoveEntity(near.ID)
	tracking.Update(world, 0.1)
	assert.Equal(t, far.ID, tracked.Tracked)

	world.RemoveEntity(far.ID)
	tracking.Update(world, 0.1)
	assert.Zero(t, tracked.Tracked)
}

func TestFollowsTrackedDirect(t *testing.T) {
	world, a := setupFleet(t)
	drone, body := place(t, a, "drone.txt", 0, 0)
	target, targetBody := place(t, a, "ally.txt", 100, 0)
	tracking, _ := ecs.Get[*components.TrackingComponent](drone)
	tracking.Tracked = target.ID

	follows := NewFollowsTrackedSystem()
	follows.Update(world, 0.1)
	assert.Equal(t, components.Vec2{X: 5}, body.Velocity)
	assert.Zero(t, body.Angle)

	// Within the desired distance it keeps pace instead
	targetBody.Position = components.Vec2{Y: 8}
	targetBody.Velocity = components.Vec2{X: 1, Y: 1}
	follows.Update(world, 0.1)
	assert.Equal(t, targetBody.Velocity, body.Velocity)
	assert.InDelta(t, math.Pi/2, body.Angle, 1e-9)
}

func TestFollowsTrackedAccelerates(t *testing.T) {
	world, a := setupFleet(t)
	hunter, body := place(t, a, "hunter.txt", 0, 0)
	target, _ := place(t, a, "ally.txt", 100, 0)
	tracking, _ := ecs.Get[*components.TrackingComponent](hunter)
	tracking.Tracked = target.ID

	NewFollowsTrackedSystem().Update(world, 0.1)

	// Far away, nearly all of mass*acceleration goes into closing in
	assert.InDelta(t, 20, body.Force.X, 0.1)
	assert.InDelta(t, 0, body.Force.Y, 1e-9)
	assert.Equal(t, components.Vec2{}, body.Velocity)
}

func TestTurretsStayOnTheirMounts(t *testing.T) {
	world, a := setupFleet(t)
	frigate, hull := place(t, a, "frigate.txt", 10, 10)
	hull.Angle = math.Pi / 2
	hull.Velocity = components.Vec2{X: 3}

	NewTurretSystem().Update(world, 0.1)

	turrets, _ := ecs.Get[*components.TurretsComponent](frigate)
	housing, _ := ecs.Get[*components.PhysicsComponent](world.GetEntity(turrets.Mounts[0].Turret))
	assert.InDelta(t, 10, housing.Position.X, 1e-9)
	assert.InDelta(t, 15, housing.Position.Y, 1e-9)
	assert.Equal(t, hull.Velocity, housing.Velocity)

	// A turret that has been shot off is skipped
	world.RemoveEntity(turrets.Mounts[0].Turret)
	assert.NotPanics(t, func() { NewTurretSystem().Update(world, 0.1) })
}

func TestShootsAtTrackedInBursts(t *testing.T) {
	world, a := setupFleet(t)
	frigate, _ := place(t, a, "frigate.txt", 0, 0)
	target, targetBody := place(t, a, "ally.txt", 100, 0)

	turrets, _ := ecs.Get[*components.TurretsComponent](frigate)
	mount := turrets.Mounts[0]
	housing := world.GetEntity(mount.Turret)
	housingBody, _ := ecs.Get[*components.PhysicsComponent](housing)
	housingBody.Position = components.Vec2{}
	tracking, _ := ecs.Get[*components.TrackingComponent](housing)
	tracking.Tracked = target.ID
	weapon, _ := ecs.Get[*components.WeaponComponent](world.GetEntity(mount.Weapon))
	shooter, _ := ecs.Get[*components.ShootsAtTrackedComponent](housing)

	shoots := NewShootsAtTrackedSystem()
	shoots.Update(world, 0.1)
	assert.False(t, weapon.Shooting)
	assert.False(t, shooter.CanShoot)

	// Loaded but out of range
	shoots.Update(world, 0.2)
	assert.False(t, weapon.Shooting)
	assert.True(t, shooter.CanShoot)

	targetBody.Position = components.Vec2{Y: 12}
	shoots.Update(world, 0.1)
	assert.True(t, weapon.Shooting)
	assert.Equal(t, target.ID, weapon.ShootingAt)
	assert.InDelta(t, math.Pi/2, housingBody.Angle, 1e-9)

	shoots.Update(world, 0.3)
	assert.True(t, weapon.Shooting)
	shoots.Update(world, 0.3)
	assert.False(t, weapon.Shooting)
	assert.Zero(t, weapon.ShootingAt)

	// Losing the target stops the weapon
	shoots.Update(world, 1)
	world.RemoveEntity(target.ID)
	tracking.Tracked = 0
	shoots.Update(world, 0.1)
	assert.False(t, weapon.Shooting)
}

func TestWeaponFiresBulletsOnItsTeam(t *testing.T) {
	world, a := setupFleet(t)
	ship, body := place(t, a, "gunship.txt", 10, 0)
	target, _ := place(t, a, "hostile.txt", 110, 0)
	weapon, _ := ecs.Get[*components.WeaponComponent](ship)

	var spawned []SpawnEvent
	world.GetEventManager().Subscribe(EventSpawn, func(e ecs.Event) { spawned = append(spawned, e.(SpawnEvent)) })

	weapons := NewWeaponSystem(a, NewCombatSystem(nil))
	weapon.Shooting = true
	weapon.ShootingAt = target.ID
	weapons.Update(world, 0.5)

	bullets := world.GetEntitiesWithComponent(components.DamageOnContact)
	require.Len(t, bullets, 2)
	require.Len(t, spawned, 2)
	assert.Equal(t, ship.ID, spawned[0].SourceID)
	assert.Equal(t, "shot.txt", spawned[0].Config)

	for _, bullet := range bullets {
		team, ok := ecs.Get[*components.TeamComponent](bullet)
		require.True(t, ok)
		assert.Equal(t, "player", team.Team)

		bulletBody, _ := ecs.Get[*components.PhysicsComponent](bullet)
		assert.Equal(t, components.Vec2{X: 16}, bulletBody.Position)
		assert.InDelta(t, 100, bulletBody.Velocity.X, 1e-9)
		assert.InDelta(t, 0, bulletBody.Velocity.Y, 1e-9)
	}

	// Idle weapons stay loaded
	weapon.Shooting = false
	weapons.Update(world, 1)
	assert.True(t, weapon.ShotTimer.Expired())
	assert.Len(t, world.GetEntitiesWithComponent(components.DamageOnContact), 2)
	assert.Equal(t, components.Vec2{X: 10}, body.Position)
}

func TestBeamDrainsPowerAndDamages(t *testing.T) {
	world, a := setupFleet(t)
	ship, _ := place(t, a, "beamship.txt", 0, 0)
	target, _ := place(t, a, "hostile.txt", 50, 0)
	weapon, _ := ecs.Get[*components.WeaponComponent](ship)
	power, _ := ecs.Get[*components.PowerComponent](ship)
	hp, _ := ecs.Get[*components.HitpointsComponent](target)
	hp.HP = 100

	weapons := NewWeaponSystem(a, NewCombatSystem(nil))
	weapon.Shooting = true
	weapon.ShootingAt = target.ID

	weapons.Update(world, 0.5)
	assert.Equal(t, 5.0, power.Power)
	assert.Equal(t, 90.0, hp.HP)

	weapons.Update(world, 0.5)
	assert.Zero(t, power.Power)
	assert.True(t, power.Overloaded)
	assert.Equal(t, 80.0, hp.HP)

	// Out of power the beam shuts off
	weapons.Update(world, 0.5)
	assert.False(t, weapon.Shooting)
	assert.Equal(t, 80.0, hp.HP)
}

func TestCameraFollowsPlayerAndShakes(t *testing.T) {
	world, a := setupFleet(t)
	player, _ := place(t, a, "ally.txt", 30, 40)
	world.TagEntity(player.ID, "player")

	camera := NewCameraSystem()
	camera.Initialize(world)
	world.EmitEvent(ExplosionEvent{ShakeFactor: 2})
	assert.Equal(t, 10.0, camera.Shake())

	camera.Update(world, 0.5)
	assert.Equal(t, 5.0, camera.Shake())
	view := camera.View()
	assert.InDelta(t, 30, view.X, 5)
	assert.InDelta(t, 40, view.Y, 5)

	for i := 0; i < 10; i++ {
		world.EmitEvent(ExplosionEvent{ShakeFactor: 1})
	}
	assert.Equal(t, 20.0, camera.Shake())

	camera.Update(world, 10)
	assert.Zero(t, camera.Shake())
	assert.Equal(t, components.Vec2{X: 30, Y: 40}, camera.View())
}
