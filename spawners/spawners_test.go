package spawners

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmcneill42/space-game/assets"
	"github.com/lmcneill42/space-game/components"
	"github.com/lmcneill42/space-game/data"
	"github.com/lmcneill42/space-game/ecs"
)

var fleet = fstest.MapFS{
	"enemies/enemy.txt": file(`
components:
  Hitpoints: {hp: 40}
  Physics: {mass: 80}
  Team: {team: enemy}
`),
	"enemies/destroyer.txt": file(`
derive_from: enemies/enemy.txt
components:
  Turrets:
    turrets:
      - position: [10, 0]
        turret_config: turrets/turret.txt
        weapon_config: weapons/laser.txt
      - position: [-10, 0]
        turret_config: turrets/turret.txt
        weapon_config: weapons/laser.txt
  Physics: {size: 40}
`),
	"enemies/broken.txt": file(`
derive_from: enemies/enemy.txt
components:
  Turrets:
    turrets:
      - position: [0, 0]
        turret_config: turrets/turret.txt
        weapon_config: weapons/missing.txt
`),
	"turrets/turret.txt": file(`
components:
  Hitpoints: {hp: 10}
  Physics: {mass: 1, size: 8, is_collideable: false}
`),
	"weapons/laser.txt": file(`
components:
  Weapon:
    bullet_config: bullets/laser.txt
    shots_per_second: 4
    damage: 5
`),
	"bullets/laser.txt": file(`
components:
  KillOnTimer: {lifetime: 2}
  DamageOnContact: {damage: 5}
`),
}

func file(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }

func newAssembler(t *testing.T, fsys fstest.MapFS, opts ...AssemblerOption) (*Assembler, *ecs.World) {
	t.Helper()
	world := ecs.NewWorld()
	store := data.NewStore(fsys)
	return NewAssembler(world, store, data.NewResolver(store), components.DefaultRegistry(), opts...), world
}

func with(base fstest.MapFS, extra fstest.MapFS) fstest.MapFS {
	out := fstest.MapFS{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func componentTypes(e *ecs.Entity) []ecs.ComponentID {
	var ids []ecs.ComponentID
	for _, c := range e.Components() {
		ids = append(ids, c.ComponentID())
	}
	return ids
}

func TestBuildDestroyer(t *testing.T) {
	a, world := newAssembler(t, fleet)

	hull, err := a.Build("enemies/destroyer.txt")
	require.NoError(t, err)

	// Parent-defined components first, then the ones only the child adds
	assert.Equal(t, []ecs.ComponentID{
		components.Hitpoints, components.Physics, components.Team, components.Turrets,
	}, componentTypes(hull))

	body, ok := ecs.Get[*components.PhysicsComponent](hull)
	require.True(t, ok)
	assert.Equal(t, 80.0, body.Mass)
	assert.Equal(t, 40.0, body.Size)
	assert.True(t, body.IsCollideable)

	turrets, ok := ecs.Get[*components.TurretsComponent](hull)
	require.True(t, ok)
	require.Len(t, turrets.Mounts, 2)
	assert.Equal(t, components.Vec2{X: 10}, turrets.Mounts[0].Position)
	assert.Equal(t, components.Vec2{X: -10}, turrets.Mounts[1].Position)
	assert.Equal(t, []ecs.EntityID{turrets.Mounts[0].Turret, turrets.Mounts[1].Turret}, hull.Children)

	for _, mount := range turrets.Mounts {
		housing := world.GetEntity(mount.Turret)
		weapon := world.GetEntity(mount.Weapon)
		require.NotNil(t, housing)
		require.NotNil(t, weapon)

		assert.Equal(t, hull.ID, housing.Parent)
		assert.Equal(t, housing.ID, weapon.Parent)
		assert.Equal(t, "turrets/turret.txt", housing.Name)
		assert.Equal(t, "weapons/laser.txt", weapon.Name)

		tc, ok := ecs.Get[*components.TurretComponent](housing)
		require.True(t, ok)
		assert.Equal(t, mount.Position, tc.Position)
		assert.Equal(t, weapon.ID, tc.Weapon)

		w, ok := ecs.Get[*components.WeaponComponent](weapon)
		require.True(t, ok)
		assert.Equal(t, "projectile_thrower", w.Type)
		require.NotNil(t, w.BulletConfig)
		assert.Equal(t, "bullets/laser.txt", w.BulletConfig.Name)
		assert.InDelta(t, 0.25, w.ShotTimer.Period, 1e-9)
	}

	assert.Equal(t, 5, world.Len())
}

func TestSharedTurretConfigGivesIndependentTurrets(t *testing.T) {
	a, world := newAssembler(t, fleet)

	hull, err := a.Build("enemies/destroyer.txt")
	require.NoError(t, err)
	turrets, _ := ecs.Get[*components.TurretsComponent](hull)

	first := world.GetEntity(turrets.Mounts[0].Turret)
	second := world.GetEntity(turrets.Mounts[1].Turret)
	require.NotSame(t, first, second)
	assert.NotEqual(t, turrets.Mounts[0].Weapon, turrets.Mounts[1].Weapon)

	hp1, _ := ecs.Get[*components.HitpointsComponent](first)
	hp2, _ := ecs.Get[*components.HitpointsComponent](second)
	require.NotSame(t, hp1, hp2)
	hp1.ReceiveDamage(7)
	assert.Equal(t, 3.0, hp1.HP)
	assert.Equal(t, 10.0, hp2.HP)
}

func TestBuildTwiceGivesIndependentEntities(t *testing.T) {
	a, world := newAssembler(t, fleet)

	one, err := a.Build("enemies/destroyer.txt")
	require.NoError(t, err)
	two, err := a.Build("enemies/destroyer.txt")
	require.NoError(t, err)
	require.NotEqual(t, one.ID, two.ID)

	hp1, _ := ecs.Get[*components.HitpointsComponent](one)
	hp2, _ := ecs.Get[*components.HitpointsComponent](two)
	hp1.HP = 1
	assert.Equal(t, 40.0, hp2.HP)
	assert.Equal(t, 10, world.Len())
}

func TestMissingWeaponConfigCommitsNothing(t *testing.T) {
	a, world := newAssembler(t, fleet)
	var created int
	world.GetEventManager().Subscribe(ecs.EventEntityCreated, func(ecs.Event) { created++ })

	e, err := a.Build("enemies/broken.txt")
	require.Error(t, err)
	assert.Nil(t, e)
	assert.Contains(t, err.Error(), "enemies/broken.txt")

	var nested *NestedBuildError
	require.ErrorAs(t, err, &nested)
	assert.Equal(t, []string{"enemies/broken.txt", "weapons/missing.txt"}, nested.Chain)
	assert.Equal(t, "Turrets.turrets[0].weapon_config", nested.Field)

	var notFound *data.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	assert.Zero(t, world.Len())
	assert.Zero(t, created)
}

func TestNestedFailureExtendsChain(t *testing.T) {
	fsys := with(fleet, fstest.MapFS{
		"carrier.txt": file(`
components:
  Turrets:
    turrets:
      - position: [0, 5]
        turret_config: enemies/broken.txt
        weapon_config: weapons/laser.txt
`),
	})
	a, world := newAssembler(t, fsys)

	_, err := a.Build("carrier.txt")
	var nested *NestedBuildError
	require.ErrorAs(t, err, &nested)
	assert.Equal(t, []string{"carrier.txt", "enemies/broken.txt", "weapons/missing.txt"}, nested.Chain)

	var inner *NestedBuildError
	assert.False(t, errors.As(nested.Err, &inner), "nested errors must not wrap each other")
	assert.Zero(t, world.Len())
}

func TestCyclicEntityReference(t *testing.T) {
	fsys := with(fleet, fstest.MapFS{
		"carrier.txt": file(`
components:
  Turrets:
    turrets:
      - {position: [0, 0], turret_config: pod.txt, weapon_config: weapons/laser.txt}
`),
		"pod.txt": file(`
components:
  Turrets:
    turrets:
      - {position: [1, 1], turret_config: ./carrier.txt, weapon_config: weapons/laser.txt}
`),
	})
	a, world := newAssembler(t, fsys)

	_, err := a.Build("carrier.txt")
	var cyc *CyclicReferenceError
	require.ErrorAs(t, err, &cyc)
	assert.Equal(t, []string{"carrier.txt", "pod.txt", "carrier.txt"}, cyc.Chain)
	assert.Zero(t, world.Len())
}

func TestNestingLimit(t *testing.T) {
	a, world := newAssembler(t, fleet, WithNestingLimit(1))

	_, err := a.Build("enemies/destroyer.txt")
	var depth *data.ResolutionDepthExceededError
	require.ErrorAs(t, err, &depth)
	assert.Equal(t, 1, depth.Limit)
	assert.Zero(t, world.Len())
}

func TestComponentErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		check func(t *testing.T, err error)
	}{
		{
			name: "unknown type",
			src:  "components:\n  Warp: {factor: 9}\n",
			check: func(t *testing.T, err error) {
				var unknown *components.UnknownComponentTypeError
				require.ErrorAs(t, err, &unknown)
				assert.Equal(t, "Warp", unknown.Type)
			},
		},
		{
			name: "missing required param",
			src:  "components:\n  Hitpoints: {}\n",
			check: func(t *testing.T, err error) {
				var cerr *components.ComponentConstructionError
				require.ErrorAs(t, err, &cerr)
				assert.Equal(t, "Hitpoints", cerr.Type)
				assert.Equal(t, "hp", cerr.Param)
			},
		},
		{
			name: "bad position",
			src: `
components:
  Turrets:
    turrets:
      - {position: [1], turret_config: turrets/turret.txt, weapon_config: weapons/laser.txt}
`,
			check: func(t *testing.T, err error) {
				var cerr *components.ComponentConstructionError
				require.ErrorAs(t, err, &cerr)
				assert.Equal(t, "turrets[0].position", cerr.Param)
			},
		},
		{
			name: "missing config ref",
			src:  "components:\n  ExplodesOnDeath: {explosion_config: explosions/none.txt}\n",
			check: func(t *testing.T, err error) {
				var nested *NestedBuildError
				require.ErrorAs(t, err, &nested)
				assert.Equal(t, "ExplodesOnDeath.explosion_config", nested.Field)
				var notFound *data.NotFoundError
				assert.ErrorAs(t, err, &notFound)
			},
		},
		{
			name: "duplicate after alias",
			src:  "components:\n  Hitpoints: {hp: 1}\n  src.behaviours.Hitpoints: {hp: 2}\n",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ecs.ErrDuplicateComponent)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, world := newAssembler(t, with(fleet, fstest.MapFS{"bad.txt": file(tt.src)}))
			_, err := a.Build("bad.txt")
			require.Error(t, err)
			tt.check(t, err)
			assert.Zero(t, world.Len())
		})
	}
}

func TestBuildOptions(t *testing.T) {
	a, world := newAssembler(t, fleet)
	mothership, err := a.Build("enemies/enemy.txt")
	require.NoError(t, err)

	team := data.NewMapping(data.KV("components", data.Map(data.NewMapping(
		data.KV("Team", data.Map(data.NewMapping(data.KV("team", data.String("player"))))),
	))))
	e, err := a.Build("enemies/enemy.txt", WithOverrides(team), WithTags("player"), WithParent(mothership.ID))
	require.NoError(t, err)

	tc, ok := ecs.Get[*components.TeamComponent](e)
	require.True(t, ok)
	assert.Equal(t, "player", tc.Team)
	assert.Equal(t, []*ecs.Entity{e}, world.GetEntitiesWithTag("player"))
	assert.Equal(t, mothership.ID, e.Parent)
	assert.Equal(t, []ecs.EntityID{e.ID}, mothership.Children)

	_, err = a.Build("enemies/enemy.txt", WithParent(ecs.EntityID(1<<62)))
	assert.Error(t, err)
}

func TestBuildResolvedBullet(t *testing.T) {
	a, world := newAssembler(t, fleet)
	laser, err := a.Build("weapons/laser.txt")
	require.NoError(t, err)
	w, _ := ecs.Get[*components.WeaponComponent](laser)

	bullet, err := a.BuildResolved(w.BulletConfig)
	require.NoError(t, err)
	assert.Equal(t, []ecs.ComponentID{components.KillOnTimer, components.DamageOnContact}, componentTypes(bullet))
	assert.Equal(t, 2, world.Len())
}

type escort struct{ wing ecs.EntityID }

func (*escort) ComponentID() ecs.ComponentID { return 100 }

func TestFactoryBuildsThroughContext(t *testing.T) {
	world := ecs.NewWorld()
	store := data.NewStore(with(fleet, fstest.MapFS{
		"flagship.txt": file("components:\n  Escort: {wing: turrets/turret.txt}\n"),
	}))
	registry := components.DefaultRegistry()
	registry.Register("Escort", components.Spec{
		ID:     100,
		Schema: components.Schema{{Name: "wing", Kind: components.FieldString, Required: true}},
		Factory: func(p components.Params, ctx components.BuildContext) (ecs.Component, error) {
			wing, err := ctx.Build(p.String("wing", ""))
			if err != nil {
				return nil, err
			}
			return &escort{wing: wing.ID}, nil
		},
	})
	a := NewAssembler(world, store, data.NewResolver(store), registry)

	flagship, err := a.Build("flagship.txt")
	require.NoError(t, err)
	esc, ok := ecs.Get[*escort](flagship)
	require.True(t, ok)

	wing := world.GetEntity(esc.wing)
	require.NotNil(t, wing)
	assert.Equal(t, flagship.ID, wing.Parent)
}

func TestAnimationsResolvedThroughCatalog(t *testing.T) {
	anims := assets.NewCatalog(fstest.MapFS{"destroyer/anim.txt": file("frames: 2\n")})
	a, world := newAssembler(t, with(fleet, fstest.MapFS{
		"ship.txt":  file("components:\n  Animation: {anim_name: destroyer}\n"),
		"ghost.txt": file("components:\n  Animation: {anim_name: ghost}\n"),
	}), WithAnimations(anims))

	ship, err := a.Build("ship.txt")
	require.NoError(t, err)
	anim, _ := ecs.Get[*components.AnimationComponent](ship)
	assert.Equal(t, "destroyer", anim.Anim.Name)

	_, err = a.Build("ghost.txt")
	assert.ErrorIs(t, err, assets.ErrAnimationNotFound)
	assert.Equal(t, 1, world.Len())
}
