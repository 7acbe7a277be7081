package spawners

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmcneill42/space-game/components"
	"github.com/lmcneill42/space-game/data"
	"github.com/lmcneill42/space-game/ecs"
)

// The shipped config tree must parse, resolve and build.
func TestShippedConfigs(t *testing.T) {
	store := data.NewStore(os.DirFS("../res/configs"))
	n, err := store.Preload()
	require.NoError(t, err)
	assert.Greater(t, n, 10)

	resolver := data.NewResolver(store)
	for _, name := range []string{
		"player.txt",
		"enemies/enemy.txt",
		"enemies/destroyer.txt",
		"enemies/carrier.txt",
		"enemies/fighter.txt",
		"bullets/laser.txt",
		"explosions/large.txt",
		"messages/update_message.txt",
		"messages/endgame_message.txt",
	} {
		t.Run(name, func(t *testing.T) {
			world := ecs.NewWorld()
			a := NewAssembler(world, store, resolver, components.DefaultRegistry())
			e, err := a.Build(name)
			require.NoError(t, err)
			assert.Equal(t, name, e.Name)
		})
	}

	world := ecs.NewWorld()
	a := NewAssembler(world, store, resolver, components.DefaultRegistry())
	destroyer, err := a.Build("enemies/destroyer.txt")
	require.NoError(t, err)
	assert.Equal(t, 5, world.Len())

	body, _ := ecs.Get[*components.PhysicsComponent](destroyer)
	assert.Equal(t, 80.0, body.Mass)
	assert.Equal(t, 40.0, body.Size)
	hp, _ := ecs.Get[*components.HitpointsComponent](destroyer)
	assert.Equal(t, 400.0, hp.HP)
}
