package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmcneill42/space-game/components"
	"github.com/lmcneill42/space-game/ecs"
)

func TestRegistry(t *testing.T) {
	r, err := New(HeadlessID, Options{})
	require.NoError(t, err)
	assert.IsType(t, &Headless{}, r)
	assert.Contains(t, Names(), HeadlessID)

	_, err = New("opengl.Renderer", Options{})
	var unknown *UnknownRendererError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "opengl.Renderer", unknown.ID)

	assert.Panics(t, func() { Register("broken.Renderer", nil) })
}

func TestHeadless(t *testing.T) {
	world := ecs.NewWorld()
	ship := ecs.NewEntity("enemies/destroyer.txt")
	require.NoError(t, ship.AddComponent(components.NewHitpointsComponent(400)))
	require.NoError(t, ship.AddComponent(&components.TeamComponent{Team: "enemy"}))
	turret := ecs.NewEntity("turrets/turret.txt")
	ship.AddChild(turret)
	world.Commit(ship, turret)

	h := &Headless{}
	assert.Error(t, h.Draw(world))
	assert.Error(t, h.Init(0, 600))
	require.NoError(t, h.Init(800, 600))

	require.NoError(t, h.Draw(world))
	require.NoError(t, h.Draw(world))
	assert.Equal(t, 2, h.Frames)
	assert.Equal(t, []string{
		ship.String() + " [enemy] hp=400/400",
		"  " + turret.String(),
	}, h.Lines)

	require.NoError(t, h.Shutdown())
	assert.Error(t, h.Draw(world))
}

func TestDescribe(t *testing.T) {
	e := ecs.NewEntity("player.txt")
	body := components.NewPhysicsComponent(1, 5, true)
	body.Position = components.Vec2{X: 12.4, Y: -3}
	require.NoError(t, e.AddComponent(body))
	require.NoError(t, e.AddComponent(components.NewShieldsComponent(50, 1, 1)))

	assert.Equal(t, e.String()+" shields=50/50 pos=(12,-3)", Describe(e))
}
