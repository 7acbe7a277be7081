package tcellrender

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmcneill42/space-game/components"
	"github.com/lmcneill42/space-game/ecs"
	"github.com/lmcneill42/space-game/render"
	"github.com/lmcneill42/space-game/systems"
)

func TestRegistered(t *testing.T) {
	assert.Contains(t, render.Names(), ID)
}

func TestDrawToSimulationScreen(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	messages := systems.NewMessageLog()
	messages.AddAlert("Game Over!")
	r := NewWithScreen(screen, render.Options{Title: "fleet", Messages: messages})

	world := ecs.NewWorld()
	ship := ecs.NewEntity("enemies/enemy.txt")
	require.NoError(t, ship.AddComponent(components.NewHitpointsComponent(10)))
	world.Commit(ship)

	require.NoError(t, r.Init(80, 24))
	defer r.Shutdown()
	screen.SetSize(80, 24)

	require.NoError(t, r.Draw(world))
	require.NoError(t, r.Draw(ecs.NewWorld()))
}

func TestDrawBeforeInit(t *testing.T) {
	r := New(render.Options{})
	assert.Error(t, r.Draw(ecs.NewWorld()))
	assert.Error(t, r.Run(func(float64) error { return nil }))
}

func TestPollEventsStopsWhenDone(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)

	// Nobody reads events, as after Run has returned
	events := make(chan tcell.Event)
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		pollEvents(screen, events, done)
		close(finished)
	}()

	close(done)
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("event pump still blocked after done was closed")
	}
}
