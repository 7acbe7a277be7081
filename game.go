package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lmcneill42/space-game/components"
	"github.com/lmcneill42/space-game/config"
	"github.com/lmcneill42/space-game/ecs"
	"github.com/lmcneill42/space-game/logger"
	"github.com/lmcneill42/space-game/render"
	"github.com/lmcneill42/space-game/spawners"
	"github.com/lmcneill42/space-game/systems"
)

// Game wires the world, its systems and a renderer into a frame loop.
type Game struct {
	world     *ecs.World
	assembler *spawners.Assembler
	renderer  render.Renderer
	messages  *systems.MessageLog
	waves     *systems.WaveSpawnerSystem
	log       logrus.FieldLogger

	frames int
	ending bool // Set once the game is decided, it ends when the last text fades
	over   bool
}

// NewGame creates a new game instance. Entities built by assembler land in
// world. camera may be shared with the renderer.
func NewGame(world *ecs.World, assembler *spawners.Assembler, renderer render.Renderer, messages *systems.MessageLog, camera *systems.CameraSystem) *Game {
	g := &Game{
		world:     world,
		assembler: assembler,
		renderer:  renderer,
		messages:  messages,
		log:       logger.Get(),
	}

	combat := systems.NewCombatSystem(messages)
	death := systems.NewDeathSystem(assembler, messages)
	death.SetGameOverHandler(func() { g.ending = true })

	// Register systems with the world in update order. Event handlers are
	// subscribed as they are added.
	world.AddSystem(systems.NewTrackingSystem())
	world.AddSystem(systems.NewFollowsTrackedSystem())
	world.AddSystem(systems.NewMovementSystem())
	world.AddSystem(systems.NewTurretSystem())
	world.AddSystem(systems.NewShootsAtTrackedSystem())
	world.AddSystem(systems.NewWeaponSystem(assembler, combat))
	world.AddSystem(systems.NewLauncherSystem(assembler))
	world.AddSystem(systems.NewPowerSystem())
	world.AddSystem(systems.NewShieldSystem())
	world.AddSystem(systems.NewKillOnTimerSystem())
	world.AddSystem(systems.NewBlinkSystem())
	world.AddSystem(combat)
	world.AddSystem(death)
	world.AddSystem(camera)
	return g
}

// StartWaves adds a wave spawner. The game ends once it has finished and
// its closing message has gone.
func (g *Game) StartWaves(cfg systems.WaveConfig) *systems.WaveSpawnerSystem {
	g.waves = systems.NewWaveSpawnerSystem(g.assembler, cfg)
	g.waves.SetFinishedHandler(func(victory bool) {
		if victory {
			g.messages.AddAlert("Victory!")
		}
		g.ending = true
	})
	g.world.AddSystem(g.waves)
	return g.waves
}

// Spawn builds the named config tagged with tags.
func (g *Game) Spawn(name string, tags ...string) (*ecs.Entity, error) {
	e, err := g.assembler.Build(name, spawners.WithTags(tags...))
	if err != nil {
		return nil, err
	}
	g.messages.AddTyped(fmt.Sprintf("%s spawned", e), systems.MessageTypeSystem)
	return e, nil
}

// Update advances the world one frame and draws it.
func (g *Game) Update(dt float64) error {
	g.world.Update(dt)
	if g.ending && len(g.world.GetEntitiesWithComponent(components.Text)) == 0 {
		g.over = true
	}
	if err := g.renderer.Draw(g.world); err != nil {
		return err
	}
	g.frames++
	if g.over {
		return render.ErrQuit
	}
	return nil
}

// Run runs the frame loop. Backends that own their loop drive it;
// otherwise frames are ticked at config.FPS. A positive limit stops the
// loop after that many frames.
func (g *Game) Run(limit int) error {
	update := func(dt float64) error {
		if err := g.Update(dt); err != nil {
			return err
		}
		if limit > 0 && g.frames >= limit {
			return render.ErrQuit
		}
		return nil
	}

	var err error
	if runner, ok := g.renderer.(render.Runner); ok {
		err = runner.Run(update)
	} else {
		err = g.tick(update)
	}
	g.log.WithFields(logrus.Fields{
		"frames":   g.frames,
		"entities": g.world.Len(),
		"gameOver": g.over,
	}).Info("Game loop finished")
	return err
}

func (g *Game) tick(update func(dt float64) error) error {
	ticker := time.NewTicker(time.Second / config.FPS)
	defer ticker.Stop()
	for range ticker.C {
		if err := update(config.FrameTime); err != nil {
			if errors.Is(err, render.ErrQuit) {
				return nil
			}
			return err
		}
	}
	return nil
}
