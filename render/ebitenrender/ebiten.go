// Package ebitenrender draws the world in a desktop window with ebiten.
package ebitenrender

import (
	"errors"
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"

	"github.com/lmcneill42/space-game/components"
	"github.com/lmcneill42/space-game/ecs"
	"github.com/lmcneill42/space-game/logger"
	"github.com/lmcneill42/space-game/render"
	"github.com/lmcneill42/space-game/systems"
)

// ID identifies the ebiten backend in the runtime config.
const ID = "ebiten.Renderer"

const messageLines = 5

func init() {
	render.Register(ID, func(opts render.Options) render.Renderer { return New(opts) })
}

// Renderer implements render.Renderer and render.Runner on top of
// ebiten.RunGame.
type Renderer struct {
	title    string
	messages *systems.MessageLog
	camera   *systems.CameraSystem
	debug    bool
	log      logrus.FieldLogger

	width, height int

	mu    sync.Mutex
	world *ecs.World
}

// New creates an ebiten backend.
func New(opts render.Options) *Renderer {
	r := &Renderer{
		title:    opts.Title,
		messages: opts.Messages,
		camera:   opts.Camera,
		debug:    opts.Debug,
		log:      opts.Log,
	}
	if r.title == "" {
		r.title = "Space Game"
	}
	if r.log == nil {
		r.log = logger.Get()
	}
	return r
}

// Init sets the window size and title.
func (r *Renderer) Init(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("ebiten: invalid screen size %dx%d", width, height)
	}
	r.width, r.height = width, height
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(r.title)
	return nil
}

// Draw records the world to show on the next frame. ebiten calls back into
// the game to do the actual drawing.
func (r *Renderer) Draw(world *ecs.World) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.world = world
	return nil
}

func (r *Renderer) Shutdown() error { return nil }

// Run hands control to ebiten until update returns an error or the window
// is closed. render.ErrQuit ends the loop without error.
func (r *Renderer) Run(update func(dt float64) error) error {
	err := ebiten.RunGame(&game{r: r, update: update})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// game implements ebiten.Game interface.
type game struct {
	r      *Renderer
	update func(dt float64) error
}

// Update advances the simulation by one tick.
func (g *game) Update() error {
	err := g.update(1.0 / float64(ebiten.TPS()))
	if errors.Is(err, render.ErrQuit) {
		return ebiten.Termination
	}
	return err
}

// Draw draws the game screen.
func (g *game) Draw(screen *ebiten.Image) {
	g.r.mu.Lock()
	world := g.r.world
	g.r.mu.Unlock()

	screen.Fill(color.RGBA{0, 0, 0, 255})
	if world != nil {
		g.r.drawEntities(world, screen)
	}
	g.r.drawMessages(screen)

	if g.r.debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f", ebiten.ActualFPS()))
	}
}

// Layout implements ebiten.Game's Layout.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.r.width, g.r.height
}

// drawEntities draws every body as a circle coloured by team, with text
// components printed at their position. The camera view sits at the screen
// centre; text without a body is centred on screen.
func (r *Renderer) drawEntities(world *ecs.World, screen *ebiten.Image) {
	var view components.Vec2
	if r.camera != nil {
		view = r.camera.View()
	}
	cx, cy := float64(r.width)/2, float64(r.height)/2
	for _, e := range world.GetEntitiesWithComponent(components.Physics) {
		body, _ := ecs.Get[*components.PhysicsComponent](e)
		x, y := cx+body.Position.X-view.X, cy+body.Position.Y-view.Y
		if _, ok := ecs.Get[*components.TextComponent](e); ok {
			continue
		}
		vector.DrawFilledCircle(screen, float32(x), float32(y), float32(max(body.Size, 1)), teamColour(e), true)
	}

	for _, e := range world.GetEntitiesWithComponent(components.Text) {
		text, _ := ecs.Get[*components.TextComponent](e)
		if !text.Visible {
			continue
		}
		// DebugPrint glyphs are 6x16
		x, y := cx-float64(len(text.Text)*6)/2, cy-8
		if body, ok := ecs.Get[*components.PhysicsComponent](e); ok {
			x, y = cx+body.Position.X-view.X, cy+body.Position.Y-view.Y
		}
		ebitenutil.DebugPrintAt(screen, text.Text, int(x), int(y))
	}
}

func (r *Renderer) drawMessages(screen *ebiten.Image) {
	if r.messages == nil {
		return
	}
	y := r.height - 16*messageLines
	for i, msg := range r.messages.RecentMessages(messageLines) {
		ebitenutil.DebugPrintAt(screen, msg.Text, 8, y+16*(messageLines-1-i))
	}
}

func teamColour(e *ecs.Entity) color.Color {
	team, ok := ecs.Get[*components.TeamComponent](e)
	if !ok {
		return color.RGBA{200, 200, 200, 255}
	}
	switch team.Team {
	case "player":
		return color.RGBA{100, 180, 255, 255}
	case "enemy":
		return color.RGBA{255, 100, 100, 255}
	default:
		return color.RGBA{255, 255, 0, 255}
	}
}
