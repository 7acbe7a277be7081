package render

import (
	"errors"

	"github.com/lmcneill42/space-game/ecs"
)

// HeadlessID identifies the headless backend.
const HeadlessID = "headless.Renderer"

func init() {
	Register(HeadlessID, func(Options) Renderer { return &Headless{} })
}

// Headless draws nothing. It counts frames and remembers the last scene,
// for tests and batch runs.
type Headless struct {
	Width, Height int
	Frames        int
	Lines         []string
	running       bool
}

func (h *Headless) Init(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.New("headless: screen size must be positive")
	}
	h.Width, h.Height = width, height
	h.running = true
	return nil
}

func (h *Headless) Draw(world *ecs.World) error {
	if !h.running {
		return errors.New("headless: draw before init")
	}
	h.Frames++
	h.Lines = Scene(world)
	return nil
}

func (h *Headless) Shutdown() error {
	h.running = false
	return nil
}
