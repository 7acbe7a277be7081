// Package tcellrender lists the world in a terminal with tcell.
package tcellrender

import (
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/lmcneill42/space-game/ecs"
	"github.com/lmcneill42/space-game/logger"
	"github.com/lmcneill42/space-game/render"
	"github.com/lmcneill42/space-game/systems"
)

// ID identifies the terminal backend in the runtime config.
const ID = "tcell.Renderer"

const (
	frameTime    = 16 * time.Millisecond // ~60 FPS
	messageLines = 5
)

func init() {
	render.Register(ID, func(opts render.Options) render.Renderer { return New(opts) })
}

// Renderer implements render.Renderer and render.Runner on a tcell screen.
// The window size from the runtime config is ignored; the terminal decides.
type Renderer struct {
	screen   tcell.Screen
	title    string
	messages *systems.MessageLog
	log      logrus.FieldLogger
}

// New creates a terminal backend. The screen is opened by Init.
func New(opts render.Options) *Renderer {
	r := &Renderer{title: opts.Title, messages: opts.Messages, log: opts.Log}
	if r.log == nil {
		r.log = logger.Get()
	}
	return r
}

// NewWithScreen creates a backend drawing to screen, e.g. a
// tcell.SimulationScreen.
func NewWithScreen(screen tcell.Screen, opts render.Options) *Renderer {
	r := New(opts)
	r.screen = screen
	return r
}

func (r *Renderer) Init(width, height int) error {
	if r.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("tcell: %w", err)
		}
		r.screen = screen
	}
	if err := r.screen.Init(); err != nil {
		return fmt.Errorf("tcell: %w", err)
	}
	return nil
}

// Draw lists every entity, one per row, with the message log at the bottom
// in the message colours.
func (r *Renderer) Draw(world *ecs.World) error {
	if r.screen == nil {
		return errors.New("tcell: draw before init")
	}
	r.screen.Clear()
	width, height := r.screen.Size()

	row := 0
	if r.title != "" {
		r.print(0, row, width, r.title, tcell.StyleDefault.Bold(true))
		row++
	}

	listHeight := height - messageLines - 1
	for _, line := range render.Scene(world) {
		if row >= listHeight {
			break
		}
		r.print(0, row, width, line, tcell.StyleDefault)
		row++
	}

	if r.messages != nil {
		y := height - 1
		for _, msg := range r.messages.RecentMessages(messageLines) {
			c := msg.GetColor()
			style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
			r.print(0, y, width, msg.Text, style)
			y--
		}
	}

	r.screen.Show()
	return nil
}

func (r *Renderer) print(x, y, width int, s string, style tcell.Style) {
	for _, ch := range s {
		if x >= width {
			return
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

func (r *Renderer) Shutdown() error {
	if r.screen != nil {
		r.screen.Fini()
	}
	return nil
}

// Run ticks update at a fixed rate until it fails or the user presses
// Escape or Ctrl-C. render.ErrQuit ends the loop without error.
func (r *Renderer) Run(update func(dt float64) error) error {
	if r.screen == nil {
		return errors.New("tcell: run before init")
	}
	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(r.screen, eventChan, done)

	for {
		select {
		case ev := <-eventChan:
			if key, ok := ev.(*tcell.EventKey); ok {
				if key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC {
					return nil
				}
			}
			if _, ok := ev.(*tcell.EventResize); ok {
				r.screen.Sync()
			}

		case <-ticker.C:
			err := update(frameTime.Seconds())
			if errors.Is(err, render.ErrQuit) {
				return nil
			}
			if err != nil {
				return err
			}
		}
	}
}

// pollEvents forwards screen events until the screen is finalised or done
// is closed.
func pollEvents(screen tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			// Screen finalised
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}
