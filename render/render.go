package render

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/lmcneill42/space-game/ecs"
	"github.com/lmcneill42/space-game/systems"
)

// ErrQuit is returned by an update callback to end a Runner's loop
// cleanly.
var ErrQuit = errors.New("quit")

// Renderer draws the world. Backends are picked by identifier from the
// runtime config.
type Renderer interface {
	Init(width, height int) error
	Draw(world *ecs.World) error
	Shutdown() error
}

// Runner is implemented by backends that own the main loop. update is
// called once per frame with the frame time in seconds.
type Runner interface {
	Run(update func(dt float64) error) error
}

// Options are handed to a backend when it is created.
type Options struct {
	Title    string
	Messages *systems.MessageLog
	Camera   *systems.CameraSystem // Optional, centres the view
	Debug    bool
	Log      logrus.FieldLogger
}

// Factory creates a backend.
type Factory func(opts Options) Renderer

// UnknownRendererError is returned by New for an identifier nothing
// registered.
type UnknownRendererError struct {
	ID string
}

func (e *UnknownRendererError) Error() string {
	return fmt.Sprintf("unknown renderer %q (have %v)", e.ID, Names())
}

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register makes a backend available under id. Registering the same id
// twice replaces the earlier factory.
func Register(id string, f Factory) {
	if f == nil {
		panic("render: nil factory for " + id)
	}
	mu.Lock()
	defer mu.Unlock()
	factories[id] = f
}

// New creates the backend registered under id.
func New(id string, opts Options) (Renderer, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()
	if !ok {
		return nil, &UnknownRendererError{ID: id}
	}
	return f(opts), nil
}

// Names lists the registered identifiers, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for id := range factories {
		names = append(names, id)
	}
	sort.Strings(names)
	return names
}
