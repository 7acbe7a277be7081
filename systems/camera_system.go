package systems

import (
	"math/rand"
	"sync"
	"time"

	"github.com/lmcneill42/space-game/components"
	"github.com/lmcneill42/space-game/ecs"
)

const (
	maxShake      = 20
	shakeDamping  = 10
	shakePerBlast = 5
)

// CameraSystem keeps the view centred on the player and shakes it when
// things explode
type CameraSystem struct {
	initialized bool

	mu       sync.Mutex
	position components.Vec2
	offset   components.Vec2
	shake    float64
	rng      *rand.Rand
}

// NewCameraSystem creates a new camera system
func NewCameraSystem() *CameraSystem {
	return &CameraSystem{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Initialize sets up event listeners
func (s *CameraSystem) Initialize(world *ecs.World) {
	if s.initialized {
		return
	}

	world.GetEventManager().Subscribe(EventExplosion, func(event ecs.Event) {
		s.AddShake(event.(ExplosionEvent).ShakeFactor * shakePerBlast)
	})

	s.initialized = true
}

// AddShake adds to the current shake, up to a maximum
func (s *CameraSystem) AddShake(amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shake = min(maxShake, s.shake+amount)
}

// Update moves the camera to the player and decays the shake
func (s *CameraSystem) Update(world *ecs.World, dt float64) {
	if !s.initialized {
		s.Initialize(world)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, player := range world.GetEntitiesWithTag("player") {
		if body, ok := ecs.Get[*components.PhysicsComponent](player); ok {
			s.position = body.Position
			break
		}
	}

	s.shake = max(0, s.shake-dt*shakeDamping)
	s.offset = components.Vec2{
		X: (1 - 2*s.rng.Float64()) * s.shake,
		Y: (1 - 2*s.rng.Float64()) * s.shake,
	}
}

// View returns the world position at the centre of the screen
func (s *CameraSystem) View() components.Vec2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position.Add(s.offset)
}

// Shake returns the current shake amplitude
func (s *CameraSystem) Shake() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shake
}
