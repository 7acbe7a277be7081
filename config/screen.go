package config

// Screen defaults, used when the runtime config does not set them
const (
	// Window dimensions in pixels
	DefaultScreenWidth  = 1024
	DefaultScreenHeight = 768

	// Simulation ticks per second
	FPS = 60

	// Fixed frame time handed to the systems
	FrameTime = 1.0 / FPS
)

// GetWindowSize returns the window size the runtime config asks for
func (r *Runtime) GetWindowSize() (width, height int) {
	return r.ScreenWidth, r.ScreenHeight
}
