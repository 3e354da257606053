package browser

import "time"

// Options configures the browser side of a game session.
type Options struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// PageTimeout bounds navigation and selector waits
	PageTimeout time.Duration

	// SettleTimeout bounds the wait for the game to process a combination
	SettleTimeout time.Duration
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// Default values for browser operations
const (
	DefaultPageTimeout    = 30 * time.Second
	DefaultSettleTimeout  = 5 * time.Second
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

// millis converts a duration to the float milliseconds playwright expects.
func millis(d time.Duration) float64 {
	return float64(d.Milliseconds())
}
