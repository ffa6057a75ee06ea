package player

import (
	"context"

	"github.com/PizzaHomicide/playerdata/internal/playback"
)

// VideoPlayer is a host engine that can be launched against a URL and observed by playback sessions
type VideoPlayer interface {
	playback.Engine

	// Play launches playback of url. It returns once the engine is observable; raw signals are
	// delivered to listeners from then on.
	Play(ctx context.Context, url string) error

	// Done is closed when the engine stops delivering signals
	Done() <-chan struct{}

	// Stop stops the current playback
	Stop() error

	// Cleanup performs any necessary cleanup
	Cleanup()
}
