package playback

// Listener receives raw signals from an Engine. Engines deliver signals serially.
type Listener interface {
	HandleSignal(sig Signal)
}

// Engine is the host player engine a Session observes
type Engine interface {
	// AddListener subscribes l to the engine's raw signals
	AddListener(l Listener)
	// RemoveListener unsubscribes l. Once it returns, l receives no further signals.
	RemoveListener(l Listener)

	// PositionMs returns the current playhead in milliseconds
	PositionMs() int64
	// DurationMs returns the media duration in milliseconds, or 0 when unknown
	DurationMs() int64
	IsPlaying() bool
	IsLive() bool
	IsAutoPlay() bool
	SourceURL() string
}

// Sink receives canonical events in the order they were accepted. Implementations must not call
// back into the Session that feeds them.
type Sink interface {
	DispatchEvent(ev Event)
}
