package playback

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/PizzaHomicide/playerdata/internal/log"
	"github.com/PizzaHomicide/playerdata/internal/metrics"
)

// ErrSessionReleased is returned when releasing a session that was already released
var ErrSessionReleased = errors.New("playback session already released")

// Option configures a Session
type Option func(*Session)

// WithLogging toggles local logging of every dispatched event
func WithLogging(enabled bool) Option {
	return func(s *Session) {
		s.logging = enabled
	}
}

// WithSoftware sets the player software name and version reported by the session
func WithSoftware(name, version string) Option {
	return func(s *Session) {
		s.softwareName = name
		s.softwareVersion = version
	}
}

// Session is one attachment of the callback adapter to one engine. It translates raw signals into
// attempted transitions, emits one canonical event per accepted transition and keeps the ancillary
// fields the telemetry layer queries.
//
// All methods are safe for concurrent use. Events are emitted while the session lock is held, so
// acceptance order and emission order are the same.
type Session struct {
	mu        sync.Mutex
	engine    Engine
	sink      Sink
	emitter   *Emitter
	evaluator Evaluator
	released  bool
	releasing atomic.Bool

	logging         bool
	softwareName    string
	softwareVersion string

	isSeeking            bool
	lastStablePositionUs int64
	durationUs           int64
	speed                float64
	errorCode            string
	errorMessage         string
	sourceWidth          int
	sourceHeight         int
}

// NewSession creates a session and attaches it to engine. Canonical events go to sink.
func NewSession(engine Engine, sink Sink, opts ...Option) *Session {
	s := &Session{
		engine:               engine,
		sink:                 sink,
		lastStablePositionUs: -1,
		speed:                1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.emitter = NewEmitter(sink, s.logging)

	engine.AddListener(s)
	metrics.ActiveSessions.Inc()
	log.Debug("Playback session attached", "source_url", engine.SourceURL())

	return s
}

// HandleSignal consumes one raw engine signal. Signals delivered after Release are ignored.
func (s *Session) HandleSignal(sig Signal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		log.Warn("Ignoring signal delivered to a released playback session", "signal", sig.Name())
		return
	}

	metrics.IncSignalReceived(sig.Name())
	log.Trace("Handling engine signal", "signal", sig.Name(), "state", s.evaluator.Current())

	switch v := sig.(type) {
	case StateChanged:
		s.handleStateChanged(v.State)
	case SeekTo:
		s.attempt(StateSeeking)
	case SeekCompleted:
		// Engines can report completion more than once for a single seek gesture
		if s.isSeeking {
			return
		}
		s.isSeeking = true
		s.attempt(StatePause)
		s.attempt(StateSeeking)
	case PositionChanged:
		if !s.isSeeking {
			s.lastStablePositionUs = v.PositionUs
			return
		}
		s.isSeeking = false
		s.attemptEvent(NewEventAt(EventSeeked, v.PositionUs))
	case VideoSizeChanged:
		s.sourceWidth = v.Width
		s.sourceHeight = v.Height
		s.attempt(StateVariantChanged)
	case FatalError:
		s.recordError(v.Code, v.Message)
	case NonFatalError:
		s.recordError(v.Code, v.Message)
	case FullyBuffered:
		s.attempt(StateBuffered)
	case DurationChanged:
		s.durationUs = v.DurationUs
	case SpeedChanged:
		s.speed = v.Speed
	case DisplayChanged, KeyStatusChanged:
		// Observed only
	}
}

func (s *Session) handleStateChanged(state EngineState) {
	switch state {
	case EnginePreparing:
		// The markers are informational and bypass the state graph
		s.emitter.Emit(NewEvent(EventViewBegin))
		s.emitter.Emit(NewEvent(EventPlayerReady))
		s.attempt(StatePlay)
	case EnginePlaying:
		s.attempt(StatePlaying)
	case EngineIdle, EnginePausing:
		s.attempt(StatePause)
	case EngineBuffering:
		s.attempt(StateBuffering)
	case EngineFinished:
		s.attempt(StateEnded)
	}
}

func (s *Session) recordError(code, message string) {
	s.errorCode = code
	s.errorMessage = message
	if s.attempt(StateError) {
		log.Debug("Engine error reported", "code", code, "message", message)
	}
}

func (s *Session) attempt(target State) bool {
	return s.attemptEvent(NewEvent(eventKindFor(target)))
}

// attemptEvent validates the transition named by ev.Kind and emits ev when it is accepted.
func (s *Session) attemptEvent(ev Event) bool {
	from := s.evaluator.Current()
	target := State(ev.Kind)
	if !s.evaluator.Attempt(target) {
		log.Trace("Dropping transition not permitted by the state graph", "from", from, "to", target)
		metrics.IncTransitionRejected(from.String(), target.String())
		return false
	}
	s.emitter.Emit(ev)
	return true
}

// Release detaches the session from its engine, then clears all transient state. Releasing also
// releases the sink when it supports it. No event is emitted during release.
func (s *Session) Release() error {
	if !s.releasing.CompareAndSwap(false, true) {
		return ErrSessionReleased
	}

	s.mu.Lock()
	engine := s.engine
	s.mu.Unlock()

	// Detach before touching state so no delivery can race the teardown
	engine.RemoveListener(s)

	s.mu.Lock()
	s.released = true
	s.engine = nil
	s.evaluator.reset()
	s.isSeeking = false
	s.lastStablePositionUs = -1
	s.durationUs = 0
	s.speed = 1
	s.errorCode = ""
	s.errorMessage = ""
	s.sourceWidth = 0
	s.sourceHeight = 0
	sink := s.sink
	s.mu.Unlock()

	metrics.ActiveSessions.Dec()
	log.Debug("Playback session released")

	if r, ok := sink.(interface{ Release() error }); ok {
		return r.Release()
	}
	return nil
}

// State returns the current canonical state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluator.Current()
}

func (s *Session) attachedEngine() Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine
}

// Playhead returns the engine's current position in milliseconds
func (s *Session) Playhead() int64 {
	if e := s.attachedEngine(); e != nil {
		return e.PositionMs()
	}
	return 0
}

// Duration returns the media duration in milliseconds. The engine's own value is preferred, falling
// back to the last duration-changed signal.
func (s *Session) Duration() int64 {
	e := s.attachedEngine()
	if e == nil {
		return 0
	}
	if d := e.DurationMs(); d > 0 {
		return d
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.durationUs / 1000
}

// IsBuffering reports whether the current canonical state is buffering
func (s *Session) IsBuffering() bool {
	return s.State() == StateBuffering
}

// LastError returns the most recent engine error, which is kept even when the error event was not emitted
func (s *Session) LastError() (code, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errorCode, s.errorMessage
}

// VideoSize returns the last reported source geometry
func (s *Session) VideoSize() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sourceWidth, s.sourceHeight
}

// LastStablePosition returns the last position reported outside a seek, or -1 when none was seen
func (s *Session) LastStablePosition() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastStablePositionUs
}

// Speed returns the last reported playback rate
func (s *Session) Speed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}

// IsPaused reports whether the engine is attached and not playing
func (s *Session) IsPaused() bool {
	if e := s.attachedEngine(); e != nil {
		return !e.IsPlaying()
	}
	return false
}

func (s *Session) IsLive() bool {
	if e := s.attachedEngine(); e != nil {
		return e.IsLive()
	}
	return false
}

func (s *Session) IsAutoPlay() bool {
	if e := s.attachedEngine(); e != nil {
		return e.IsAutoPlay()
	}
	return false
}

func (s *Session) SourceURL() string {
	if e := s.attachedEngine(); e != nil {
		return e.SourceURL()
	}
	return ""
}

// MimeType derives the MIME type of the source URL
func (s *Session) MimeType() string {
	return MimeTypeFromURL(s.SourceURL())
}

func (s *Session) SoftwareName() string {
	return s.softwareName
}

func (s *Session) SoftwareVersion() string {
	return s.softwareVersion
}
