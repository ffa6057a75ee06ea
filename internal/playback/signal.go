package playback

import (
	"fmt"
	"strings"
)

// EngineState is the raw state reported by a host engine's state-changed notification.
type EngineState int

const (
	EngineIdle EngineState = iota
	EnginePreparing
	EngineBuffering
	EnginePlaying
	EnginePausing
	EngineFinished
)

var engineStateNames = map[EngineState]string{
	EngineIdle:      "idle",
	EnginePreparing: "preparing",
	EngineBuffering: "buffering",
	EnginePlaying:   "playing",
	EnginePausing:   "pausing",
	EngineFinished:  "finished",
}

func (s EngineState) String() string {
	if name, ok := engineStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseEngineState converts a state name (as produced by String) back into an EngineState
func ParseEngineState(name string) (EngineState, error) {
	for state, n := range engineStateNames {
		if strings.EqualFold(n, name) {
			return state, nil
		}
	}
	return 0, fmt.Errorf("unknown engine state %q", name)
}

// Signal is a raw notification from a host engine. The set of implementations is closed.
type Signal interface {
	// Name identifies the kind of notification, used for logging and metrics
	Name() string
	isSignal()
}

// StateChanged reports a new engine state
type StateChanged struct {
	State EngineState
}

// SeekTo reports that the engine started seeking towards TargetUs
type SeekTo struct {
	TargetUs int64
}

// SeekCompleted reports that the engine finished a seek. Engines may report it more than once per gesture.
type SeekCompleted struct{}

// PositionChanged reports the playhead, in microseconds
type PositionChanged struct {
	PositionUs int64
}

// VideoSizeChanged reports new source geometry
type VideoSizeChanged struct {
	Width       int
	Height      int
	PixelAspect float64
}

// DurationChanged reports the media duration, in microseconds
type DurationChanged struct {
	DurationUs int64
}

// FatalError reports an error the engine could not recover from
type FatalError struct {
	Code    string
	Message string
}

// NonFatalError reports an error the engine recovered from
type NonFatalError struct {
	Code    string
	Message string
}

// FullyBuffered reports that the engine has buffered enough to continue
type FullyBuffered struct{}

// SpeedChanged reports a playback rate change
type SpeedChanged struct {
	Speed float64
}

// DisplayChanged reports a change of output display
type DisplayChanged struct {
	Secure bool
}

// KeyStatusChanged reports a DRM key status change
type KeyStatusChanged struct{}

func (StateChanged) Name() string     { return "state_changed" }
func (SeekTo) Name() string           { return "seek_to" }
func (SeekCompleted) Name() string    { return "seek_completed" }
func (PositionChanged) Name() string  { return "position_changed" }
func (VideoSizeChanged) Name() string { return "video_size_changed" }
func (DurationChanged) Name() string  { return "duration_changed" }
func (FatalError) Name() string       { return "fatal_error" }
func (NonFatalError) Name() string    { return "non_fatal_error" }
func (FullyBuffered) Name() string    { return "fully_buffered" }
func (SpeedChanged) Name() string     { return "speed_changed" }
func (DisplayChanged) Name() string   { return "display_changed" }
func (KeyStatusChanged) Name() string { return "key_status_changed" }

func (StateChanged) isSignal()     {}
func (SeekTo) isSignal()           {}
func (SeekCompleted) isSignal()    {}
func (PositionChanged) isSignal()  {}
func (VideoSizeChanged) isSignal() {}
func (DurationChanged) isSignal()  {}
func (FatalError) isSignal()       {}
func (NonFatalError) isSignal()    {}
func (FullyBuffered) isSignal()    {}
func (SpeedChanged) isSignal()     {}
func (DisplayChanged) isSignal()   {}
func (KeyStatusChanged) isSignal() {}
