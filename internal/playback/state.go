package playback

// State is a canonical player state tracked by the Evaluator.
type State string

const (
	// StateNone is the absence of a prior state: nothing has been accepted yet, or the session was released.
	StateNone      State = ""
	StatePlay      State = "play"
	StatePlaying   State = "playing"
	StatePause     State = "pause"
	StateBuffering State = "buffering"
	StateBuffered  State = "buffered"
	StateSeeking   State = "seeking"
	StateSeeked    State = "seeked"
	StateEnded     State = "ended"
	StateError     State = "error"
	// StateVariantChanged is a valid transition target that is never stored as the current state.
	StateVariantChanged State = "variantChanged"
)

// String returns the state name, or "unstarted" for StateNone.
func (s State) String() string {
	if s == StateNone {
		return "unstarted"
	}
	return string(s)
}

// EventKind is the kind of canonical event handed to a Sink.
type EventKind string

const (
	EventViewBegin      EventKind = "viewBegin"
	EventPlayerReady    EventKind = "playerReady"
	EventPlay           EventKind = "play"
	EventPlaying        EventKind = "playing"
	EventPause          EventKind = "pause"
	EventBuffering      EventKind = "buffering"
	EventBuffered       EventKind = "buffered"
	EventSeeking        EventKind = "seeking"
	EventSeeked         EventKind = "seeked"
	EventEnded          EventKind = "ended"
	EventVariantChanged EventKind = "variantChanged"
	EventError          EventKind = "error"
)

// eventKindFor maps a transition target onto the event kind emitted when it is accepted.
func eventKindFor(s State) EventKind {
	return EventKind(s)
}

// Event is a canonical playback event. Position is only meaningful when HasPosition is set.
type Event struct {
	Kind        EventKind
	Position    int64
	HasPosition bool
}

// NewEvent creates an event without a playhead payload
func NewEvent(kind EventKind) Event {
	return Event{Kind: kind}
}

// NewEventAt creates an event carrying a playhead position
func NewEventAt(kind EventKind, position int64) Event {
	return Event{Kind: kind, Position: position, HasPosition: true}
}
