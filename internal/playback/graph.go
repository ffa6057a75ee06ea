package playback

import "slices"

// transitions is the State Graph. Keyed by the current state, StateNone being the initial state.
// It is never mutated after package initialisation and is shared by every session.
var transitions = map[State][]State{
	StateNone: {StatePlay, StateError},
	StatePlay: {
		StatePlaying,
		StateEnded,
		StatePause,
		StateVariantChanged,
		StateSeeking,
		StateError,
	},
	StatePlaying: {
		StateBuffering,
		StatePause,
		StateEnded,
		StateSeeking,
		StateVariantChanged,
		StateError,
	},
	StateBuffering: {
		StateBuffered,
		StateError,
		StateVariantChanged,
	},
	StateBuffered: {
		StatePause,
		StateSeeking,
		StatePlaying,
		StateEnded,
		StateError,
		StateVariantChanged,
	},
	StatePause: {
		StateSeeking,
		StatePlay,
		StateEnded,
		StateError,
		StateVariantChanged,
	},
	StateSeeking: {
		StateSeeked,
		StateEnded,
		StateError,
		StateVariantChanged,
	},
	StateSeeked: {
		StatePlay,
		StateEnded,
		StateError,
		StateVariantChanged,
		StatePlaying,
		StateSeeking,
	},
	StateEnded: {
		StatePlay,
		StatePause,
		StateError,
		StateVariantChanged,
	},
	StateError: {
		StatePlaying,
		StatePlay,
		StatePause,
		StateBuffered,
	},
}

// PermittedTargets returns the states that may follow from. Unknown states have no targets.
func PermittedTargets(from State) []State {
	return slices.Clone(transitions[from])
}

// Permits reports whether the graph has an edge from -> to.
func Permits(from, to State) bool {
	return slices.Contains(transitions[from], to)
}
