package playback

// Evaluator holds the current canonical state of one session and validates attempted transitions
// against the State Graph. The zero value starts in StateNone.
type Evaluator struct {
	current State
}

// Attempt accepts target when the graph permits it from the current state. Accepted targets become
// the current state, except StateVariantChanged which never moves the state. Rejections are silent.
func (e *Evaluator) Attempt(target State) bool {
	if !Permits(e.current, target) {
		return false
	}
	if target != StateVariantChanged {
		e.current = target
	}
	return true
}

// Current returns the current state
func (e *Evaluator) Current() State {
	return e.current
}

func (e *Evaluator) reset() {
	e.current = StateNone
}
