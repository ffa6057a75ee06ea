package playback

import (
	"slices"
	"sync"
)

type fakeEngine struct {
	mu         sync.Mutex
	listeners  []Listener
	removed    int
	positionMs int64
	durationMs int64
	playing    bool
	live       bool
	autoPlay   bool
	url        string
}

func (e *fakeEngine) AddListener(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

func (e *fakeEngine) RemoveListener(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = slices.DeleteFunc(e.listeners, func(x Listener) bool { return x == l })
	e.removed++
}

func (e *fakeEngine) listenerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// emit delivers each signal, in order, to the listeners attached at the time of delivery
func (e *fakeEngine) emit(sigs ...Signal) {
	for _, sig := range sigs {
		e.mu.Lock()
		listeners := slices.Clone(e.listeners)
		e.mu.Unlock()
		for _, l := range listeners {
			l.HandleSignal(sig)
		}
	}
}

func (e *fakeEngine) PositionMs() int64 { return e.positionMs }
func (e *fakeEngine) DurationMs() int64 { return e.durationMs }
func (e *fakeEngine) IsPlaying() bool   { return e.playing }
func (e *fakeEngine) IsLive() bool      { return e.live }
func (e *fakeEngine) IsAutoPlay() bool  { return e.autoPlay }
func (e *fakeEngine) SourceURL() string { return e.url }

type recordingSink struct {
	mu       sync.Mutex
	events   []Event
	released int
}

func (r *recordingSink) DispatchEvent(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingSink) Release() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released++
	return nil
}

func (r *recordingSink) recorded() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

func (r *recordingSink) kinds() []EventKind {
	var kinds []EventKind
	for _, ev := range r.recorded() {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}

func newTestSession(opts ...Option) (*Session, *fakeEngine, *recordingSink) {
	engine := &fakeEngine{url: "https://cdn.example.com/live/master.m3u8", autoPlay: true}
	sink := &recordingSink{}
	return NewSession(engine, sink, opts...), engine, sink
}

func preparing() Signal { return StateChanged{State: EnginePreparing} }
func playing() Signal   { return StateChanged{State: EnginePlaying} }
func pausing() Signal   { return StateChanged{State: EnginePausing} }
func buffering() Signal { return StateChanged{State: EngineBuffering} }
func finished() Signal  { return StateChanged{State: EngineFinished} }
