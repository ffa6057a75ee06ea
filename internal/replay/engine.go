package replay

import (
	"context"
	"slices"
	"sync"

	"github.com/PizzaHomicide/playerdata/internal/log"
	"github.com/PizzaHomicide/playerdata/internal/playback"
)

// Engine replays a trace to its listeners. It implements playback.Engine, answering queries from
// the signals replayed so far.
type Engine struct {
	trace *Trace

	mu        sync.Mutex
	listeners []playback.Listener

	// deliverMu serialises delivery with RemoveListener
	deliverMu sync.Mutex

	stateMu    sync.RWMutex
	positionUs int64
	durationUs int64
	playing    bool
}

func NewEngine(trace *Trace) *Engine {
	return &Engine{trace: trace}
}

// Play delivers every signal of the trace in order, stopping early when ctx is cancelled
func (e *Engine) Play(ctx context.Context) error {
	log.Debug("Replaying trace", "signals", len(e.trace.Signals), "source_url", e.trace.SourceURL)

	for i, record := range e.trace.Signals {
		if err := ctx.Err(); err != nil {
			log.Debug("Replay cancelled", "delivered", i)
			return err
		}
		sig, err := record.Signal()
		if err != nil {
			return err
		}
		e.observe(sig)
		e.deliver(sig)
	}
	return nil
}

func (e *Engine) observe(sig playback.Signal) {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()

	switch v := sig.(type) {
	case playback.PositionChanged:
		e.positionUs = v.PositionUs
	case playback.DurationChanged:
		e.durationUs = v.DurationUs
	case playback.StateChanged:
		e.playing = v.State == playback.EnginePlaying
	case playback.FatalError:
		e.playing = false
	}
}

func (e *Engine) deliver(sig playback.Signal) {
	e.deliverMu.Lock()
	defer e.deliverMu.Unlock()

	e.mu.Lock()
	listeners := slices.Clone(e.listeners)
	e.mu.Unlock()

	for _, l := range listeners {
		l.HandleSignal(sig)
	}
}

func (e *Engine) AddListener(l playback.Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// RemoveListener waits for an in-flight delivery to finish before detaching l
func (e *Engine) RemoveListener(l playback.Listener) {
	e.deliverMu.Lock()
	defer e.deliverMu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = slices.DeleteFunc(e.listeners, func(x playback.Listener) bool { return x == l })
}

func (e *Engine) PositionMs() int64 {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.positionUs / 1000
}

func (e *Engine) DurationMs() int64 {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.durationUs / 1000
}

func (e *Engine) IsPlaying() bool {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.playing
}

func (e *Engine) IsLive() bool      { return e.trace.Live }
func (e *Engine) IsAutoPlay() bool  { return e.trace.AutoPlay }
func (e *Engine) SourceURL() string { return e.trace.SourceURL }

// Recorder is a listener that captures the signals it receives into a trace
type Recorder struct {
	mu    sync.Mutex
	trace Trace
}

// NewRecorder starts a trace for the given source
func NewRecorder(sourceURL string, autoPlay bool) *Recorder {
	return &Recorder{trace: Trace{SourceURL: sourceURL, AutoPlay: autoPlay}}
}

func (r *Recorder) HandleSignal(sig playback.Signal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trace.Signals = append(r.trace.Signals, RecordOf(sig))
}

// Trace returns a copy of the trace recorded so far
func (r *Recorder) Trace(live bool) *Trace {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.trace
	t.Live = live
	t.Signals = slices.Clone(r.trace.Signals)
	return &t
}
