package playback

import (
	"github.com/PizzaHomicide/playerdata/internal/log"
	"github.com/PizzaHomicide/playerdata/internal/metrics"
)

// Emitter forwards accepted events to the telemetry sink, synchronously and in order.
type Emitter struct {
	sink    Sink
	logging bool
}

// NewEmitter creates an emitter for sink. When logging is set, every dispatched event is also logged locally.
func NewEmitter(sink Sink, logging bool) *Emitter {
	return &Emitter{
		sink:    sink,
		logging: logging,
	}
}

// Emit hands ev to the sink
func (e *Emitter) Emit(ev Event) {
	if e.logging {
		if ev.HasPosition {
			log.Info("Dispatching playback event", "kind", ev.Kind, "position", ev.Position)
		} else {
			log.Info("Dispatching playback event", "kind", ev.Kind)
		}
	}
	metrics.IncEventEmitted(string(ev.Kind))
	e.sink.DispatchEvent(ev)
}
