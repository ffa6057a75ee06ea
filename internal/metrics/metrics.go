package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "playerdata"

var (
	EventsEmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_emitted_total",
		Help:      "Total canonical playback events handed to the telemetry sink, by kind.",
	}, []string{"kind"})

	TransitionsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_rejected_total",
		Help:      "Total attempted state transitions dropped because the state graph does not permit them.",
	}, []string{"from", "to"})

	SignalsReceivedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signals_received_total",
		Help:      "Total raw engine signals delivered to playback sessions, by signal.",
	}, []string{"signal"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Number of playback sessions attached to an engine.",
	})

	OutboxFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "outbox_failures_total",
		Help:      "Total beacons that could not be written to an outbox.",
	}, []string{"outbox"})
)

// IncEventEmitted records a canonical event handed to the sink.
func IncEventEmitted(kind string) {
	EventsEmittedTotal.WithLabelValues(orUnknown(kind)).Inc()
}

// IncTransitionRejected records a transition dropped by the state graph.
func IncTransitionRejected(from, to string) {
	TransitionsRejectedTotal.WithLabelValues(orUnknown(from), orUnknown(to)).Inc()
}

// IncSignalReceived records a raw signal delivered to a session.
func IncSignalReceived(signal string) {
	SignalsReceivedTotal.WithLabelValues(orUnknown(signal)).Inc()
}

// IncOutboxFailure records a beacon write failure.
func IncOutboxFailure(outbox string) {
	OutboxFailuresTotal.WithLabelValues(orUnknown(outbox)).Inc()
}

func orUnknown(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
