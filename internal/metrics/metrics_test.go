package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIncEventEmitted(t *testing.T) {
	before := testutil.ToFloat64(EventsEmittedTotal.WithLabelValues("seeked"))

	IncEventEmitted("seeked")
	IncEventEmitted("seeked")

	assert.Equal(t, before+2, testutil.ToFloat64(EventsEmittedTotal.WithLabelValues("seeked")))
}

func TestEmptyLabelsAreReportedAsUnknown(t *testing.T) {
	before := testutil.ToFloat64(TransitionsRejectedTotal.WithLabelValues("unknown", "play"))

	IncTransitionRejected("", "play")

	assert.Equal(t, before+1, testutil.ToFloat64(TransitionsRejectedTotal.WithLabelValues("unknown", "play")))
}

func TestIncOutboxFailure(t *testing.T) {
	before := testutil.ToFloat64(OutboxFailuresTotal.WithLabelValues("jsonl"))

	IncOutboxFailure("jsonl")

	assert.Equal(t, before+1, testutil.ToFloat64(OutboxFailuresTotal.WithLabelValues("jsonl")))
}
