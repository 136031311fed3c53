package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegisterer(reg)

	r.RecordCall("predict", 0.2)
	r.RecordFailure("predict", "TimeoutError")
	r.RecordFailure("predict", "TimeoutError")
	r.RecordPrediction("Medium")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.failures.WithLabelValues("predict", "TimeoutError")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.predictions.WithLabelValues("Medium")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.callDuration))
}
