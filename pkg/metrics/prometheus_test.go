package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordInvocation("structured", "completed")
	r.RecordInvocation("structured", "completed")
	r.RecordInvocation("streaming", "aborted")
	r.RecordError("schema")
	r.RecordCache(true)
	r.RecordCache(false)
	r.RecordCache(false)
	r.RecordFragments(12)
	r.RecordLatency("analyze", 1.5)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.invocations.WithLabelValues("structured", "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.invocations.WithLabelValues("streaming", "aborted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("schema")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheTotal.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheTotal.WithLabelValues("miss")))

	n, err := testutil.GatherAndCount(reg, "onchainiq_stream_fragments", "onchainiq_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRecordersOnSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
