package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecorder(t *testing.T) (*Recorder, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)
	return r, reg
}

func TestRecorder_Counters(t *testing.T) {
	r, _ := newTestRecorder(t)

	r.TickCompleted(2 * time.Millisecond)
	r.TickCompleted(3 * time.Millisecond)
	r.FrameRendered(time.Millisecond)
	r.UpdateCompleted(2, 5*time.Millisecond, false)
	r.UpdateCompleted(1, 20*time.Millisecond, true)
	r.StackDepthChanged(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.ticks))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.frames))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.budgetExhausted))
	assert.InDelta(t, 0.020, testutil.ToFloat64(r.lag), 1e-9)
	assert.Equal(t, 3.0, testutil.ToFloat64(r.stackDepth))
}

func TestRecorder_TickDurationHistogram(t *testing.T) {
	r, reg := newTestRecorder(t)

	r.TickCompleted(125 * time.Millisecond)
	r.TickCompleted(500 * time.Millisecond)

	want := `
# HELP gameloop_tick_duration_seconds Wall-clock cost of one fixed tick in seconds.
# TYPE gameloop_tick_duration_seconds histogram
gameloop_tick_duration_seconds_bucket{le="5e-05"} 0
gameloop_tick_duration_seconds_bucket{le="0.0001"} 0
gameloop_tick_duration_seconds_bucket{le="0.00025"} 0
gameloop_tick_duration_seconds_bucket{le="0.0005"} 0
gameloop_tick_duration_seconds_bucket{le="0.001"} 0
gameloop_tick_duration_seconds_bucket{le="0.002"} 0
gameloop_tick_duration_seconds_bucket{le="0.004"} 0
gameloop_tick_duration_seconds_bucket{le="0.008"} 0
gameloop_tick_duration_seconds_bucket{le="0.016"} 0
gameloop_tick_duration_seconds_bucket{le="0.033"} 0
gameloop_tick_duration_seconds_bucket{le="0.05"} 0
gameloop_tick_duration_seconds_bucket{le="0.1"} 0
gameloop_tick_duration_seconds_bucket{le="0.25"} 1
gameloop_tick_duration_seconds_bucket{le="+Inf"} 2
gameloop_tick_duration_seconds_sum 0.625
gameloop_tick_duration_seconds_count 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want), TickDurationMetric))
}

func TestRecorder_DuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRecorder(reg)
	require.NoError(t, err)

	_, err = NewRecorder(reg)
	assert.Error(t, err)
}

func TestRecorder_AllMetricsRegistered(t *testing.T) {
	r, reg := newTestRecorder(t)
	r.UpdateCompleted(0, 0, false)
	r.TickCompleted(0)
	r.FrameRendered(0)

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}
