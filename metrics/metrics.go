package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	Namespace = "gameloop"

	TicksTotalMetric           = Namespace + "_ticks_total"
	FramesTotalMetric          = Namespace + "_frames_total"
	TickDurationMetric         = Namespace + "_tick_duration_seconds"
	FrameDurationMetric        = Namespace + "_frame_duration_seconds"
	TicksPerUpdateMetric       = Namespace + "_ticks_per_update"
	LagMetric                  = Namespace + "_lag_seconds"
	BudgetExhaustedTotalMetric = Namespace + "_update_budget_exhausted_total"
	StackDepthMetric           = Namespace + "_state_stack_depth"
)

var (
	// FrameLatencyBuckets covers tick and frame costs from 50us to 250ms
	FrameLatencyBuckets = []float64{
		0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.05, 0.1, 0.25,
	}

	// TicksPerUpdateBuckets covers idle frames through catch-up bursts
	TicksPerUpdateBuckets = []float64{0, 1, 2, 3, 4, 6, 8, 12, 16, 32, 64}
)

// Recorder exports scheduler and state-stack measurements to prometheus
// It implements scheduler.Observer and state.DepthObserver
type Recorder struct {
	ticks           prometheus.Counter
	frames          prometheus.Counter
	tickDuration    prometheus.Histogram
	frameDuration   prometheus.Histogram
	ticksPerUpdate  prometheus.Histogram
	lag             prometheus.Gauge
	budgetExhausted prometheus.Counter
	stackDepth      prometheus.Gauge
}

// NewRecorder creates the collectors and registers them with reg
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "ticks_total",
			Help:      "Total number of fixed ticks executed.",
		}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "frames_total",
			Help:      "Total number of rendered frames.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "tick_duration_seconds",
			Help:      "Wall-clock cost of one fixed tick in seconds.",
			Buckets:   FrameLatencyBuckets,
		}),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "frame_duration_seconds",
			Help:      "Wall-clock cost of one render pass in seconds.",
			Buckets:   FrameLatencyBuckets,
		}),
		ticksPerUpdate: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "ticks_per_update",
			Help:      "Number of fixed ticks run by one scheduler update.",
			Buckets:   TicksPerUpdateBuckets,
		}),
		lag: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "lag_seconds",
			Help:      "Real time not yet converted into ticks after the last update.",
		}),
		budgetExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "update_budget_exhausted_total",
			Help:      "Updates stopped by the max update time while whole ticks were still owed.",
		}),
		stackDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "state_stack_depth",
			Help:      "Number of states on the state stack.",
		}),
	}

	for _, c := range r.collectors() {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return r, nil
}

func (r *Recorder) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		r.ticks, r.frames, r.tickDuration, r.frameDuration,
		r.ticksPerUpdate, r.lag, r.budgetExhausted, r.stackDepth,
	}
}

// TickCompleted records one tick
func (r *Recorder) TickCompleted(cost time.Duration) {
	r.ticks.Inc()
	r.tickDuration.Observe(cost.Seconds())
}

// UpdateCompleted records one scheduler update
func (r *Recorder) UpdateCompleted(ticks int, lag time.Duration, budgetExhausted bool) {
	r.ticksPerUpdate.Observe(float64(ticks))
	r.lag.Set(lag.Seconds())
	if budgetExhausted {
		r.budgetExhausted.Inc()
	}
}

// FrameRendered records one render pass
func (r *Recorder) FrameRendered(cost time.Duration) {
	r.frames.Inc()
	r.frameDuration.Observe(cost.Seconds())
}

// StackDepthChanged records the state stack depth
func (r *Recorder) StackDepthChanged(depth int) {
	r.stackDepth.Set(float64(depth))
}
