package scheduler

import (
	"math"
	"time"

	"github.com/lixenwraith/gameloop/core"
	"github.com/lixenwraith/gameloop/state"
)

const (
	// DefaultTickRate is the default number of fixed ticks per second
	DefaultTickRate = 120.0
	// DefaultMaxUpdateTime is the default wall-clock budget for ticking in one Update call
	DefaultMaxUpdateTime = 100 * time.Millisecond
)

// FixedUpdate is a fixed-timestep scheduler
//
// Each Update converts elapsed real time into lag and runs fixed ticks while a whole
// time step is owed and the per-call budget (maxUpdateTime) has not been spent.
// The budget bounds the work per call so slow ticks cannot spiral; unpaid lag carries
// into the next call. Residual sub-step lag is kept for render interpolation.
type FixedUpdate struct {
	tps           float64
	timeStep      time.Duration
	maxUpdateTime time.Duration

	updateTime     time.Duration // Wall time spent ticking in the current call
	lag            time.Duration // Real time not yet converted into ticks
	previousUpdate time.Time

	clock    TimeProvider
	observer Observer
}

// Option configures a FixedUpdate
type Option func(*FixedUpdate)

// WithTickRate sets the ticks per second, non-positive values are ignored
func WithTickRate(tps float64) Option {
	return func(s *FixedUpdate) { s.SetTickRate(tps) }
}

// WithMaxUpdateTime sets the per-call ticking budget
func WithMaxUpdateTime(d time.Duration) Option {
	return func(s *FixedUpdate) { s.SetMaxUpdateTime(d) }
}

// WithTimeProvider replaces the monotonic clock
func WithTimeProvider(tp TimeProvider) Option {
	return func(s *FixedUpdate) {
		if tp != nil {
			s.clock = tp
		}
	}
}

// WithObserver installs a timing observer
func WithObserver(o Observer) Option {
	return func(s *FixedUpdate) { s.observer = o }
}

// NewFixedUpdate creates a scheduler at 120 ticks/s with a 100ms budget unless overridden
func NewFixedUpdate(opts ...Option) *FixedUpdate {
	s := &FixedUpdate{
		maxUpdateTime: DefaultMaxUpdateTime,
		clock:         NewMonotonicTimeProvider(),
	}
	s.SetTickRate(DefaultTickRate)

	for _, opt := range opts {
		opt(s)
	}

	s.previousUpdate = s.clock.Now()
	return s
}

// Update runs zero or more fixed ticks of the stack
func (s *FixedUpdate) Update(ctx *core.Context, stack *state.Stack) {
	res := resourceFor(ctx)
	s.updateTime = 0

	now := s.clock.Now()
	s.lag += now.Sub(s.previousUpdate)
	s.previousUpdate = now

	ticks := 0
	for s.canRunTick() {
		start := s.clock.Now()
		stack.Update(ctx)
		cost := s.clock.Now().Sub(start)

		s.updateTime += cost
		s.lag -= s.timeStep
		ticks++
		res.Ticks++

		if s.observer != nil {
			s.observer.TickCompleted(cost)
		}
	}

	budgetExhausted := s.lag >= s.timeStep

	res.Lag = s.lag
	res.TimeStep = s.timeStep
	res.Alpha = float64(s.lag) / float64(s.timeStep)
	res.LastUpdateTicks = ticks

	if s.observer != nil {
		s.observer.UpdateCompleted(ticks, s.lag, budgetExhausted)
	}

	// Per-call budget, never cumulative
	s.updateTime = 0
}

// Render draws one frame of the stack
func (s *FixedUpdate) Render(ctx *core.Context, stack *state.Stack) {
	res := resourceFor(ctx)

	start := s.clock.Now()
	stack.Render(ctx)
	cost := s.clock.Now().Sub(start)

	res.Frames++
	if s.observer != nil {
		s.observer.FrameRendered(cost)
	}
}

// canRunTick requires both a whole owed step and remaining budget
func (s *FixedUpdate) canRunTick() bool {
	return s.lag >= s.timeStep && s.updateTime < s.maxUpdateTime
}

// Reset discards accumulated lag and restarts elapsed-time measurement from now
func (s *FixedUpdate) Reset() {
	s.lag = 0
	s.updateTime = 0
	s.previousUpdate = s.clock.Now()
}

// SetTickRate changes the tick rate, recomputing the time step as round(1000/tps) ms
// Non-positive and non-finite rates are ignored; the step never drops below 1ms
func (s *FixedUpdate) SetTickRate(tps float64) {
	if tps <= 0 || math.IsInf(tps, 0) || math.IsNaN(tps) {
		return
	}
	s.tps = tps
	s.timeStep = TimeStepFor(tps)
}

// SetMaxUpdateTime changes the per-call ticking budget, non-positive values are ignored
func (s *FixedUpdate) SetMaxUpdateTime(d time.Duration) {
	if d <= 0 {
		return
	}
	s.maxUpdateTime = d
}

// SetObserver replaces the timing observer, nil disables
func (s *FixedUpdate) SetObserver(o Observer) {
	s.observer = o
}

// TickRate returns the ticks per second
func (s *FixedUpdate) TickRate() float64 {
	return s.tps
}

// TimeStep returns the fixed tick duration
func (s *FixedUpdate) TimeStep() time.Duration {
	return s.timeStep
}

// MaxUpdateTime returns the per-call ticking budget
func (s *FixedUpdate) MaxUpdateTime() time.Duration {
	return s.maxUpdateTime
}

// Lag returns the real time not yet converted into ticks
func (s *FixedUpdate) Lag() time.Duration {
	return s.lag
}

// TimeStepFor returns round(1000/tps) milliseconds, at least 1ms
func TimeStepFor(tps float64) time.Duration {
	ms := math.Round(1000 / tps)
	if ms < 1 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond
}
