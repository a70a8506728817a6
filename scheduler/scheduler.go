// Package scheduler converts wall-clock time into fixed simulation ticks.
//
// A Scheduler is driven once per frame by the engine: Update runs zero or more fixed
// ticks of the state stack, Render draws one frame. FixedUpdate is the reference
// implementation; custom schedulers may wrap it to add presentation or pacing policy.
package scheduler

import (
	"time"

	"github.com/lixenwraith/gameloop/core"
	"github.com/lixenwraith/gameloop/state"
)

// Scheduler decides when the state stack is ticked and rendered
type Scheduler interface {
	Update(ctx *core.Context, stack *state.Stack)
	Render(ctx *core.Context, stack *state.Stack)
}

// Tunable is implemented by schedulers whose timing can be changed at runtime
type Tunable interface {
	SetTickRate(tps float64)
	SetMaxUpdateTime(d time.Duration)
}

// Resetter is implemented by schedulers that track elapsed time between calls
// The engine resets them right before the first frame
type Resetter interface {
	Reset()
}

// Observable is implemented by schedulers that accept a timing observer after construction
type Observable interface {
	SetObserver(o Observer)
}

// Observer receives timing measurements from a scheduler
type Observer interface {
	// TickCompleted reports the wall-clock cost of one tick
	TickCompleted(cost time.Duration)
	// UpdateCompleted reports one Update call: ticks run, residual lag,
	// and whether the time budget stopped the loop with whole ticks still owed
	UpdateCompleted(ticks int, lag time.Duration, budgetExhausted bool)
	// FrameRendered reports the wall-clock cost of one Render call
	FrameRendered(cost time.Duration)
}

// Resource exposes scheduler counters to states through the Context
// Written only by the scheduler on the loop goroutine
type Resource struct {
	// Ticks is the total number of fixed ticks executed
	Ticks uint64
	// Frames is the total number of Render calls
	Frames uint64
	// Lag is the real time not yet converted into ticks
	Lag time.Duration
	// TimeStep is the fixed tick duration
	TimeStep time.Duration
	// Alpha is Lag/TimeStep, the interpolation factor between the last two ticks
	Alpha float64
	// LastUpdateTicks is the number of ticks run by the most recent Update
	LastUpdateTicks int
}

// NewResource creates zeroed counters
func NewResource() *Resource {
	return &Resource{}
}

// resourceFor returns the scheduler resource, registering it on first use
func resourceFor(ctx *core.Context) *Resource {
	return core.GetOrAddResource(ctx.Resources, NewResource)
}
