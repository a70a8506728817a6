package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/lixenwraith/gameloop/config"
	"github.com/lixenwraith/gameloop/core"
	"github.com/lixenwraith/gameloop/scheduler"
)

// Config describes an engine before Build
// Zero values select defaults: 120 ticks/s, 100ms update budget, uncapped frame rate
type Config struct {
	// TickRate is the fixed ticks per second of the default scheduler
	TickRate float64
	// MaxUpdateTime bounds the wall time spent ticking per frame
	MaxUpdateTime time.Duration
	// MaxFPS caps the frame rate, 0 renders as fast as the loop spins
	MaxFPS float64

	// Scheduler replaces the default FixedUpdate; non-zero TickRate and MaxUpdateTime are
	// then applied through scheduler.Tunable, zero leaves the scheduler's own settings
	Scheduler scheduler.Scheduler
	// Clock drives the default scheduler and frame pacing, monotonic when nil
	Clock scheduler.TimeProvider
	// Sleep blocks for the remainder of a capped frame, time.Sleep when nil
	Sleep func(time.Duration)

	Logger logr.Logger
	// Registerer enables prometheus metrics when set
	Registerer prometheus.Registerer

	// Setup registers resources on the context before the first state is pushed
	Setup func(ctx *core.Context) error
}

// validate reports every invalid field at once
func (c *Config) validate() error {
	var err error
	if c.TickRate < 0 || math.IsNaN(c.TickRate) || math.IsInf(c.TickRate, 0) {
		err = multierr.Append(err, fmt.Errorf("tick rate must be a finite value >= 0, got %v", c.TickRate))
	}
	if c.MaxUpdateTime < 0 {
		err = multierr.Append(err, fmt.Errorf("max update time must be >= 0, got %v", c.MaxUpdateTime))
	}
	if c.MaxFPS < 0 || math.IsNaN(c.MaxFPS) || math.IsInf(c.MaxFPS, 0) {
		err = multierr.Append(err, fmt.Errorf("max fps must be a finite value >= 0, got %v", c.MaxFPS))
	}
	return err
}

// applyDefaults fills zero fields
func (c *Config) applyDefaults() {
	if c.TickRate == 0 {
		c.TickRate = scheduler.DefaultTickRate
	}
	if c.MaxUpdateTime == 0 {
		c.MaxUpdateTime = scheduler.DefaultMaxUpdateTime
	}
	if c.Clock == nil {
		c.Clock = scheduler.NewMonotonicTimeProvider()
	}
	if c.Sleep == nil {
		c.Sleep = time.Sleep
	}
	if c.Logger.GetSink() == nil {
		c.Logger = logr.Discard()
	}
}

// FromFile maps file settings onto an engine config
// Collaborators (scheduler, clock, logger, registerer) are left for the caller
func FromFile(cfg *config.Config) Config {
	// Validated configs always parse; a zero duration falls back to the default
	maxUpdate, _ := cfg.MaxUpdateDuration()
	return Config{
		TickRate:      cfg.Engine.TickRate,
		MaxUpdateTime: maxUpdate,
		MaxFPS:        cfg.Engine.MaxFPS,
	}
}
