// Package engine drives the state stack from the event loop.
//
// One Run pulls events until the loop reports termination. Each EventsCleared marks the
// end of a frame's input: the scheduler ticks and renders the stack, then the frame is
// paced. Quit clears the stack, config reloads retune the scheduler, and every other
// event is handed to the active state.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-logr/logr"
	"go.uber.org/multierr"

	"github.com/lixenwraith/gameloop/config"
	"github.com/lixenwraith/gameloop/core"
	"github.com/lixenwraith/gameloop/event"
	"github.com/lixenwraith/gameloop/logging"
	"github.com/lixenwraith/gameloop/metrics"
	"github.com/lixenwraith/gameloop/scheduler"
	"github.com/lixenwraith/gameloop/state"
)

var (
	ErrNilState   = errors.New("engine: initial state is nil")
	ErrAlreadyRun = errors.New("engine: Run called twice")
)

// Engine owns the loop, context, stack and scheduler of one run
type Engine struct {
	loop     *event.Loop
	ctx      *core.Context
	stack    *state.Stack
	sched    scheduler.Scheduler
	recorder *metrics.Recorder

	clock  scheduler.TimeProvider
	sleep  func(time.Duration)
	logger logr.Logger
	maxFPS float64

	closers       []io.Closer
	quitRequested bool
	ran           bool
}

// Build validates cfg, applies defaults and assembles an engine
func Build(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	// Zero means default only for the built-in scheduler; a custom one keeps its own tuning
	tickRate, maxUpdateTime := cfg.TickRate, cfg.MaxUpdateTime
	cfg.applyDefaults()

	loop := event.NewLoop()
	e := &Engine{
		loop:   loop,
		ctx:    core.NewContext(loop.Sender(), cfg.Logger),
		stack:  state.NewStack(),
		clock:  cfg.Clock,
		sleep:  cfg.Sleep,
		maxFPS: cfg.MaxFPS,
	}
	e.logger = e.ctx.Logger().WithName("engine")

	if cfg.Registerer != nil {
		rec, err := metrics.NewRecorder(cfg.Registerer)
		if err != nil {
			return nil, err
		}
		e.recorder = rec
		e.stack.SetDepthObserver(rec)
	}

	e.sched = cfg.Scheduler
	if e.sched == nil {
		opts := []scheduler.Option{
			scheduler.WithTickRate(cfg.TickRate),
			scheduler.WithMaxUpdateTime(cfg.MaxUpdateTime),
			scheduler.WithTimeProvider(cfg.Clock),
		}
		if e.recorder != nil {
			opts = append(opts, scheduler.WithObserver(e.recorder))
		}
		e.sched = scheduler.NewFixedUpdate(opts...)
	} else {
		if t, ok := e.sched.(scheduler.Tunable); ok {
			if tickRate > 0 {
				t.SetTickRate(tickRate)
			}
			if maxUpdateTime > 0 {
				t.SetMaxUpdateTime(maxUpdateTime)
			}
		}
		if o, ok := e.sched.(scheduler.Observable); ok && e.recorder != nil {
			o.SetObserver(e.recorder)
		}
	}

	if cfg.Setup != nil {
		if err := cfg.Setup(e.ctx); err != nil {
			return nil, fmt.Errorf("engine setup: %w", err)
		}
	}

	return e, nil
}

// Context returns the shared context handed to states
func (e *Engine) Context() *core.Context {
	return e.ctx
}

// Stack returns the state stack
func (e *Engine) Stack() *state.Stack {
	return e.stack
}

// Scheduler returns the active scheduler
func (e *Engine) Scheduler() scheduler.Scheduler {
	return e.sched
}

// Sender returns a goroutine-safe handle for feeding events into the loop
func (e *Engine) Sender() event.Sender[event.Event] {
	return e.ctx.Sender()
}

// AddCloser registers c to be closed after Run returns, in reverse registration order
func (e *Engine) AddCloser(c io.Closer) {
	e.closers = append(e.closers, c)
}

// Run pushes initial and drives the loop until a Quit has been consumed and the queue drained
// Cancelling ctx requests a Quit; panics raised by states propagate unmodified
func (e *Engine) Run(ctx context.Context, initial state.State) (err error) {
	if initial == nil {
		return ErrNilState
	}
	if e.ran {
		return ErrAlreadyRun
	}
	e.ran = true

	defer func() {
		err = multierr.Append(err, e.closeAll())
	}()

	done := make(chan struct{})
	defer close(done)
	sender := e.ctx.Sender()
	core.Go(func() {
		select {
		case <-ctx.Done():
			sender.Send(event.Quit())
		case <-done:
		}
	})

	e.logger.V(logging.DEFAULT).Info("Engine started", "maxFPS", e.maxFPS)

	e.stack.Push(e.ctx, initial)
	if r, ok := e.sched.(scheduler.Resetter); ok {
		r.Reset()
	}

	for {
		ev, ok := e.loop.NextEvent()
		if !ok {
			break
		}
		e.dispatch(ev)
	}

	e.logger.V(logging.DEFAULT).Info("Engine stopped")
	return nil
}

// dispatch handles one event on the loop goroutine
func (e *Engine) dispatch(ev event.Event) {
	switch ev.Type {
	case event.EventsCleared:
		e.frame()

	case event.EventQuit:
		e.logger.V(logging.VERBOSE).Info("Quit received", "depth", e.stack.Len())
		e.stack.Clear(e.ctx)

	case event.EventConfigReload:
		cfg, ok := ev.Payload.(*config.Config)
		if !ok || cfg == nil {
			e.logger.Error(nil, "Config reload without config payload", "payload", fmt.Sprintf("%T", ev.Payload))
			return
		}
		e.applyConfig(FromFile(cfg))

	default:
		if err := event.Validate(ev); err != nil {
			e.logger.Error(err, "Dropping malformed event")
			return
		}
		if !e.stack.HandleEvent(e.ctx, ev) {
			e.logger.V(logging.TRACE).Info("Event unhandled", "type", ev.Type.String())
		}
	}
}

// frame runs one update/render pass and paces it against MaxFPS
func (e *Engine) frame() {
	start := e.clock.Now()

	e.sched.Update(e.ctx, e.stack)

	// An emptied stack ends the run; request Quit only once
	if e.stack.Empty() && !e.quitRequested && !e.loop.HasQuit() {
		e.quitRequested = true
		e.ctx.Quit()
	}

	e.sched.Render(e.ctx, e.stack)

	if e.maxFPS > 0 {
		budget := time.Duration(float64(time.Second) / e.maxFPS)
		if elapsed := e.clock.Now().Sub(start); elapsed < budget {
			e.sleep(budget - elapsed)
		}
	}
}

// applyConfig retunes the scheduler and frame cap; zero values keep current settings
func (e *Engine) applyConfig(cfg Config) {
	if t, ok := e.sched.(scheduler.Tunable); ok {
		if cfg.TickRate > 0 {
			t.SetTickRate(cfg.TickRate)
		}
		if cfg.MaxUpdateTime > 0 {
			t.SetMaxUpdateTime(cfg.MaxUpdateTime)
		}
	}
	if cfg.MaxFPS >= 0 {
		e.maxFPS = cfg.MaxFPS
	}

	e.logger.V(logging.VERBOSE).Info("Config applied",
		"tickRate", cfg.TickRate, "maxUpdateTime", cfg.MaxUpdateTime, "maxFPS", e.maxFPS)
}

// closeAll closes registered closers in reverse order
func (e *Engine) closeAll() error {
	var err error
	for i := len(e.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, e.closers[i].Close())
	}
	e.closers = nil
	return err
}
