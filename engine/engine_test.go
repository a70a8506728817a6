package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/gameloop/config"
	"github.com/lixenwraith/gameloop/core"
	"github.com/lixenwraith/gameloop/event"
	"github.com/lixenwraith/gameloop/logging"
	"github.com/lixenwraith/gameloop/logging/logtest"
	"github.com/lixenwraith/gameloop/metrics"
	"github.com/lixenwraith/gameloop/scheduler"
	"github.com/lixenwraith/gameloop/state"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// scriptedState runs onTick on every update and records lifecycle calls
// rendered holds the tick count seen by each Render
type scriptedState struct {
	state.Base
	name     string
	log      *[]string
	ticks    int
	rendered []int
	events   []event.Event
	onTick   func(s *scriptedState, ctx *core.Context) state.Transition
}

func (s *scriptedState) String() string { return s.name }

func (s *scriptedState) Setup(*core.Context)    { *s.log = append(*s.log, s.name+".setup") }
func (s *scriptedState) Shutdown(*core.Context) { *s.log = append(*s.log, s.name+".shutdown") }

func (s *scriptedState) Update(ctx *core.Context) state.Transition {
	s.ticks++
	if s.onTick == nil {
		return state.None()
	}
	return s.onTick(s, ctx)
}

func (s *scriptedState) Render(*core.Context) {
	s.rendered = append(s.rendered, s.ticks)
}

func (s *scriptedState) HandleEvent(_ *core.Context, ev event.Event) {
	s.events = append(s.events, ev)
}

// steppedConfig paces frames at 120 fps on a mock clock: every sleep advances time
// by the frame budget so each frame owes exactly one 8ms tick (plus carried lag)
func steppedConfig(t *testing.T) (Config, *scheduler.MockTimeProvider) {
	t.Helper()
	clock := scheduler.NewMockTimeProvider(epoch)
	return Config{
		MaxFPS: 120,
		Clock:  clock,
		Sleep:  clock.Advance,
		Logger: logtest.New(t),
	}, clock
}

func quitAfter(n int) func(*scriptedState, *core.Context) state.Transition {
	return func(s *scriptedState, _ *core.Context) state.Transition {
		if s.ticks >= n {
			return state.Quit()
		}
		return state.None()
	}
}

func TestBuild_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"zero config", Config{}, false},
		{"explicit values", Config{TickRate: 60, MaxUpdateTime: 50 * time.Millisecond, MaxFPS: 30}, false},
		{"negative tick rate", Config{TickRate: -1}, true},
		{"negative max update", Config{MaxUpdateTime: -time.Millisecond}, true},
		{"negative max fps", Config{MaxFPS: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuild_DefaultScheduler(t *testing.T) {
	e, err := Build(Config{})
	require.NoError(t, err)

	fu, ok := e.Scheduler().(*scheduler.FixedUpdate)
	require.True(t, ok)
	assert.Equal(t, scheduler.DefaultTickRate, fu.TickRate())
	assert.Equal(t, 8*time.Millisecond, fu.TimeStep())
	assert.Equal(t, scheduler.DefaultMaxUpdateTime, fu.MaxUpdateTime())
}

func TestBuild_CustomSchedulerTuning(t *testing.T) {
	tests := []struct {
		name       string
		tickRate   float64
		maxUpdate  time.Duration
		wantRate   float64
		wantBudget time.Duration
	}{
		{"zero keeps scheduler settings", 0, 0, 60, 40 * time.Millisecond},
		{"explicit values override", 30, 10 * time.Millisecond, 30, 10 * time.Millisecond},
		{"only tick rate set", 90, 0, 90, 40 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			custom := scheduler.NewFixedUpdate(
				scheduler.WithTickRate(60),
				scheduler.WithMaxUpdateTime(40*time.Millisecond),
			)
			_, err := Build(Config{
				TickRate:      tt.tickRate,
				MaxUpdateTime: tt.maxUpdate,
				Scheduler:     custom,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantRate, custom.TickRate())
			assert.Equal(t, tt.wantBudget, custom.MaxUpdateTime())
		})
	}
}

func TestBuild_SetupHook(t *testing.T) {
	type score struct{ points int }

	e, err := Build(Config{Setup: func(ctx *core.Context) error {
		core.AddResource(ctx.Resources, &score{points: 7})
		return nil
	}})
	require.NoError(t, err)
	assert.Equal(t, 7, core.MustGetResource[*score](e.Context().Resources).points)

	_, err = Build(Config{Setup: func(*core.Context) error { return errors.New("boom") }})
	assert.ErrorContains(t, err, "boom")
}

func TestRun_NilState(t *testing.T) {
	e, err := Build(Config{})
	require.NoError(t, err)
	assert.ErrorIs(t, e.Run(context.Background(), nil), ErrNilState)
}

func TestRun_QuitTransitionTerminates(t *testing.T) {
	cfg, _ := steppedConfig(t)
	e, err := Build(cfg)
	require.NoError(t, err)

	var log []string
	a := &scriptedState{name: "a", log: &log}
	b := &scriptedState{name: "b", log: &log, onTick: quitAfter(3)}
	a.onTick = func(*scriptedState, *core.Context) state.Transition { return state.Push(b) }

	require.NoError(t, e.Run(context.Background(), a))

	want := []string{"a.setup", "b.setup", "b.shutdown", "a.shutdown"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("lifecycle mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, b.ticks)
	assert.True(t, e.Stack().Empty())
	assert.True(t, e.loop.HasQuit())
}

func TestRun_RendersAfterUpdateEachFrame(t *testing.T) {
	cfg, _ := steppedConfig(t)
	e, err := Build(cfg)
	require.NoError(t, err)

	var log []string
	a := &scriptedState{name: "a", log: &log, onTick: quitAfter(3)}

	require.NoError(t, e.Run(context.Background(), a))

	// First frame owes no tick; each paced frame then runs one tick before rendering
	// The quitting tick empties the stack, so its frame renders nothing
	assert.Equal(t, []int{0, 1, 2}, a.rendered)
	assert.Equal(t, 3, a.ticks)
}

func TestRun_EmptiedStackTerminates(t *testing.T) {
	cfg, _ := steppedConfig(t)
	e, err := Build(cfg)
	require.NoError(t, err)

	var log []string
	a := &scriptedState{name: "a", log: &log, onTick: func(*scriptedState, *core.Context) state.Transition {
		return state.Pop()
	}}

	require.NoError(t, e.Run(context.Background(), a))
	assert.Equal(t, []string{"a.setup", "a.shutdown"}, log)
	assert.Equal(t, 1, a.ticks)
}

func TestRun_ContextCancellationTerminates(t *testing.T) {
	cfg, _ := steppedConfig(t)
	e, err := Build(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var log []string
	a := &scriptedState{name: "a", log: &log, onTick: func(s *scriptedState, _ *core.Context) state.Transition {
		if s.ticks == 2 {
			cancel()
		}
		return state.None()
	}}

	require.NoError(t, e.Run(ctx, a))
	assert.Equal(t, []string{"a.setup", "a.shutdown"}, log)
	assert.GreaterOrEqual(t, a.ticks, 2)
}

func TestRun_ForwardsEventsToActiveState(t *testing.T) {
	cfg, _ := steppedConfig(t)
	e, err := Build(cfg)
	require.NoError(t, err)

	var log []string
	a := &scriptedState{name: "a", log: &log, onTick: quitAfter(2)}

	sender := e.Sender()
	sender.Send(event.KeyPress(event.KeyRune, 'q', 0))
	sender.Send(event.Resize(80, 24))
	// Malformed payload is dropped before reaching states
	sender.Send(event.Event{Type: event.EventKey, Payload: "not a key"})

	require.NoError(t, e.Run(context.Background(), a))

	require.Len(t, a.events, 2)
	key, ok := a.events[0].AsKey()
	require.True(t, ok)
	assert.True(t, key.IsRune('q'))
	assert.Equal(t, event.EventResize, a.events[1].Type)
}

func TestRun_ConfigReloadRetunesScheduler(t *testing.T) {
	cfg, _ := steppedConfig(t)
	e, err := Build(cfg)
	require.NoError(t, err)

	var log []string
	a := &scriptedState{name: "a", log: &log, onTick: func(s *scriptedState, ctx *core.Context) state.Transition {
		switch s.ticks {
		case 1:
			file := config.Default()
			file.Engine.TickRate = 60
			file.Engine.MaxUpdateTime = "20ms"
			file.Engine.MaxFPS = 30
			ctx.Send(event.Event{Type: event.EventConfigReload, Payload: file})
		case 3:
			return state.Quit()
		}
		return state.None()
	}}

	require.NoError(t, e.Run(context.Background(), a))

	fu := e.Scheduler().(*scheduler.FixedUpdate)
	assert.Equal(t, 60.0, fu.TickRate())
	assert.Equal(t, 17*time.Millisecond, fu.TimeStep())
	assert.Equal(t, 20*time.Millisecond, fu.MaxUpdateTime())
	assert.Equal(t, 30.0, e.maxFPS)
}

func TestRun_FramePacing(t *testing.T) {
	clock := scheduler.NewMockTimeProvider(epoch)
	var sleeps []time.Duration
	e, err := Build(Config{
		MaxFPS: 50,
		Clock:  clock,
		Sleep: func(d time.Duration) {
			sleeps = append(sleeps, d)
			clock.Advance(d)
		},
		Logger: logging.Discard(),
	})
	require.NoError(t, err)

	var log []string
	a := &scriptedState{name: "a", log: &log, onTick: func(s *scriptedState, _ *core.Context) state.Transition {
		// Tick work consumes part of the 20ms frame budget
		clock.Advance(5 * time.Millisecond)
		if s.ticks == 3 {
			return state.Quit()
		}
		return state.None()
	}}

	require.NoError(t, e.Run(context.Background(), a))

	require.NotEmpty(t, sleeps)
	// First frame owes no tick and sleeps the full budget
	assert.Equal(t, 20*time.Millisecond, sleeps[0])
	for _, d := range sleeps[1:] {
		assert.LessOrEqual(t, d, 20*time.Millisecond)
	}
}

func TestRun_ClosersReverseOrderAndCombinedErrors(t *testing.T) {
	cfg, _ := steppedConfig(t)
	e, err := Build(cfg)
	require.NoError(t, err)

	var order []string
	errA := errors.New("close a")
	errC := errors.New("close c")
	e.AddCloser(closerFunc(func() error { order = append(order, "a"); return errA }))
	e.AddCloser(closerFunc(func() error { order = append(order, "b"); return nil }))
	e.AddCloser(closerFunc(func() error { order = append(order, "c"); return errC }))

	var log []string
	err = e.Run(context.Background(), &scriptedState{name: "a", log: &log, onTick: quitAfter(1)})

	assert.Equal(t, []string{"c", "b", "a"}, order)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errC)
}

func TestRun_Twice(t *testing.T) {
	cfg, _ := steppedConfig(t)
	e, err := Build(cfg)
	require.NoError(t, err)

	var log []string
	require.NoError(t, e.Run(context.Background(), &scriptedState{name: "a", log: &log, onTick: quitAfter(1)}))
	assert.ErrorIs(t, e.Run(context.Background(), &scriptedState{name: "b", log: &log}), ErrAlreadyRun)
}

func TestRun_StatePanicPropagates(t *testing.T) {
	cfg, _ := steppedConfig(t)
	e, err := Build(cfg)
	require.NoError(t, err)

	var log []string
	a := &scriptedState{name: "a", log: &log, onTick: func(*scriptedState, *core.Context) state.Transition {
		panic("state exploded")
	}}

	assert.PanicsWithValue(t, "state exploded", func() {
		_ = e.Run(context.Background(), a)
	})
}

func TestRun_RecordsMetrics(t *testing.T) {
	cfg, _ := steppedConfig(t)
	reg := prometheus.NewRegistry()
	cfg.Registerer = reg
	e, err := Build(cfg)
	require.NoError(t, err)

	var log []string
	require.NoError(t, e.Run(context.Background(), &scriptedState{name: "a", log: &log, onTick: quitAfter(4)}))

	families, err := reg.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, mf := range families {
		m := mf.GetMetric()[0]
		switch {
		case m.GetCounter() != nil:
			values[mf.GetName()] = m.GetCounter().GetValue()
		case m.GetGauge() != nil:
			values[mf.GetName()] = m.GetGauge().GetValue()
		}
	}

	assert.Equal(t, 4.0, values[metrics.TicksTotalMetric])
	assert.GreaterOrEqual(t, values[metrics.FramesTotalMetric], 4.0)
	assert.Equal(t, 0.0, values[metrics.StackDepthMetric])
}

func TestFromFile(t *testing.T) {
	file := config.Default()
	file.Engine.TickRate = 30
	file.Engine.MaxUpdateTime = "250ms"
	file.Engine.MaxFPS = 0

	cfg := FromFile(file)
	assert.Equal(t, 30.0, cfg.TickRate)
	assert.Equal(t, 250*time.Millisecond, cfg.MaxUpdateTime)
	assert.Zero(t, cfg.MaxFPS)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
