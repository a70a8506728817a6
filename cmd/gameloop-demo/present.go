package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/gameloop/core"
	"github.com/lixenwraith/gameloop/scheduler"
	"github.com/lixenwraith/gameloop/state"
)

// presenter wraps FixedUpdate so every frame is drawn on a cleared screen and flushed once
// Tunable, Resetter and Observable come from the embedded scheduler
type presenter struct {
	*scheduler.FixedUpdate
	screen tcell.Screen
}

func newPresenter(screen tcell.Screen, opts ...scheduler.Option) *presenter {
	return &presenter{
		FixedUpdate: scheduler.NewFixedUpdate(opts...),
		screen:      screen,
	}
}

func (p *presenter) Render(ctx *core.Context, stack *state.Stack) {
	p.screen.Clear()
	p.FixedUpdate.Render(ctx, stack)
	p.screen.Show()
}
