// Package state implements the layered game-state stack.
//
// The topmost entry of a Stack is active: it receives Update and Render and is the only
// entry whose Update result is interpreted as a Transition. Every other entry is in the
// background and receives BackgroundUpdate and BackgroundRender, bottom to top, before the
// active entry runs.
//
// Lifecycle of a State once pushed:
//
//	Setup -> (Pause <-> Resume)* -> Shutdown
//
// Setup always precedes the first Update or Render.
package state

import (
	"github.com/lixenwraith/gameloop/core"
	"github.com/lixenwraith/gameloop/event"
)

// State is a unit of game logic managed by a Stack
// Embed Base to get no-op defaults for the optional hooks
type State interface {
	// Setup is called once when the state is pushed
	Setup(ctx *core.Context)
	// Shutdown is called once when the state is popped
	Shutdown(ctx *core.Context)
	// Pause is called when another state is pushed on top
	Pause(ctx *core.Context)
	// Resume is called when the state above is popped
	Resume(ctx *core.Context)

	// Update runs one fixed tick while active
	Update(ctx *core.Context) Transition
	// BackgroundUpdate runs one fixed tick while covered
	BackgroundUpdate(ctx *core.Context)

	// Render draws one frame while active
	Render(ctx *core.Context)
	// BackgroundRender draws one frame while covered
	BackgroundRender(ctx *core.Context)
}

// EventHandler is implemented by states that consume window or user events while active
type EventHandler interface {
	HandleEvent(ctx *core.Context, ev event.Event)
}

// Base provides no-op lifecycle and background hooks
type Base struct{}

func (Base) Setup(*core.Context)            {}
func (Base) Shutdown(*core.Context)         {}
func (Base) Pause(*core.Context)            {}
func (Base) Resume(*core.Context)           {}
func (Base) BackgroundUpdate(*core.Context) {}
func (Base) BackgroundRender(*core.Context) {}
