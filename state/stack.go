package state

import (
	"fmt"

	"github.com/lixenwraith/gameloop/core"
	"github.com/lixenwraith/gameloop/event"
	"github.com/lixenwraith/gameloop/logging"
)

// DepthObserver is notified whenever the stack depth changes
type DepthObserver interface {
	StackDepthChanged(depth int)
}

// entry tracks the two-phase lifecycle of a pushed state
// An entry is on the stack before its Setup runs and loaded only once Setup returns;
// a Setup that panics leaves an unloaded entry that refuses every hook but Pop
// Push refuses to cover an unloaded entry, so only the top can ever be unloaded
type entry struct {
	state  State
	loaded bool
}

// Stack is an ordered collection of states with push/pop/replace semantics
// Not safe for concurrent use; owned by the loop goroutine
type Stack struct {
	entries  []entry
	observer DepthObserver
}

// NewStack creates an empty stack
func NewStack() *Stack {
	return &Stack{}
}

// SetDepthObserver installs an observer for depth changes, nil disables
func (s *Stack) SetDepthObserver(o DepthObserver) {
	s.observer = o
}

// Len returns the number of states on the stack
func (s *Stack) Len() int {
	return len(s.entries)
}

// Empty reports whether the stack holds no states
func (s *Stack) Empty() bool {
	return len(s.entries) == 0
}

// Active returns the topmost state
func (s *Stack) Active() (State, bool) {
	if len(s.entries) == 0 {
		return nil, false
	}
	return s.entries[len(s.entries)-1].state, true
}

// Push pauses the active state, sets up st and makes it active
func (s *Stack) Push(ctx *core.Context, st State) {
	if st == nil {
		panic("state: push of nil state")
	}

	if n := len(s.entries); n > 0 {
		s.mustBeLoaded(n-1, "pause")
		s.entries[n-1].state.Pause(ctx)
	}

	s.entries = append(s.entries, entry{state: st})
	i := len(s.entries) - 1
	st.Setup(ctx)
	s.entries[i].loaded = true
	s.notify()
}

// Pop removes and shuts down the active state, then resumes the new top
// Popping an empty stack is a no-op; an unloaded state is removed without Shutdown
func (s *Stack) Pop(ctx *core.Context) (State, bool) {
	n := len(s.entries)
	if n == 0 {
		return nil, false
	}

	top := s.entries[n-1]
	s.entries[n-1] = entry{}
	s.entries = s.entries[:n-1]

	if top.loaded {
		top.state.Shutdown(ctx)
	}
	if n > 1 {
		s.entries[n-2].state.Resume(ctx)
	}
	s.notify()
	return top.state, true
}

// Clear pops every state, top first
// Only intermediate states are resumed; the last removal resumes nothing
func (s *Stack) Clear(ctx *core.Context) {
	for {
		if _, ok := s.Pop(ctx); !ok {
			return
		}
	}
}

// Update runs background ticks bottom to top, then the active tick, then applies its transition
// Transitions are fully absorbed; the returned value is always None
func (s *Stack) Update(ctx *core.Context) Transition {
	n := len(s.entries)
	if n == 0 {
		return None()
	}

	for i := 0; i < n-1; i++ {
		s.mustBeLoaded(i, "background update")
		s.entries[i].state.BackgroundUpdate(ctx)
	}

	s.mustBeLoaded(n-1, "update")
	tr := s.entries[n-1].state.Update(ctx)
	s.apply(ctx, tr)
	return None()
}

// Render draws background states bottom to top, then the active state
func (s *Stack) Render(ctx *core.Context) {
	n := len(s.entries)
	if n == 0 {
		return
	}

	for i := 0; i < n-1; i++ {
		s.mustBeLoaded(i, "background render")
		s.entries[i].state.BackgroundRender(ctx)
	}

	s.mustBeLoaded(n-1, "render")
	s.entries[n-1].state.Render(ctx)
}

// HandleEvent forwards ev to the active state if it implements EventHandler
// Returns whether a handler consumed it
func (s *Stack) HandleEvent(ctx *core.Context, ev event.Event) bool {
	top, ok := s.Active()
	if !ok {
		return false
	}
	h, ok := top.(EventHandler)
	if !ok {
		return false
	}
	h.HandleEvent(ctx, ev)
	return true
}

// apply executes a transition returned by the active state
func (s *Stack) apply(ctx *core.Context, tr Transition) {
	if tr.Kind == TransitionNone {
		return
	}

	ctx.Logger().V(logging.DEBUG).Info("State transition",
		"kind", tr.Kind.String(), "depth", len(s.entries), "target", stateName(tr.State))

	switch tr.Kind {
	case TransitionPush:
		s.Push(ctx, tr.State)
	case TransitionPop:
		s.Pop(ctx)
	case TransitionCleanPush:
		s.Clear(ctx)
		s.Push(ctx, tr.State)
	case TransitionQuit:
		s.Clear(ctx)
	default:
		panic(fmt.Sprintf("state: unknown transition kind %d", tr.Kind))
	}
}

// mustBeLoaded guards the Setup-before-Update/Render discipline
func (s *Stack) mustBeLoaded(i int, op string) {
	if !s.entries[i].loaded {
		panic(fmt.Sprintf("state: %s on %s before setup", op, stateName(s.entries[i].state)))
	}
}

func (s *Stack) notify() {
	if s.observer != nil {
		s.observer.StackDepthChanged(len(s.entries))
	}
}

func stateName(st State) string {
	if st == nil {
		return "<nil>"
	}
	if n, ok := st.(fmt.Stringer); ok {
		return n.String()
	}
	return fmt.Sprintf("%T", st)
}

// === Nesting ===
// A Stack is itself a State: pushed onto an outer stack it absorbs its own transitions
// and never emits one outward
// A nested stack emptied by an inner Quit stays on the outer stack as an empty entry,
// so the outer stack is not emptied and the engine keeps running until an outer state
// pops the nested stack or quits

func (s *Stack) Setup(*core.Context) {}

// Shutdown clears the nested stack
func (s *Stack) Shutdown(ctx *core.Context) {
	s.Clear(ctx)
}

func (s *Stack) Pause(*core.Context)  {}
func (s *Stack) Resume(*core.Context) {}

// BackgroundUpdate ticks the nested stack as if it were active
func (s *Stack) BackgroundUpdate(ctx *core.Context) {
	s.Update(ctx)
}

// BackgroundRender draws the nested stack as if it were active
func (s *Stack) BackgroundRender(ctx *core.Context) {
	s.Render(ctx)
}
