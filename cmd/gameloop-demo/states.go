package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/gameloop/audio"
	"github.com/lixenwraith/gameloop/core"
	"github.com/lixenwraith/gameloop/event"
	"github.com/lixenwraith/gameloop/logging"
	"github.com/lixenwraith/gameloop/scheduler"
	"github.com/lixenwraith/gameloop/state"
)

const (
	ballRune  = '●'
	ballSpeed = 0.25 // cells per tick
	blinkTick = 60   // title prompt toggles every blinkTick ticks
)

var (
	styleTitle  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleHUD    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleBall   = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleFrozen = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBanner = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
)

// === Shared helpers ===

// pending holds a transition requested by an event until the next tick returns it
type pending struct {
	next state.Transition
}

func (p *pending) request(tr state.Transition) {
	p.next = tr
}

func (p *pending) take() state.Transition {
	tr := p.next
	p.next = state.None()
	return tr
}

func screenOf(ctx *core.Context) tcell.Screen {
	return core.MustGetResource[tcell.Screen](ctx.Resources)
}

// playCue plays c when audio is wired, silently otherwise
func playCue(ctx *core.Context, c audio.Cue) {
	if p, ok := core.GetResource[*audio.Player](ctx.Resources); ok {
		p.Play(c)
	}
}

func toggleMute(ctx *core.Context) {
	if p, ok := core.GetResource[*audio.Player](ctx.Resources); ok {
		muted := p.ToggleMute()
		ctx.Logger().V(logging.VERBOSE).Info("Audio mute toggled", "muted", muted)
	}
}

// quitKey reports keys that end the program from any state
func quitKey(k event.KeyPayload) bool {
	return k.Key == event.KeyCtrlC || k.IsRune('q')
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, s string) {
	for i, r := range []rune(s) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

func drawCentered(screen tcell.Screen, y int, style tcell.Style, s string) {
	w, _ := screen.Size()
	drawText(screen, (w-len([]rune(s)))/2, y, style, s)
}

// drawHUD prints scheduler counters on the bottom row
func drawHUD(ctx *core.Context, screen tcell.Screen) {
	res, ok := core.GetResource[*scheduler.Resource](ctx.Resources)
	if !ok {
		return
	}
	_, h := screen.Size()
	line := fmt.Sprintf(" ticks %d  frames %d  step %v  lag %v  alpha %.2f ",
		res.Ticks, res.Frames, res.TimeStep, res.Lag, res.Alpha)
	drawText(screen, 0, h-1, styleHUD, line)
}

// === Title ===

type titleState struct {
	state.Base
	pending
	ticks int
}

func newTitleState() *titleState {
	return &titleState{}
}

func (s *titleState) String() string { return "title" }

func (s *titleState) HandleEvent(ctx *core.Context, ev event.Event) {
	k, ok := ev.AsKey()
	if !ok {
		return
	}
	switch {
	case quitKey(k) || k.Key == event.KeyEscape:
		playCue(ctx, audio.CueQuit)
		s.request(state.Quit())
	case k.Key == event.KeyEnter || k.IsRune(' '):
		playCue(ctx, audio.CueConfirm)
		s.request(state.Push(newPlayState()))
	case k.IsRune('m'):
		toggleMute(ctx)
	}
}

func (s *titleState) Update(*core.Context) state.Transition {
	s.ticks++
	return s.take()
}

func (s *titleState) Render(ctx *core.Context) {
	screen := screenOf(ctx)
	_, h := screen.Size()
	mid := h / 2

	drawCentered(screen, mid-2, styleTitle, "G A M E L O O P")
	if (s.ticks/blinkTick)%2 == 0 {
		drawCentered(screen, mid, styleText, "press enter to start")
	}
	drawCentered(screen, mid+2, styleText, "q quit   m mute")
}

// === Play ===

// playState bounces a ball at a fixed rate and renders it interpolated between ticks
type playState struct {
	state.Base
	pending

	x, y         float64
	prevX, prevY float64
	vx, vy       float64
	bounces      int
}

func newPlayState() *playState {
	return &playState{vx: ballSpeed, vy: ballSpeed / 2}
}

func (s *playState) String() string { return "play" }

func (s *playState) Setup(ctx *core.Context) {
	w, h := screenOf(ctx).Size()
	s.x, s.y = float64(w)/2, float64(h)/2
	s.prevX, s.prevY = s.x, s.y
}

func (s *playState) Pause(ctx *core.Context) {
	ctx.Logger().V(logging.DEBUG).Info("Play paused", "bounces", s.bounces)
}

func (s *playState) Resume(ctx *core.Context) {
	ctx.Logger().V(logging.DEBUG).Info("Play resumed", "bounces", s.bounces)
}

func (s *playState) HandleEvent(ctx *core.Context, ev event.Event) {
	k, ok := ev.AsKey()
	if !ok {
		return
	}
	switch {
	case quitKey(k):
		playCue(ctx, audio.CueQuit)
		s.request(state.Quit())
	case k.Key == event.KeyEscape:
		s.request(state.Pop())
	case k.IsRune('p') || k.IsRune(' '):
		s.request(state.Push(newPauseState()))
	case k.IsRune('m'):
		toggleMute(ctx)
	case k.Key == event.KeyLeft:
		s.vx = -ballSpeed
	case k.Key == event.KeyRight:
		s.vx = ballSpeed
	case k.Key == event.KeyUp:
		s.vy = -ballSpeed / 2
	case k.Key == event.KeyDown:
		s.vy = ballSpeed / 2
	default:
		playCue(ctx, audio.CueError)
	}
}

func (s *playState) Update(ctx *core.Context) state.Transition {
	w, h := screenOf(ctx).Size()
	// Bottom row is the HUD
	maxX, maxY := float64(w-1), float64(h-2)

	s.prevX, s.prevY = s.x, s.y
	s.x += s.vx
	s.y += s.vy

	if s.x < 0 || s.x > maxX {
		s.vx = -s.vx
		s.x = clamp(s.x, 0, maxX)
		s.bounce(ctx)
	}
	if s.y < 0 || s.y > maxY {
		s.vy = -s.vy
		s.y = clamp(s.y, 0, maxY)
		s.bounce(ctx)
	}

	return s.take()
}

func (s *playState) bounce(ctx *core.Context) {
	s.bounces++
	playCue(ctx, audio.CueTick)
}

func (s *playState) Render(ctx *core.Context) {
	alpha := 1.0
	if res, ok := core.GetResource[*scheduler.Resource](ctx.Resources); ok {
		alpha = res.Alpha
	}
	s.draw(ctx, styleBall, alpha)
	drawHUD(ctx, screenOf(ctx))
}

// BackgroundRender shows the frozen ball under overlays
func (s *playState) BackgroundRender(ctx *core.Context) {
	s.draw(ctx, styleFrozen, 1)
}

func (s *playState) draw(ctx *core.Context, style tcell.Style, alpha float64) {
	screen := screenOf(ctx)
	x := s.prevX + (s.x-s.prevX)*alpha
	y := s.prevY + (s.y-s.prevY)*alpha
	screen.SetContent(int(x+0.5), int(y+0.5), ballRune, nil, style)
	drawText(screen, 0, 0, styleText, fmt.Sprintf(" bounces %d ", s.bounces))
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

// === Pause ===

type pauseState struct {
	state.Base
	pending
}

func newPauseState() *pauseState {
	return &pauseState{}
}

func (s *pauseState) String() string { return "pause" }

func (s *pauseState) HandleEvent(ctx *core.Context, ev event.Event) {
	k, ok := ev.AsKey()
	if !ok {
		return
	}
	switch {
	case quitKey(k):
		playCue(ctx, audio.CueQuit)
		s.request(state.Quit())
	case k.IsRune('p') || k.IsRune(' ') || k.Key == event.KeyEscape:
		s.request(state.Pop())
	case k.IsRune('r'):
		playCue(ctx, audio.CueConfirm)
		s.request(state.CleanPush(newPlayState()))
	case k.IsRune('m'):
		toggleMute(ctx)
	}
}

func (s *pauseState) Update(*core.Context) state.Transition {
	return s.take()
}

func (s *pauseState) Render(ctx *core.Context) {
	screen := screenOf(ctx)
	_, h := screen.Size()
	drawCentered(screen, h/2, styleBanner, "  PAUSED  ")
	drawCentered(screen, h/2+2, styleText, "p resume   r restart   q quit")
	drawHUD(ctx, screen)
}
