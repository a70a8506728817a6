package terminal

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/go-logr/logr"

	"github.com/lixenwraith/gameloop/core"
	"github.com/lixenwraith/gameloop/event"
	"github.com/lixenwraith/gameloop/logging"
)

// Service manages screen lifecycle and input polling
type Service struct {
	screen tcell.Screen
	logger logr.Logger

	doneCh  chan struct{}
	mu      sync.Mutex
	running bool
	closed  bool
}

// New creates a service on the process terminal
func New(logger logr.Logger) (*Service, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal screen: %w", err)
	}
	return NewWithScreen(screen, logger)
}

// NewWithScreen initializes the given screen, used with tcell.NewSimulationScreen in tests
func NewWithScreen(screen tcell.Screen, logger logr.Logger) (*Service, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("terminal init: %w", err)
	}
	screen.EnableFocus()
	screen.HideCursor()

	return &Service{
		screen: screen,
		logger: logger.WithName("terminal"),
		doneCh: make(chan struct{}),
	}, nil
}

// Start launches the input poller, translated events are sent to sender
// Calling Start more than once has no effect
func (s *Service) Start(sender event.Sender[event.Event]) {
	s.mu.Lock()
	if s.running || s.closed {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	core.Go(func() { s.pollLoop(sender) })
}

// pollLoop reads input until the screen is finalized
func (s *Service) pollLoop(sender event.Sender[event.Event]) {
	defer close(s.doneCh)

	traceLogger := s.logger.V(logging.TRACE)
	for {
		// PollEvent returns nil once Fini has been called
		tev := s.screen.PollEvent()
		if tev == nil {
			return
		}

		ev, ok := Translate(tev)
		if !ok {
			continue
		}
		traceLogger.Info("Input", "type", ev.Type.String())
		sender.Send(ev)
	}
}

// Screen returns the tcell screen for rendering
func (s *Service) Screen() tcell.Screen {
	return s.screen
}

// Size returns the current screen size in cells
func (s *Service) Size() (int, int) {
	return s.screen.Size()
}

// Close restores the terminal and waits for the poller to exit
// Safe to call more than once
func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	wasRunning := s.running
	s.mu.Unlock()

	s.screen.Fini()
	if wasRunning {
		<-s.doneCh
	}
	return nil
}
