package core

import (
	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/lixenwraith/gameloop/event"
)

// Context is the shared surface handed to schedulers and states
// It is owned by a single loop goroutine; only the Sender may cross goroutines
type Context struct {
	// Resources holds typed shared data, at most one value per type
	Resources *ResourceStore

	id     uuid.UUID
	sender event.Sender[event.Event]
	logger logr.Logger
}

// NewContext creates a context bound to the given event sender
func NewContext(sender event.Sender[event.Event], logger logr.Logger) *Context {
	id := uuid.New()
	return &Context{
		Resources: NewResourceStore(),
		id:        id,
		sender:    sender,
		logger:    logger.WithValues("run", id.String()),
	}
}

// ID returns the unique identifier of this run
func (c *Context) ID() uuid.UUID {
	return c.id
}

// Logger returns the run-scoped logger
func (c *Context) Logger() logr.Logger {
	return c.logger
}

// Sender returns a clone of the engine event sender
func (c *Context) Sender() event.Sender[event.Event] {
	return c.sender.Clone()
}

// Send enqueues ev on the engine loop
func (c *Context) Send(ev event.Event) {
	c.sender.Send(ev)
}

// Quit requests engine shutdown
// The request is observed by the loop on its next pull
func (c *Context) Quit() {
	c.sender.Send(event.Quit())
}
