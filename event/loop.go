package event

// Loop is the pull-based engine event source
// It never blocks: an idle queue yields EventsCleared until a Quit has been consumed,
// after which a drained queue yields nothing forever
type Loop struct {
	queue   *Queue[Event]
	hasQuit bool
}

// NewLoop creates a loop with an empty queue
func NewLoop() *Loop {
	return &Loop{queue: NewQueue[Event]()}
}

// NextEvent returns the next event to dispatch
// Returns false only once a Quit has been observed and the queue is empty
func (l *Loop) NextEvent() (Event, bool) {
	if ev, ok := l.queue.Next(); ok {
		if ev.Type == EventQuit {
			// Set before returning so the driver still observes the Quit itself
			l.hasQuit = true
		}
		return ev, true
	}

	if l.hasQuit {
		return Event{}, false
	}
	return Event{Type: EventsCleared}, true
}

// Sender returns a goroutine-safe handle onto the loop queue
func (l *Loop) Sender() Sender[Event] {
	return l.queue.Sender()
}

// HasQuit reports whether a Quit event has been consumed
func (l *Loop) HasQuit() bool {
	return l.hasQuit
}

// Pending returns the number of queued events
func (l *Loop) Pending() int {
	return l.queue.Len()
}
