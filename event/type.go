package event

// EventType represents the type of engine event
type EventType int

const (
	// EventNone is the zero value, never produced by a Loop
	EventNone EventType = iota

	// === Core Events ===

	// EventQuit requests engine shutdown
	// Trigger: Context.Quit, context cancellation, empty state stack
	// Consumer: Engine driver | Payload: nil
	EventQuit

	// EventsCleared signals the queue has been drained for this frame
	// Synthesized by Loop.NextEvent, never physically enqueued
	// Consumer: Engine driver (runs scheduler update + render) | Payload: nil
	EventsCleared

	// EventUser carries an application-defined payload
	// Trigger: Game code, background workers via Sender
	// Consumer: Active state EventHandler | Payload: any
	EventUser

	// === Window Events ===

	// EventKey signals a key press from the window backend
	// Trigger: terminal poller
	// Consumer: Active state EventHandler | Payload: KeyPayload
	EventKey EventType = iota + 100 // Offset reserved range

	// EventResize signals a change of the drawable area
	// Trigger: terminal poller
	// Consumer: Active state EventHandler | Payload: ResizePayload
	EventResize

	// EventFocus signals the window gained or lost focus
	// Trigger: terminal poller
	// Consumer: Active state EventHandler | Payload: FocusPayload
	EventFocus

	// === Engine Internal ===

	// EventConfigReload carries a freshly loaded configuration
	// Trigger: config watcher
	// Consumer: Engine driver | Payload: *config.Config
	EventConfigReload EventType = iota + 200
)

// Event is the unit delivered by a Loop
type Event struct {
	Type    EventType
	Payload any
}

// String returns the registered name of the event type
func (t EventType) String() string {
	if name, ok := typeToName[t]; ok {
		return name
	}
	return "Unknown"
}

// IsWindow reports whether the type belongs to the reserved window range
func (t EventType) IsWindow() bool {
	return t >= EventKey && t < EventConfigReload
}
