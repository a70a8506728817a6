package event

// Key represents a backend-independent key code
type Key uint16

const (
	KeyNone Key = iota
	KeyRune     // Printable character (check KeyPayload.Rune)

	// Control keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete

	// Navigation
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// Interrupt
	KeyCtrlC
)

// Modifier is a bit mask of held modifier keys
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
)

// KeyPayload describes a key press
type KeyPayload struct {
	Key  Key
	Rune rune
	Mod  Modifier
}

// ResizePayload carries the new drawable area in cells
type ResizePayload struct {
	Width  int
	Height int
}

// FocusPayload reports window focus changes
type FocusPayload struct {
	Focused bool
}

// Quit creates a quit request
func Quit() Event {
	return Event{Type: EventQuit}
}

// User wraps an application payload
func User(payload any) Event {
	return Event{Type: EventUser, Payload: payload}
}

// KeyPress creates a key event
func KeyPress(key Key, r rune, mod Modifier) Event {
	return Event{Type: EventKey, Payload: KeyPayload{Key: key, Rune: r, Mod: mod}}
}

// Resize creates a resize event
func Resize(width, height int) Event {
	return Event{Type: EventResize, Payload: ResizePayload{Width: width, Height: height}}
}

// Focus creates a focus event
func Focus(focused bool) Event {
	return Event{Type: EventFocus, Payload: FocusPayload{Focused: focused}}
}

// AsKey returns the key payload if the event is a key press
func (e Event) AsKey() (KeyPayload, bool) {
	if e.Type != EventKey {
		return KeyPayload{}, false
	}
	p, ok := e.Payload.(KeyPayload)
	return p, ok
}

// AsResize returns the resize payload if the event is a resize
func (e Event) AsResize() (ResizePayload, bool) {
	if e.Type != EventResize {
		return ResizePayload{}, false
	}
	p, ok := e.Payload.(ResizePayload)
	return p, ok
}

// AsFocus returns the focus payload if the event is a focus change
func (e Event) AsFocus() (FocusPayload, bool) {
	if e.Type != EventFocus {
		return FocusPayload{}, false
	}
	p, ok := e.Payload.(FocusPayload)
	return p, ok
}

// IsRune reports whether the payload is the printable rune r
func (p KeyPayload) IsRune(r rune) bool {
	return p.Key == KeyRune && p.Rune == r
}
