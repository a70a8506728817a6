package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/gameloop/event"
)

var keyMap = map[tcell.Key]event.Key{
	tcell.KeyRune:       event.KeyRune,
	tcell.KeyEscape:     event.KeyEscape,
	tcell.KeyEnter:      event.KeyEnter,
	tcell.KeyTab:        event.KeyTab,
	tcell.KeyBackspace:  event.KeyBackspace,
	tcell.KeyBackspace2: event.KeyBackspace,
	tcell.KeyDelete:     event.KeyDelete,
	tcell.KeyUp:         event.KeyUp,
	tcell.KeyDown:       event.KeyDown,
	tcell.KeyLeft:       event.KeyLeft,
	tcell.KeyRight:      event.KeyRight,
	tcell.KeyHome:       event.KeyHome,
	tcell.KeyEnd:        event.KeyEnd,
	tcell.KeyPgUp:       event.KeyPageUp,
	tcell.KeyPgDn:       event.KeyPageDown,
	tcell.KeyCtrlC:      event.KeyCtrlC,
}

// Translate converts a tcell event into an engine event
// Returns false for events with no engine equivalent (mouse, paste, unmapped keys)
func Translate(tev tcell.Event) (event.Event, bool) {
	switch ev := tev.(type) {
	case *tcell.EventKey:
		key, ok := keyMap[ev.Key()]
		if !ok {
			return event.Event{}, false
		}
		var r rune
		if key == event.KeyRune {
			r = ev.Rune()
		}
		return event.KeyPress(key, r, translateMod(ev.Modifiers())), true

	case *tcell.EventResize:
		w, h := ev.Size()
		return event.Resize(w, h), true

	case *tcell.EventFocus:
		return event.Focus(ev.Focused), true
	}
	return event.Event{}, false
}

func translateMod(m tcell.ModMask) event.Modifier {
	var mod event.Modifier
	if m&tcell.ModShift != 0 {
		mod |= event.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mod |= event.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mod |= event.ModAlt
	}
	return mod
}
