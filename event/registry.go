package event

import (
	"fmt"
	"reflect"
)

var (
	typeToName    = make(map[EventType]string)
	nameToType    = make(map[string]EventType)
	typeToPayload = make(map[EventType]reflect.Type)
)

func init() {
	registerType("None", EventNone, nil)
	registerType("Quit", EventQuit, nil)
	registerType("EventsCleared", EventsCleared, nil)
	registerType("User", EventUser, nil)
	registerType("Key", EventKey, KeyPayload{})
	registerType("Resize", EventResize, ResizePayload{})
	registerType("Focus", EventFocus, FocusPayload{})
	// Payload owned by config package, checked there
	registerType("ConfigReload", EventConfigReload, nil)
}

// registerType maps a name to an EventType and its payload type
// Pass nil when the payload is unchecked or absent
func registerType(name string, et EventType, payloadInstance any) {
	typeToName[et] = name
	nameToType[name] = et
	if payloadInstance != nil {
		typeToPayload[et] = reflect.TypeOf(payloadInstance)
	}
}

// ParseType returns the EventType registered under name
func ParseType(name string) (EventType, bool) {
	et, ok := nameToType[name]
	return et, ok
}

// Validate checks the event type is known and the payload matches its registration
func Validate(ev Event) error {
	if _, ok := typeToName[ev.Type]; !ok {
		return fmt.Errorf("unknown event type %d", ev.Type)
	}
	want, ok := typeToPayload[ev.Type]
	if !ok {
		return nil
	}
	if got := reflect.TypeOf(ev.Payload); got != want {
		return fmt.Errorf("event %s: payload %v, want %v", ev.Type, got, want)
	}
	return nil
}
