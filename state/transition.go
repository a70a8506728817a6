package state

// TransitionKind identifies a stack instruction
type TransitionKind uint8

const (
	TransitionNone TransitionKind = iota
	TransitionPush
	TransitionPop
	TransitionCleanPush
	TransitionQuit
)

// String returns the kind name
func (k TransitionKind) String() string {
	switch k {
	case TransitionNone:
		return "None"
	case TransitionPush:
		return "Push"
	case TransitionPop:
		return "Pop"
	case TransitionCleanPush:
		return "CleanPush"
	case TransitionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Transition is an instruction from the active state to its Stack
// State is set only for Push and CleanPush
type Transition struct {
	Kind  TransitionKind
	State State
}

// None keeps the stack unchanged
func None() Transition {
	return Transition{}
}

// Push pauses the active state and pushes s on top
func Push(s State) Transition {
	return Transition{Kind: TransitionPush, State: s}
}

// Pop removes the active state
func Pop() Transition {
	return Transition{Kind: TransitionPop}
}

// CleanPush removes every state then pushes s
func CleanPush(s State) Transition {
	return Transition{Kind: TransitionCleanPush, State: s}
}

// Quit removes every state
func Quit() Transition {
	return Transition{Kind: TransitionQuit}
}
