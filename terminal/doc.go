// @focus: #sys { term }
// Package terminal adapts a tcell screen to the engine event loop.
//
// Features:
//   - Screen lifecycle (init, restore on close, idempotent shutdown)
//   - Background input poller feeding engine events through a Sender
//   - Translation of tcell keys, resizes and focus changes into engine payloads
//
// Rendering goes straight through the tcell.Screen returned by Service.Screen.
package terminal
