// Package session provides abstractions for scripting a persistent terminal
// session. The primary implementation is tmux on a private socket, but the
// abstraction lets the polling and keystroke logic run against an in-memory
// double in tests.
package session

import (
	"fmt"
	"path/filepath"
)

// ID identifies a session. A session name is only unique within one
// (socket directory, socket name) pair: two automations sharing the same
// triple will destroy each other's session on reset.
type ID struct {
	SocketDir  string // Directory holding the multiplexer socket
	SocketName string // Socket file name inside SocketDir
	Name       string // Session name
}

// SocketPath returns the full path of the multiplexer socket.
func (id ID) SocketPath() string {
	return filepath.Join(id.SocketDir, id.SocketName)
}

// ExactName returns the session name as a tmux target that only matches
// that exact session. A bare name also matches by prefix, so "cc" would
// resolve to "cc-1a2b3c4d" once "cc" is gone.
func (id ID) ExactName() string {
	return "=" + id.Name
}

// ExactTarget returns the exact-match address of the session's single pane.
func (id ID) ExactTarget() string {
	return id.ExactName() + ":0.0"
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return fmt.Sprintf("%s@%s", id.Name, id.SocketPath())
}

// Well-known key names understood by Sessions.SendKey.
const (
	KeyEnter = "Enter"
)

// Sessions is the capability ccrun needs from a terminal multiplexer.
//
// Every method addresses one session by ID. Implementations must send
// text passed to SendLiteral verbatim: it must not be interpreted as
// multiplexer key names or command syntax.
type Sessions interface {
	// Lifecycle
	Create(id ID, window string) error // Fresh detached session with one named window
	Kill(id ID) error                  // Terminate a session
	Exists(id ID) (bool, error)

	// Communication
	SendLiteral(id ID, text string) error // Type text exactly as given, no Enter
	SendKey(id ID, key string) error      // Press a named key (e.g. KeyEnter)

	// Observation
	Capture(id ID, lines int) (string, error) // Trailing lines of the pane scrollback
}

// CaptureFunc returns the current pane text or fails. It is the only
// thing the text poller knows about a session.
type CaptureFunc func() (string, error)

// Capturer binds Sessions.Capture to one session and a line count.
func Capturer(sess Sessions, id ID, lines int) CaptureFunc {
	return func() (string, error) {
		return sess.Capture(id, lines)
	}
}
