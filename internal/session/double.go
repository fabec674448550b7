package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Double is an in-memory test double for the Sessions interface.
// It implements the same contract as real tmux but without subprocess
// overhead; RunConformanceTests keeps the two in step.
//
// Typed text accumulates on the pane's current line and KeyEnter commits
// it, so Capture shows what a shell would have echoed.
type Double struct {
	mu       sync.RWMutex
	sessions map[ID]*doubleSession
	scripts  map[ID][]CaptureStep
	events   []Event
}

type doubleSession struct {
	window string
	lines  []string // committed lines
	input  string   // current, uncommitted line
}

// CaptureStep is one scripted result for Capture.
type CaptureStep struct {
	Text string
	Err  error
}

// Event records one call made against the double.
type Event struct {
	Kind    string // "create", "kill", "literal", "key" or "capture"
	Session ID
	Text    string // literal text or key name
}

// Event kinds.
const (
	EventCreate  = "create"
	EventKill    = "kill"
	EventLiteral = "literal"
	EventKey     = "key"
	EventCapture = "capture"
)

// NewDouble creates a new in-memory Sessions test double.
func NewDouble() *Double {
	return &Double{
		sessions: make(map[ID]*doubleSession),
		scripts:  make(map[ID][]CaptureStep),
	}
}

// Ensure Double implements Sessions
var _ Sessions = (*Double)(nil)

func notFound(id ID) error {
	return fmt.Errorf("session %s: %w", id.Name, ErrSessionNotFound)
}

// --- Lifecycle ---

// Create starts a session. Fails if the name already exists on this socket.
func (d *Double) Create(id ID, window string) error {
	if id.Name == "" {
		return errors.New("session name cannot be empty")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.events = append(d.events, Event{Kind: EventCreate, Session: id, Text: window})
	if _, exists := d.sessions[id]; exists {
		return fmt.Errorf("duplicate session %s: %w", id.Name, ErrSessionExists)
	}

	d.sessions[id] = &doubleSession{window: window}
	return nil
}

// Kill removes a session. Returns ErrSessionNotFound if it does not exist.
func (d *Double) Kill(id ID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.events = append(d.events, Event{Kind: EventKill, Session: id})
	if _, exists := d.sessions[id]; !exists {
		return notFound(id)
	}
	delete(d.sessions, id)
	return nil
}

// Exists checks if a session exists.
func (d *Double) Exists(id ID) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, exists := d.sessions[id]
	return exists, nil
}

// --- Communication ---

// SendLiteral appends text to the pane's current line.
func (d *Double) SendLiteral(id ID, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.events = append(d.events, Event{Kind: EventLiteral, Session: id, Text: text})
	sess, exists := d.sessions[id]
	if !exists {
		return notFound(id)
	}
	sess.input += text
	return nil
}

// SendKey presses a named key. KeyEnter commits the current line; other
// keys are only logged.
func (d *Double) SendKey(id ID, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.events = append(d.events, Event{Kind: EventKey, Session: id, Text: key})
	sess, exists := d.sessions[id]
	if !exists {
		return notFound(id)
	}
	if key == KeyEnter {
		sess.lines = append(sess.lines, sess.input)
		sess.input = ""
	}
	return nil
}

// --- Observation ---

// Capture returns the next scripted step for id if one is queued,
// otherwise the trailing lines of the session buffer.
func (d *Double) Capture(id ID, lines int) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.events = append(d.events, Event{Kind: EventCapture, Session: id})
	if queue := d.scripts[id]; len(queue) > 0 {
		step := queue[0]
		d.scripts[id] = queue[1:]
		return step.Text, step.Err
	}

	sess, exists := d.sessions[id]
	if !exists {
		return "", notFound(id)
	}

	buffer := append(append([]string(nil), sess.lines...), sess.input)
	start := 0
	if lines > 0 && len(buffer) > lines {
		start = len(buffer) - lines
	}
	return strings.Join(buffer[start:], "\n"), nil
}

// --- Test helpers (not part of Sessions interface) ---

// QueueCaptures scripts the results of the next Capture calls for id.
// Once the queue drains, Capture falls back to the session buffer.
func (d *Double) QueueCaptures(id ID, steps ...CaptureStep) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.scripts[id] = append(d.scripts[id], steps...)
}

// SetOutput appends lines to a session's committed output, as if the
// program in the pane had printed them.
func (d *Double) SetOutput(id ID, lines ...string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	sess, exists := d.sessions[id]
	if !exists {
		return notFound(id)
	}
	sess.lines = append(sess.lines, lines...)
	return nil
}

// Events returns a copy of every call made, in order.
func (d *Double) Events() []Event {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]Event, len(d.events))
	copy(result, d.events)
	return result
}

// EventsOf returns the events of one kind, in order.
func (d *Double) EventsOf(kind string) []Event {
	var result []Event
	for _, e := range d.Events() {
		if e.Kind == kind {
			result = append(result, e)
		}
	}
	return result
}

// Literals returns the literal text sent to id, in order.
func (d *Double) Literals(id ID) []string {
	var result []string
	for _, e := range d.EventsOf(EventLiteral) {
		if e.Session == id {
			result = append(result, e.Text)
		}
	}
	return result
}

// Keys returns the named keys sent to id, in order.
func (d *Double) Keys(id ID) []string {
	var result []string
	for _, e := range d.EventsOf(EventKey) {
		if e.Session == id {
			result = append(result, e.Text)
		}
	}
	return result
}

// CaptureCount returns how many times Capture was called.
func (d *Double) CaptureCount() int {
	return len(d.EventsOf(EventCapture))
}

// SessionCount returns the number of live sessions.
func (d *Double) SessionCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.sessions)
}

// Window returns the window name a session was created with.
func (d *Double) Window(id ID) string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if sess, ok := d.sessions[id]; ok {
		return sess.window
	}
	return ""
}

// ClearEvents forgets recorded events, keeping sessions.
func (d *Double) ClearEvents() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.events = nil
}
