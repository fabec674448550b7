// Package mode decides how a prompt is delivered to the agent.
package mode

import (
	"fmt"
	"slices"
	"strings"
)

// Mode is an execution mode.
type Mode string

const (
	// Auto picks Headless or Interactive from the prompt.
	Auto Mode = "auto"
	// Headless runs the agent once under a pseudo-terminal wrapper.
	Headless Mode = "headless"
	// Interactive drives a persistent tmux session with keystrokes.
	Interactive Mode = "interactive"
)

// Modes lists the accepted values in help order.
var Modes = []Mode{Auto, Headless, Interactive}

// Parse converts a flag value into a Mode.
func Parse(s string) (Mode, error) {
	m := Mode(strings.TrimSpace(s))
	if slices.Contains(Modes, m) {
		return m, nil
	}
	return "", fmt.Errorf("invalid mode %q: must be one of %s", s, Names())
}

// Names returns the accepted values joined for help and error text.
func Names() string {
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// Select resolves Auto. Slash commands (/review, /compact, ...) only work
// in the agent's interactive REPL, so a prompt with any line starting
// with "/" selects Interactive; anything else is Headless. Explicit modes
// are returned unchanged.
func Select(explicit Mode, prompt string) Mode {
	if explicit != Auto && explicit != "" {
		return explicit
	}
	if HasSlashCommand(prompt) {
		return Interactive
	}
	return Headless
}

// HasSlashCommand reports whether any line of prompt, ignoring leading
// and trailing whitespace, starts with "/".
func HasSlashCommand(prompt string) bool {
	for _, line := range strings.Split(prompt, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "/") {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (m Mode) String() string {
	return string(m)
}
