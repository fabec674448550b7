// Package wait polls a session's visible text until a literal pattern
// appears or a deadline passes.
package wait

import (
	"errors"
	"strings"
	"time"

	"github.com/zonghui1968/clawd-skills/internal/clock"
	"github.com/zonghui1968/clawd-skills/internal/session"
)

// DefaultInterval is the pause between captures.
const DefaultInterval = 500 * time.Millisecond

// ErrInvalidInterval is returned by Validate for a non-positive interval.
var ErrInvalidInterval = errors.New("poll interval must be positive")

// Condition describes what to wait for.
type Condition struct {
	Pattern  string        // Literal substring, not a regular expression
	Timeout  time.Duration // <= 0 means do not wait at all
	Interval time.Duration // Pause between captures
}

// Validate checks the condition's invariants.
func (c Condition) Validate() error {
	if c.Interval <= 0 {
		return ErrInvalidInterval
	}
	return nil
}

// For returns a condition with the default interval.
func For(pattern string, timeout time.Duration) Condition {
	return Condition{Pattern: pattern, Timeout: timeout, Interval: DefaultInterval}
}

// ForText captures repeatedly until the captured text contains
// cond.Pattern, returning true as soon as it does. It returns false once
// the deadline passes, without capturing at all when the timeout is not
// positive. Capture errors count as "not yet".
//
// An invalid interval falls back to DefaultInterval.
func ForText(clk clock.Clock, capture session.CaptureFunc, cond Condition) bool {
	if cond.Timeout <= 0 {
		return false
	}
	interval := cond.Interval
	if cond.Validate() != nil {
		interval = DefaultInterval
	}

	deadline := clk.Now().Add(cond.Timeout)
	for clk.Now().Before(deadline) {
		text, err := capture()
		switch {
		case err != nil:
			if !session.TransientCapture.Ignores(err) {
				return false
			}
		case strings.Contains(text, cond.Pattern):
			return true
		}
		clk.Sleep(interval)
	}
	return false
}
