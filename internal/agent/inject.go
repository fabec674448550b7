package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/zonghui1968/clawd-skills/internal/clock"
	"github.com/zonghui1968/clawd-skills/internal/session"
)

// Injector types multi-line text into a session one line at a time.
type Injector struct {
	sess session.Sessions
	clk  clock.Clock
}

// NewInjector creates an Injector.
func NewInjector(sess session.Sessions, clk clock.Clock) *Injector {
	return &Injector{sess: sess, clk: clk}
}

// PromptLines splits text into the lines SendLines would send: blank
// lines are dropped, the rest are kept verbatim.
func PromptLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// SendLines sends each non-blank line of text literally, presses Enter,
// then waits delay so the agent's input loop can take the next line.
func (in *Injector) SendLines(id session.ID, text string, delay time.Duration) error {
	for i, line := range PromptLines(text) {
		if err := in.sess.SendLiteral(id, line); err != nil {
			return fmt.Errorf("sending prompt line %d: %w", i+1, err)
		}
		if err := in.sess.SendKey(id, session.KeyEnter); err != nil {
			return fmt.Errorf("sending Enter after prompt line %d: %w", i+1, err)
		}
		in.clk.Sleep(delay)
	}
	return nil
}
