package agent

import (
	"log/slog"
	"time"

	"github.com/zonghui1968/clawd-skills/internal/clock"
	"github.com/zonghui1968/clawd-skills/internal/session"
)

// Snapshotter takes one optional, delayed capture of a session.
type Snapshotter struct {
	sess   session.Sessions
	clk    clock.Clock
	lines  int
	logger *slog.Logger
}

// NewSnapshotter creates a Snapshotter capturing CaptureLines lines.
func NewSnapshotter(sess session.Sessions, clk clock.Clock, logger *slog.Logger) *Snapshotter {
	return &Snapshotter{sess: sess, clk: clk, lines: CaptureLines, logger: orDiscard(logger)}
}

// Maybe sleeps wait and captures once. It returns ok=false when wait is
// not positive or the capture fails.
func (s *Snapshotter) Maybe(id session.ID, wait time.Duration) (string, bool) {
	if wait <= 0 {
		return "", false
	}
	s.clk.Sleep(wait)

	text, err := s.sess.Capture(id, s.lines)
	if session.SnapshotCapture.Ignores(err) {
		s.logger.Debug("snapshot capture failed", "session", id.String(),
			"policy", session.SnapshotCapture.Name(), "error", err)
		return "", false
	}
	return text, true
}
