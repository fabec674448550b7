// Package agent drives the coding agent inside a multiplexer session:
// resetting and launching the session, typing the prompt, getting past
// the workspace-trust dialog and taking a final snapshot.
package agent

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/zonghui1968/clawd-skills/internal/runner"
	"github.com/zonghui1968/clawd-skills/internal/session"
	"github.com/zonghui1968/clawd-skills/internal/util"
)

// CaptureLines is how much scrollback every capture asks for.
const CaptureLines = 200

// Manager owns the session lifecycle: reset, create and launch.
type Manager struct {
	sess   session.Sessions
	logger *slog.Logger
}

// NewManager creates a Manager. A nil logger discards output.
func NewManager(sess session.Sessions, logger *slog.Logger) *Manager {
	return &Manager{sess: sess, logger: orDiscard(logger)}
}

// ResetAndCreate kills any session with the same identity and creates a
// fresh detached one with a single window. Calling it twice in a row
// still leaves exactly one session.
func (m *Manager) ResetAndCreate(id session.ID) error {
	if err := m.sess.Kill(id); session.ResetKill.Ignores(err) {
		m.logger.Debug("ignored kill error during reset",
			"session", id.String(), "policy", session.ResetKill.Name(), "error", err)
	}

	if err := session.Critical.Apply(m.sess.Create(id, session.DefaultWindow)); err != nil {
		return fmt.Errorf("creating session %s: %w", id, err)
	}
	m.logger.Debug("session created", "session", id.String())
	return nil
}

// LaunchLine returns the shell line typed into the session to start cmd:
// a cd into its directory followed by the quoted argv.
func LaunchLine(cmd runner.Command) string {
	if cmd.Dir() == "" {
		return cmd.ShellLine()
	}
	return "cd " + util.ShellQuote(cmd.Dir()) + " && " + cmd.ShellLine()
}

// Launch types the launch line into the session's shell and presses Enter.
func (m *Manager) Launch(id session.ID, cmd runner.Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	line := LaunchLine(cmd)
	if err := m.sess.SendLiteral(id, line); err != nil {
		return fmt.Errorf("sending launch command: %w", err)
	}
	if err := m.sess.SendKey(id, session.KeyEnter); err != nil {
		return fmt.Errorf("sending launch Enter: %w", err)
	}
	m.logger.Debug("launched", "session", id.String(), "line", line)
	return nil
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}
