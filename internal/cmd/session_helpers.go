package cmd

import (
	"log/slog"

	"github.com/zonghui1968/clawd-skills/internal/clock"
	"github.com/zonghui1968/clawd-skills/internal/runner"
	"github.com/zonghui1968/clawd-skills/internal/session"
	"github.com/zonghui1968/clawd-skills/internal/tmux"
)

// sessionsProvider is a function that creates a Sessions instance.
// This can be overridden in tests to inject a double.
var sessionsProvider = func() session.Sessions {
	return newTmux()
}

// tmuxAvailable reports whether tmux can be run. Overridden in tests.
var tmuxAvailable = func() bool {
	return newTmux().IsAvailable()
}

// clockProvider returns the clock used for polling and pacing.
var clockProvider = clock.Real

// headlessRunner runs the agent once and reports its exit code.
type headlessRunner interface {
	Run(cmd runner.Command) (int, error)
}

// headlessProvider builds the headless runner. Overridden in tests.
var headlessProvider = func(strategy runner.Strategy, logger *slog.Logger) headlessRunner {
	return runner.NewHeadless(strategy, logger)
}

// newSessions returns a Sessions instance for terminal operations.
// Uses sessionsProvider which can be overridden in tests.
func newSessions() session.Sessions {
	return sessionsProvider()
}

// newTmux returns a Tmux instance for tmux-specific operations
// (attach, operator hint strings). For session operations, prefer
// newSessions().
func newTmux() *tmux.Tmux {
	return tmux.NewTmux()
}
