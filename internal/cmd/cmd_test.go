package cmd

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/zonghui1968/clawd-skills/internal/clock"
	"github.com/zonghui1968/clawd-skills/internal/runner"
	"github.com/zonghui1968/clawd-skills/internal/session"
)

// recordingHeadless stands in for runner.Headless.
type recordingHeadless struct {
	strategy runner.Strategy
	commands []runner.Command
	code     int
	err      error
}

func (r *recordingHeadless) Run(cmd runner.Command) (int, error) {
	r.commands = append(r.commands, cmd)
	return r.code, r.err
}

// testEnv isolates one CLI invocation from the machine it runs on.
type testEnv struct {
	sessions  *session.Double
	headless  *recordingHeadless
	clock     *clock.FakeClock
	claudeBin string
	cwd       string
	socketDir string
	hasTmux   bool
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	t.Setenv("CCRUN_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("CLAUDE_CODE_BIN", "")
	t.Setenv("CLAWDBOT_TMUX_SOCKET_DIR", "")
	t.Setenv("NO_COLOR", "1")

	binDir := t.TempDir()
	claude := filepath.Join(binDir, "claude")
	require.NoError(t, os.WriteFile(claude, []byte("#!/bin/sh\nexit 0\n"), 0755))

	env := &testEnv{
		sessions:  session.NewDouble(),
		headless:  &recordingHeadless{},
		clock:     clock.Fake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		claudeBin: claude,
		cwd:       t.TempDir(),
		socketDir: t.TempDir(),
		hasTmux:   true,
	}

	origSessions, origTmux, origClock, origHeadless := sessionsProvider, tmuxAvailable, clockProvider, headlessProvider
	sessionsProvider = func() session.Sessions { return env.sessions }
	tmuxAvailable = func() bool { return env.hasTmux }
	clockProvider = func() clock.Clock { return env.clock }
	headlessProvider = func(strategy runner.Strategy, _ *slog.Logger) headlessRunner {
		env.headless.strategy = strategy
		return env.headless
	}
	t.Cleanup(func() {
		sessionsProvider, tmuxAvailable, clockProvider, headlessProvider = origSessions, origTmux, origClock, origHeadless
	})
	return env
}

// sessionID is the identity the CLI derives from env's default flags.
func (e *testEnv) sessionID() session.ID {
	return session.ID{SocketDir: e.socketDir, SocketName: "claude-code.sock", Name: "cc"}
}

// baseArgs are the flags every root invocation in tests needs.
func (e *testEnv) baseArgs() []string {
	return []string{"--claude-bin", e.claudeBin, "--cwd", e.cwd, "--tmux-socket-dir", e.socketDir}
}

type result struct {
	stdout string
	stderr string
	code   int
	err    error
}

// execute runs the CLI with args and returns its output and exit code.
func execute(t *testing.T, args ...string) result {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	code, _ := exitCodeFor(err)
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code, err: err}
}

// resetFlags restores every flag to its default so invocations do not
// leak state into each other.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	// Init resets the flag set's recorded "--" position, which pflag
	// otherwise carries over from the previous parse.
	c.Flags().Init(c.DisplayName(), pflag.ContinueOnError)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
