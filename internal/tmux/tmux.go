// Package tmux implements session.Sessions on top of the tmux binary.
//
// Every command targets an explicit socket (-S) taken from the session
// ID, so ccrun never touches the user's default tmux server and two
// IDs on different sockets can never collide.
package tmux

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/zonghui1968/clawd-skills/internal/runner"
	"github.com/zonghui1968/clawd-skills/internal/session"
	"github.com/zonghui1968/clawd-skills/internal/util"
)

// Compile-time check that *Tmux implements session.Sessions.
var _ session.Sessions = (*Tmux)(nil)

// Errors returned by tmux operations, classified from tmux's stderr.
var (
	ErrNoServer        = session.ErrNoServer
	ErrSessionExists   = session.ErrSessionExists
	ErrSessionNotFound = session.ErrSessionNotFound
)

// DefaultBinary is the tmux executable looked up on PATH.
const DefaultBinary = "tmux"

// Tmux runs tmux subcommands against the socket named by each session ID.
type Tmux struct {
	binary     string
	configFile string // passed as "-f <path>" on new-session; empty = tmux default
	runner     runner.Runner
}

// Option configures a Tmux.
type Option func(*Tmux)

// WithBinary overrides the tmux executable.
func WithBinary(path string) Option {
	return func(t *Tmux) { t.binary = path }
}

// WithConfigFile sets the config file tmux loads when the server starts.
// Tests pass "/dev/null" so the user's ~/.tmux.conf is never read.
func WithConfigFile(path string) Option {
	return func(t *Tmux) { t.configFile = path }
}

// WithRunner overrides the runner used for interactive attach.
func WithRunner(r runner.Runner) Option {
	return func(t *Tmux) { t.runner = r }
}

// NewTmux creates a new Tmux wrapper.
func NewTmux(opts ...Option) *Tmux {
	t := &Tmux{
		binary: DefaultBinary,
		runner: runner.NewLocal(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// IsAvailable reports whether the tmux binary can be found and executed.
func (t *Tmux) IsAvailable() bool {
	_, err := exec.LookPath(t.binary)
	return err == nil
}

// args prepends the socket flag to a subcommand.
func args(id session.ID, sub ...string) []string {
	return append([]string{"-S", id.SocketPath()}, sub...)
}

// run executes a tmux command and returns stdout.
func (t *Tmux) run(fullArgs ...string) (string, error) {
	cmd := exec.Command(t.binary, fullArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", wrapError(err, stderr.String(), subcommand(fullArgs))
	}
	return stdout.String(), nil
}

// subcommand returns the tmux subcommand name from a full argument list,
// skipping global flags and their values.
func subcommand(fullArgs []string) string {
	for i := 0; i < len(fullArgs); i++ {
		switch fullArgs[i] {
		case "-S", "-f", "-L":
			i++
		default:
			return fullArgs[i]
		}
	}
	return "tmux"
}

// wrapError wraps tmux errors with context.
func wrapError(err error, stderr, sub string) error {
	stderr = strings.TrimSpace(stderr)

	// Detect specific error types
	if strings.Contains(stderr, "no server running") ||
		strings.Contains(stderr, "error connecting to") ||
		strings.Contains(stderr, "server exited unexpectedly") {
		return fmt.Errorf("tmux %s: %w", sub, ErrNoServer)
	}
	if strings.Contains(stderr, "duplicate session") {
		return fmt.Errorf("tmux %s: %w", sub, ErrSessionExists)
	}
	if strings.Contains(stderr, "session not found") ||
		strings.Contains(stderr, "can't find session") ||
		strings.Contains(stderr, "can't find pane") ||
		strings.Contains(stderr, "can't find window") {
		return fmt.Errorf("tmux %s: %w", sub, ErrSessionNotFound)
	}

	if stderr != "" {
		return fmt.Errorf("tmux %s: %s", sub, stderr)
	}
	return fmt.Errorf("tmux %s: %w", sub, err)
}

// createArgs builds the new-session command. The -f flag goes first
// because new-session may start the server, which is the only time the
// config file is read.
func (t *Tmux) createArgs(id session.ID, window string) []string {
	var full []string
	if t.configFile != "" {
		full = append(full, "-f", t.configFile)
	}
	full = append(full, args(id, "new-session", "-d", "-s", id.Name, "-n", window)...)
	return full
}

// Create makes a fresh detached session with a single named window. The
// socket directory is created if needed.
func (t *Tmux) Create(id session.ID, window string) error {
	if err := session.ValidateName(id.Name); err != nil {
		return err
	}
	if err := os.MkdirAll(id.SocketDir, 0700); err != nil {
		return fmt.Errorf("creating socket dir: %w", err)
	}
	_, err := t.run(t.createArgs(id, window)...)
	return err
}

// Kill terminates a session. A missing session or stopped server is
// reported as a wrapped ErrSessionNotFound / ErrNoServer; callers pick a
// policy for it.
func (t *Tmux) Kill(id session.ID) error {
	_, err := t.run(args(id, "kill-session", "-t", id.ExactName())...)
	return err
}

// Exists checks if a session exists (exact name match).
func (t *Tmux) Exists(id session.ID) (bool, error) {
	_, err := t.run(args(id, "has-session", "-t", id.ExactName())...)
	if err != nil {
		if session.IsMissing(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ServerRunning reports whether a tmux server answers on id's socket.
// id.Name is ignored.
func (t *Tmux) ServerRunning(id session.ID) (bool, error) {
	_, err := t.run("-S", id.SocketPath(), "list-sessions")
	if errors.Is(err, ErrNoServer) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// literalArgs builds a send-keys command that types text verbatim. The
// "--" stops tmux from reading text starting with "-" as a flag.
func literalArgs(id session.ID, text string) []string {
	return args(id, "send-keys", "-t", id.ExactTarget(), "-l", "--", text)
}

// SendLiteral types text into the session's pane without pressing Enter.
func (t *Tmux) SendLiteral(id session.ID, text string) error {
	_, err := t.run(literalArgs(id, text)...)
	return err
}

// SendKey presses a named key ("Enter", "Escape", "C-c", ...).
func (t *Tmux) SendKey(id session.ID, key string) error {
	_, err := t.run(args(id, "send-keys", "-t", id.ExactTarget(), key)...)
	return err
}

// captureArgs builds a capture-pane command for the trailing lines.
// -J joins wrapped lines so a pattern split by the terminal width still
// matches.
func captureArgs(id session.ID, lines int) []string {
	return args(id, "capture-pane", "-p", "-J", "-t", id.ExactTarget(), "-S", "-"+strconv.Itoa(lines))
}

// Capture returns the trailing lines of the pane's scrollback.
func (t *Tmux) Capture(id session.ID, lines int) (string, error) {
	return t.run(captureArgs(id, lines)...)
}

// Attach attaches the current terminal to the session. It blocks until
// the user detaches.
func (t *Tmux) Attach(id session.ID) error {
	if err := t.runner.RunInteractive("", t.binary, args(id, "attach-session", "-t", id.ExactName())...); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("tmux attach-session: exit status %d", exitErr.ExitCode())
		}
		return fmt.Errorf("tmux attach-session: %w", err)
	}
	return nil
}

// AttachCommand returns a shell command an operator can paste to attach.
func (t *Tmux) AttachCommand(id session.ID) string {
	return fmt.Sprintf("%s -S %s attach -t %s",
		t.binary, util.ShellQuote(id.SocketPath()), util.ShellQuote(id.ExactName()))
}

// CaptureCommand returns a shell command an operator can paste to print
// the trailing lines of the pane.
func (t *Tmux) CaptureCommand(id session.ID, lines int) string {
	return fmt.Sprintf("%s -S %s capture-pane -p -J -t %s -S -%d",
		t.binary, util.ShellQuote(id.SocketPath()), util.ShellQuote(id.ExactTarget()), lines)
}
