package runner

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/term"
)

// Strategy selects how Headless gives the child a terminal.
type Strategy string

const (
	// StrategyScript wraps the command in `script -q -c <line> /dev/null`,
	// falling back to direct execution when script is not installed.
	StrategyScript Strategy = "script"
	// StrategyBuiltin allocates a pseudo-terminal in-process.
	StrategyBuiltin Strategy = "builtin"
	// StrategyNone runs the command directly.
	StrategyNone Strategy = "none"
)

// ParseStrategy converts a flag value into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(s); st {
	case StrategyScript, StrategyBuiltin, StrategyNone:
		return st, nil
	}
	return "", fmt.Errorf("invalid pty strategy %q: must be one of script, builtin, none", s)
}

// ScriptBinary is the util-linux pseudo-terminal wrapper.
const ScriptBinary = "script"

// Headless runs a command to completion with a controlling terminal. The
// agent CLI can hang when started without one, even in print mode.
type Headless struct {
	Runner   Runner
	Strategy Strategy
	Logger   *slog.Logger

	// LookPath resolves ScriptBinary. Defaults to exec.LookPath.
	LookPath func(file string) (string, error)

	// Streams for StrategyBuiltin. The other strategies use Runner's.
	Stdin  io.Reader
	Stdout io.Writer
}

// NewHeadless returns a Headless bound to the process's own streams.
func NewHeadless(strategy Strategy, logger *slog.Logger) *Headless {
	return &Headless{
		Runner:   NewLocal(),
		Strategy: strategy,
		Logger:   logger,
		LookPath: exec.LookPath,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
	}
}

// Run executes cmd and returns the child's exit code. A non-zero exit is
// not an error; only failing to start the child is.
func (h *Headless) Run(cmd Command) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	switch h.Strategy {
	case StrategyBuiltin:
		return h.runPTY(cmd)
	case StrategyNone:
		return h.runDirect(cmd)
	default:
		lookPath := h.LookPath
		if lookPath == nil {
			lookPath = exec.LookPath
		}
		script, err := lookPath(ScriptBinary)
		if err != nil {
			h.logger().Debug("script not found; running without a pseudo-terminal",
				"command", cmd.Name(), "error", err)
			return h.runDirect(cmd)
		}
		h.logger().Debug("running under script", "script", script, "dir", cmd.Dir())
		return exitCode(cmd, h.Runner.RunInteractive(cmd.Dir(), script, "-q", "-c", cmd.ShellLine(), "/dev/null"))
	}
}

func (h *Headless) runDirect(cmd Command) (int, error) {
	return exitCode(cmd, h.Runner.RunInteractive(cmd.Dir(), cmd.Name(), cmd.Args()...))
}

// runPTY starts cmd on a new pseudo-terminal and relays stdin to it and
// its output to Stdout until the child exits.
func (h *Headless) runPTY(cmd Command) (int, error) {
	c := exec.Command(cmd.Name(), cmd.Args()...)
	c.Dir = cmd.Dir()

	ptmx, err := pty.Start(c)
	if err != nil {
		return 0, fmt.Errorf("starting %s on a pseudo-terminal: %w", cmd.Name(), err)
	}
	defer ptmx.Close()

	if in, ok := h.Stdin.(*os.File); ok && term.IsTerminal(int(in.Fd())) {
		resizeCh := make(chan os.Signal, 1)
		signal.Notify(resizeCh, syscall.SIGWINCH)
		defer func() {
			signal.Stop(resizeCh)
			close(resizeCh)
		}()
		go func() {
			for range resizeCh {
				if err := pty.InheritSize(in, ptmx); err != nil {
					h.logger().Debug("failed to resize pty", "error", err)
				}
			}
		}()
		resizeCh <- syscall.SIGWINCH

		oldState, err := term.MakeRaw(int(in.Fd()))
		if err != nil {
			return 0, fmt.Errorf("setting raw mode: %w", err)
		}
		defer func() { _ = term.Restore(int(in.Fd()), oldState) }()
	}

	if h.Stdin != nil {
		go func() { _, _ = io.Copy(ptmx, h.Stdin) }()
	}

	out := h.Stdout
	if out == nil {
		out = io.Discard
	}
	copied := make(chan struct{})
	go func() {
		// Reading the master fails with EIO once the child side closes.
		_, _ = io.Copy(out, ptmx)
		close(copied)
	}()

	waitErr := c.Wait()
	<-copied
	return exitCode(cmd, waitErr)
}

// exitCode converts a wait error into the child's exit code. A child
// killed by a signal reports 128+signal, as a shell would.
func exitCode(cmd Command, err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return 128 + int(status.Signal()), nil
		}
		return exitErr.ExitCode(), nil
	}
	return 0, fmt.Errorf("running %s: %w", cmd.Name(), err)
}

func (h *Headless) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return h.Logger
}
