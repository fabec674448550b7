// Package runner executes external programs for ccrun: the Runner seam
// used for anything that needs the caller's terminal, and Headless, which
// runs the agent once under a pseudo-terminal.
package runner

import (
	"io"
	"os"
	"os/exec"
)

// Runner executes commands with standard streams attached.
type Runner interface {
	// RunInteractive runs a command in dir with stdin/stdout/stderr
	// attached. If dir is empty, uses the current working directory.
	// Used for interactive commands like tmux attach.
	RunInteractive(dir, name string, args ...string) error
}

// Compile-time check that *Local implements Runner.
var _ Runner = (*Local)(nil)

// Local executes commands on the local machine.
type Local struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewLocal creates a local runner bound to the process's own streams.
func NewLocal() *Local {
	return &Local{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *Local) RunInteractive(dir, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd.Run()
}
