package cmd

import (
	"errors"
	"fmt"
)

// Exit codes.
const (
	exitOK            = 0
	exitFailure       = 1
	exitMissingBinary = 2
)

// ErrMissingBinary means a required program (the agent or tmux) could
// not be found or is not executable.
var ErrMissingBinary = errors.New("binary not found")

// ExitError signals a non-zero exit code without printing an extra
// error message. The command is expected to have already written its
// own output, or the code is the wrapped agent's own exit status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// exitCodeFor maps an error returned from a command to a process exit
// code and reports whether the error still needs printing.
func exitCodeFor(err error) (int, bool) {
	if err == nil {
		return exitOK, false
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, false
	}
	if errors.Is(err, ErrMissingBinary) {
		return exitMissingBinary, true
	}
	return exitFailure, true
}
