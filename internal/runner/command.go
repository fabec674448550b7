package runner

import (
	"errors"

	"github.com/zonghui1968/clawd-skills/internal/util"
)

// ErrEmptyCommand is returned when a Command has no argv.
var ErrEmptyCommand = errors.New("empty command")

// Command is an argv plus the directory to run it in. It is immutable:
// NewCommand and Argv copy the slice.
type Command struct {
	argv []string
	dir  string
}

// NewCommand builds a Command. An empty dir means the current directory.
func NewCommand(dir string, argv ...string) Command {
	return Command{argv: append([]string(nil), argv...), dir: dir}
}

// Argv returns a copy of the argument vector.
func (c Command) Argv() []string {
	return append([]string(nil), c.argv...)
}

// Dir returns the working directory.
func (c Command) Dir() string {
	return c.dir
}

// Name returns argv[0], or "" for an empty command.
func (c Command) Name() string {
	if len(c.argv) == 0 {
		return ""
	}
	return c.argv[0]
}

// Args returns a copy of argv[1:].
func (c Command) Args() []string {
	if len(c.argv) < 2 {
		return nil
	}
	return append([]string(nil), c.argv[1:]...)
}

// ShellLine renders the argv for sh -c with every token quoted on its own.
func (c Command) ShellLine() string {
	return util.ShellJoin(c.argv)
}

// Validate reports an empty argv.
func (c Command) Validate() error {
	if len(c.argv) == 0 || c.argv[0] == "" {
		return ErrEmptyCommand
	}
	return nil
}
