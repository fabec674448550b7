package doctor

import (
	"fmt"
	"os/exec"

	"github.com/zonghui1968/clawd-skills/internal/config"
	"github.com/zonghui1968/clawd-skills/internal/runner"
	"github.com/zonghui1968/clawd-skills/internal/tmux"
)

// LookPathFunc resolves an executable like exec.LookPath.
type LookPathFunc func(file string) (string, error)

// BinaryCheck verifies that a program can be executed.
type BinaryCheck struct {
	BaseCheck
	lookPath LookPathFunc
	binary   func(*CheckContext) string
	missing  Status
	hint     string
}

// NewClaudeBinaryCheck checks the configured agent binary. Without it
// nothing works, so a miss is an error.
func NewClaudeBinaryCheck(lookPath LookPathFunc) *BinaryCheck {
	return &BinaryCheck{
		BaseCheck: BaseCheck{
			CheckName:        "claude-binary",
			CheckDescription: "Check that the claude binary is executable",
		},
		lookPath: orLookPath(lookPath),
		binary:   func(ctx *CheckContext) string { return ctx.Config.ClaudeBin },
		missing:  StatusError,
		hint:     fmt.Sprintf("install Claude Code or set %s=/path/to/claude", config.EnvClaudeBin),
	}
}

// NewTmuxCheck checks for tmux. Headless runs work without it.
func NewTmuxCheck(lookPath LookPathFunc) *BinaryCheck {
	return &BinaryCheck{
		BaseCheck: BaseCheck{
			CheckName:        "tmux",
			CheckDescription: "Check that tmux is installed (interactive mode)",
		},
		lookPath: orLookPath(lookPath),
		binary:   func(*CheckContext) string { return tmux.DefaultBinary },
		missing:  StatusWarning,
		hint:     "install tmux to use interactive mode",
	}
}

// NewScriptCheck checks for script(1). Without it headless runs have no
// terminal unless --pty builtin is used.
func NewScriptCheck(lookPath LookPathFunc) *BinaryCheck {
	return &BinaryCheck{
		BaseCheck: BaseCheck{
			CheckName:        "pty-wrapper",
			CheckDescription: "Check that script(1) is installed (headless mode)",
		},
		lookPath: orLookPath(lookPath),
		binary:   func(*CheckContext) string { return runner.ScriptBinary },
		missing:  StatusWarning,
		hint:     "install util-linux or run with --pty builtin",
	}
}

// Run resolves the binary.
func (c *BinaryCheck) Run(ctx *CheckContext) *CheckResult {
	bin := c.binary(ctx)
	path, err := c.lookPath(bin)
	if err != nil {
		res := c.result(c.missing, fmt.Sprintf("%s not found", bin), err.Error())
		res.FixHint = c.hint
		return res
	}
	return c.result(StatusOK, path)
}

func orLookPath(f LookPathFunc) LookPathFunc {
	if f == nil {
		return exec.LookPath
	}
	return f
}
