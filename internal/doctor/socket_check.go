package doctor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/zonghui1968/clawd-skills/internal/session"
)

// SocketDirCheck verifies the tmux socket directory exists and is
// writable, creating it on fix.
type SocketDirCheck struct {
	FixableCheck
}

// NewSocketDirCheck creates a new socket directory check.
func NewSocketDirCheck() *SocketDirCheck {
	return &SocketDirCheck{
		FixableCheck: FixableCheck{
			BaseCheck: BaseCheck{
				CheckName:        "socket-dir",
				CheckDescription: "Check that the tmux socket directory is usable",
			},
		},
	}
}

// Run checks the directory.
func (c *SocketDirCheck) Run(ctx *CheckContext) *CheckResult {
	dir := ctx.Config.Tmux.SocketDir
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		res := c.result(StatusWarning, fmt.Sprintf("%s does not exist yet", dir))
		res.FixHint = "created on first interactive run, or with --fix"
		return res
	case err != nil:
		return c.result(StatusError, fmt.Sprintf("cannot stat %s", dir), err.Error())
	case !info.IsDir():
		return c.result(StatusError, fmt.Sprintf("%s is not a directory", dir))
	}
	if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
		return c.result(StatusError, fmt.Sprintf("%s is not writable", dir), err.Error())
	}
	return c.result(StatusOK, dir)
}

// Fix creates the directory.
func (c *SocketDirCheck) Fix(ctx *CheckContext) error {
	return os.MkdirAll(ctx.Config.Tmux.SocketDir, 0700)
}

// ServerProber reports whether a tmux server is listening on a socket.
type ServerProber interface {
	ServerRunning(id session.ID) (bool, error)
}

// StaleSocketCheck finds socket files in the socket directory with no
// server behind them. They are left when a tmux server is killed hard
// or the machine reboots with a persistent socket directory.
type StaleSocketCheck struct {
	FixableCheck
	prober ServerProber
	stale  []string // Cached during Run for use in Fix
}

// NewStaleSocketCheck creates a new stale socket check.
func NewStaleSocketCheck(prober ServerProber) *StaleSocketCheck {
	return &StaleSocketCheck{
		FixableCheck: FixableCheck{
			BaseCheck: BaseCheck{
				CheckName:        "stale-sockets",
				CheckDescription: "Detect tmux sockets with no server",
			},
		},
		prober: prober,
	}
}

// Run probes every socket in the directory.
func (c *StaleSocketCheck) Run(ctx *CheckContext) *CheckResult {
	c.stale = nil
	dir := ctx.Config.Tmux.SocketDir

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return c.result(StatusOK, "No socket directory")
	}
	if err != nil {
		return c.result(StatusWarning, "Could not list sockets", err.Error())
	}

	var live int
	for _, entry := range entries {
		if entry.Type()&fs.ModeSocket == 0 {
			continue
		}
		id := session.ID{SocketDir: dir, SocketName: entry.Name()}
		running, err := c.prober.ServerRunning(id)
		if err != nil {
			continue
		}
		if running {
			live++
		} else {
			c.stale = append(c.stale, id.SocketPath())
		}
	}

	if len(c.stale) == 0 {
		return c.result(StatusOK, fmt.Sprintf("%d live socket(s)", live))
	}
	details := make([]string, len(c.stale))
	for i, path := range c.stale {
		details[i] = "Stale: " + path
	}
	res := c.result(StatusWarning, fmt.Sprintf("Found %d stale socket(s)", len(c.stale)), details...)
	res.FixHint = "run with --fix to remove them"
	return res
}

// Fix removes the sockets found by the last Run.
func (c *StaleSocketCheck) Fix(ctx *CheckContext) error {
	var errs []error
	for _, path := range c.stale {
		if filepath.Dir(path) != filepath.Clean(ctx.Config.Tmux.SocketDir) {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
