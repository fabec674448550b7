// Package config builds the ccrun configuration once at startup.
//
// Values come from, lowest precedence first: built-in defaults, a TOML
// file, environment variables, and command-line flags (applied by the
// caller). Nothing else in ccrun reads the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/zonghui1968/clawd-skills/internal/mode"
	"github.com/zonghui1968/clawd-skills/internal/runner"
	"github.com/zonghui1968/clawd-skills/internal/session"
)

// Environment variables consulted by Load.
const (
	EnvClaudeBin     = "CLAUDE_CODE_BIN"
	EnvSocketDir     = "CLAWDBOT_TMUX_SOCKET_DIR"
	EnvConfig        = "CCRUN_CONFIG"
	EnvTmpDir        = "TMPDIR"
	EnvXDGConfigHome = "XDG_CONFIG_HOME"
	EnvHome          = "HOME"
	EnvNoColor       = "NO_COLOR"
)

// Defaults.
const (
	DefaultSocketSubdir  = "clawdbot-tmux-sockets"
	DefaultSendDelay     = 800 * time.Millisecond
	DefaultTrustAccept   = "1"
	DefaultTrustTimeout  = 20 * time.Second
	DefaultClaudeRelPath = ".local/bin/claude"
)

// Config is the complete runtime configuration.
type Config struct {
	ClaudeBin string `toml:"claude_bin"`
	Cwd       string `toml:"cwd"`
	Mode      string `toml:"mode"`
	PTY       string `toml:"pty"`
	NoColor   bool   `toml:"no_color"`

	Tmux        TmuxConfig        `toml:"tmux"`
	Interactive InteractiveConfig `toml:"interactive"`
	Trust       TrustConfig       `toml:"trust"`
}

// TmuxConfig addresses the session.
type TmuxConfig struct {
	SocketDir     string `toml:"socket_dir"`
	SocketName    string `toml:"socket_name"`
	Session       string `toml:"session"`
	UniqueSession bool   `toml:"unique_session"`
}

// InteractiveConfig paces the interactive path.
type InteractiveConfig struct {
	WaitSeconds float64 `toml:"wait_s"`
	SendDelayMS int     `toml:"send_delay_ms"`
}

// TrustConfig tunes workspace-trust dialog handling.
type TrustConfig struct {
	AcceptKey      string  `toml:"accept_key"`
	TimeoutSeconds float64 `toml:"timeout_s"`
}

// SnapshotWait returns the post-start snapshot delay. Negative values
// mean no snapshot.
func (c *Config) SnapshotWait() time.Duration {
	return seconds(c.Interactive.WaitSeconds)
}

// SendDelay returns the pause after each prompt line.
func (c *Config) SendDelay() time.Duration {
	if c.Interactive.SendDelayMS < 0 {
		return 0
	}
	return time.Duration(c.Interactive.SendDelayMS) * time.Millisecond
}

// TrustTimeout returns how long to wait for the trust dialog.
func (c *Config) TrustTimeout() time.Duration {
	return seconds(c.Trust.TimeoutSeconds)
}

// SessionID returns the configured session identity.
func (c *Config) SessionID() session.ID {
	return session.ID{
		SocketDir:  c.Tmux.SocketDir,
		SocketName: c.Tmux.SocketName,
		Name:       c.Tmux.Session,
	}
}

// Validate checks values that come from user input.
func (c *Config) Validate() error {
	var errs []error
	if _, err := mode.Parse(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if _, err := runner.ParseStrategy(c.PTY); err != nil {
		errs = append(errs, err)
	}
	if err := session.ValidateName(c.Tmux.Session); err != nil {
		errs = append(errs, err)
	}
	if c.Tmux.SocketName == "" || strings.ContainsRune(c.Tmux.SocketName, os.PathSeparator) {
		errs = append(errs, fmt.Errorf("invalid socket name %q: must be a plain file name", c.Tmux.SocketName))
	}
	if c.Interactive.SendDelayMS < 0 {
		errs = append(errs, fmt.Errorf("send delay must not be negative: %d", c.Interactive.SendDelayMS))
	}
	return errors.Join(errs...)
}

func seconds(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}
