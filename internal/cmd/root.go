// Package cmd implements the ccrun command line.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zonghui1968/clawd-skills/internal/config"
	"github.com/zonghui1968/clawd-skills/internal/mode"
)

var rootCmd = &cobra.Command{
	Use:   "ccrun [flags] [-- extra agent args...]",
	Short: "Run Claude Code reliably, headless or in tmux",
	Long: `Run Claude Code (the claude CLI) reliably from automation.

Claude Code can hang when started without a terminal. ccrun gives it one:

  headless     runs claude -p <prompt> once under script(1) and returns
               its exit code
  interactive  starts claude in a detached tmux session on a private
               socket, dismisses the workspace-trust dialog and types the
               prompt line by line

With --mode auto (the default), a prompt containing a line that starts
with "/" (a slash command such as /review) runs interactively; anything
else runs headless.

Arguments after -- are passed to claude unchanged.

Examples:
  ccrun -p "summarize README.md" --output-format json
  ccrun -p "/speckit.plan build X" --interactive-wait-s 10
  ccrun -p "fix the tests" -- --model opus`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Flags shared by every command.
var (
	configPath     string
	tmuxSocketDir  string
	tmuxSocketName string
	tmuxSession    string
	verbose        bool
)

// Root-only flags.
var (
	prompt          string
	modeFlag        string
	claudeBin       string
	cwd             string
	ptyStrategy     string
	interactiveWait float64
	sendDelayMS     int
	trustAcceptKey  string
	trustTimeout    time.Duration
	uniqueSession   bool
	snapshotOut     string
	agentFlags      passthrough
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default $CCRUN_CONFIG or $XDG_CONFIG_HOME/ccrun/config.toml)")
	pf.StringVar(&tmuxSocketDir, "tmux-socket-dir", "", "tmux socket dir (default $CLAWDBOT_TMUX_SOCKET_DIR or $TMPDIR/clawdbot-tmux-sockets)")
	pf.StringVar(&tmuxSocketName, "tmux-socket-name", "", "tmux socket file name (default claude-code.sock)")
	pf.StringVar(&tmuxSession, "tmux-session", "", "tmux session name (default cc)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Debug logging on stderr")

	f := rootCmd.Flags()
	f.StringVarP(&prompt, "prompt", "p", "", "Prompt text: passed via -p headless, typed as keystrokes interactive")
	f.StringVar(&modeFlag, "mode", "", "Execution mode: "+mode.Names()+" (default auto)")
	f.StringVar(&agentFlags.PermissionMode, "permission-mode", "", "Passed to claude --permission-mode (plan, acceptEdits, dontAsk, bypassPermissions, default)")
	f.StringVar(&agentFlags.AllowedTools, "allowedTools", "", "Allowed tools allowlist string")
	f.StringVar(&agentFlags.OutputFormat, "output-format", "", "Output format, headless only: text, json or stream-json")
	f.StringVar(&agentFlags.JSONSchema, "json-schema", "", "JSON schema string, headless only")
	f.StringVar(&agentFlags.AppendSystemPrompt, "append-system-prompt", "", "Append to the default system prompt")
	f.StringVar(&agentFlags.SystemPrompt, "system-prompt", "", "Replace the system prompt")
	f.BoolVar(&agentFlags.Continue, "continue", false, "Continue the most recent conversation")
	f.StringVar(&agentFlags.Resume, "resume", "", "Resume a specific session ID")

	f.StringVar(&claudeBin, "claude-bin", "", "Path to the claude binary (default $CLAUDE_CODE_BIN, claude on PATH, ~/.local/bin/claude)")
	f.StringVar(&cwd, "cwd", "", "Working directory to run claude in (default current directory)")
	f.StringVar(&ptyStrategy, "pty", "", "Headless terminal strategy: script, builtin or none (default script)")
	f.Float64Var(&interactiveWait, "interactive-wait-s", 0, "Wait N seconds after starting, then print a tmux snapshot")
	f.IntVar(&sendDelayMS, "interactive-send-delay-ms", 0, "Delay between prompt lines in interactive mode (default 800)")
	f.StringVar(&trustAcceptKey, "trust-accept-key", "", `Key typed when the trust dialog survives Enter (default "1")`)
	f.DurationVar(&trustTimeout, "trust-timeout", 0, "How long to watch for the trust dialog (default 20s)")
	f.BoolVar(&uniqueSession, "unique-session", false, "Append a random suffix to the session name")
	f.StringVar(&snapshotOut, "snapshot-out", "", "Also write the snapshot to this file")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	code, report := exitCodeFor(err)
	if report {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return code
}

// loadConfig builds the configuration for cmd: file and environment via
// config.Load, then every flag the user set, then derived defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	opts := config.Options{Path: configPath}
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd.Flags(), cfg)
	if err := config.Resolve(cfg, opts); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies flags the user set explicitly over cfg.
func applyFlags(fs *pflag.FlagSet, cfg *config.Config) {
	set := func(name string, apply func()) {
		if f := fs.Lookup(name); f != nil && f.Changed {
			apply()
		}
	}
	set("tmux-socket-dir", func() { cfg.Tmux.SocketDir = tmuxSocketDir })
	set("tmux-socket-name", func() { cfg.Tmux.SocketName = tmuxSocketName })
	set("tmux-session", func() { cfg.Tmux.Session = tmuxSession })
	set("mode", func() { cfg.Mode = modeFlag })
	set("claude-bin", func() { cfg.ClaudeBin = claudeBin })
	set("cwd", func() { cfg.Cwd = cwd })
	set("pty", func() { cfg.PTY = ptyStrategy })
	set("interactive-wait-s", func() { cfg.Interactive.WaitSeconds = interactiveWait })
	set("interactive-send-delay-ms", func() { cfg.Interactive.SendDelayMS = sendDelayMS })
	set("trust-accept-key", func() { cfg.Trust.AcceptKey = trustAcceptKey })
	set("trust-timeout", func() { cfg.Trust.TimeoutSeconds = trustTimeout.Seconds() })
	set("unique-session", func() { cfg.Tmux.UniqueSession = uniqueSession })
}
