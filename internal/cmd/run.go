package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zonghui1968/clawd-skills/internal/agent"
	"github.com/zonghui1968/clawd-skills/internal/config"
	"github.com/zonghui1968/clawd-skills/internal/mode"
	"github.com/zonghui1968/clawd-skills/internal/runner"
	"github.com/zonghui1968/clawd-skills/internal/session"
	"github.com/zonghui1968/clawd-skills/internal/style"
	"github.com/zonghui1968/clawd-skills/internal/util"
)

// snapshotTitle heads the snapshot printed after --interactive-wait-s.
var snapshotTitle = fmt.Sprintf("tmux snapshot (last %d lines)", agent.CaptureLines)

func runRoot(cmd *cobra.Command, args []string) error {
	extra, err := extraArgs(cmd, args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := agentFlags
	flags.Extra = extra
	if err := flags.validate(); err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	logger := newLogger(stderr, verbose)

	if err := checkBinary(cfg.ClaudeBin); err != nil {
		fmt.Fprintf(stderr, "claude binary not found: %s\n", cfg.ClaudeBin)
		fmt.Fprintf(stderr, "Tip: set %s=/path/to/claude\n", config.EnvClaudeBin)
		logger.Debug("claude binary check failed", "error", err)
		return &ExitError{Code: exitMissingBinary}
	}

	var promptPtr *string
	if cmd.Flags().Changed("prompt") {
		promptPtr = &prompt
	}

	selected := mode.Select(mode.Mode(cfg.Mode), prompt)
	logger.Debug("mode selected", "requested", cfg.Mode, "selected", selected.String())

	if selected == mode.Interactive {
		return runInteractive(cmd, cfg, flags, logger)
	}
	return runHeadless(cfg, flags, promptPtr, logger)
}

// extraArgs returns the arguments after "--". Anything before it is a
// mistake: ccrun has no positional arguments of its own.
func extraArgs(cmd *cobra.Command, args []string) ([]string, error) {
	dash := cmd.ArgsLenAtDash()
	if dash == -1 {
		dash = len(args)
	}
	if dash > 0 {
		return nil, fmt.Errorf("unexpected argument %q: pass extra claude arguments after --", args[0])
	}
	extra := args[dash:]
	if len(extra) > 0 && extra[0] == "--" {
		extra = extra[1:]
	}
	return extra, nil
}

// checkBinary verifies path names an executable file, or a program on
// PATH when it has no slash.
func checkBinary(path string) error {
	if _, err := exec.LookPath(path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMissingBinary, path, err)
	}
	return nil
}

func runHeadless(cfg *config.Config, flags passthrough, promptPtr *string, logger *slog.Logger) error {
	strategy, err := runner.ParseStrategy(cfg.PTY)
	if err != nil {
		return err
	}
	command := runner.NewCommand(cfg.Cwd, headlessArgv(cfg.ClaudeBin, promptPtr, flags)...)
	logger.Debug("running headless", "strategy", cfg.PTY, "dir", cfg.Cwd)

	code, err := headlessProvider(strategy, logger).Run(command)
	if err != nil {
		return err
	}
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

func runInteractive(cmd *cobra.Command, cfg *config.Config, flags passthrough, logger *slog.Logger) error {
	stderr := cmd.ErrOrStderr()
	if !tmuxAvailable() {
		fmt.Fprintln(stderr, "tmux not found in PATH; cannot run interactive mode.")
		return &ExitError{Code: exitMissingBinary}
	}

	id := cfg.SessionID()
	if cfg.Tmux.UniqueSession {
		id.Name = session.UniqueName(id.Name)
	}

	out := cmd.OutOrStdout()
	printer := style.New(out, style.ColorEnabled(out, cfg.NoColor))
	tm := newTmux()

	trust := agent.DefaultTrustConfig()
	trust.Timeout = cfg.TrustTimeout()
	trust.AcceptKey = cfg.Trust.AcceptKey

	req := agent.Request{
		Session:      id,
		Command:      runner.NewCommand(cfg.Cwd, interactiveArgv(cfg.ClaudeBin, flags)...),
		Prompt:       prompt,
		SendDelay:    cfg.SendDelay(),
		SnapshotWait: cfg.SnapshotWait(),
		OnReady: func(id session.ID) {
			printer.Success("Started interactive Claude Code in tmux.")
			printer.Command("To monitor:", tm.AttachCommand(id))
			printer.Command("To snapshot output:", tm.CaptureCommand(id, agent.CaptureLines))
		},
	}

	ia := agent.NewInteractive(newSessions(), clockProvider(), trust, logger)
	res, err := ia.Start(req)
	if err != nil {
		return fmt.Errorf("starting interactive session: %w", err)
	}

	if res.HasSnapshot {
		printer.Section(snapshotTitle, res.Snapshot)
		if snapshotOut != "" {
			if err := util.AtomicWriteFile(snapshotOut, []byte(res.Snapshot), 0644); err != nil {
				return fmt.Errorf("writing snapshot: %w", err)
			}
		}
	} else if req.SnapshotWait > 0 {
		logger.Debug("no snapshot taken", "session", id.String())
	}
	return nil
}

// writeLines writes text to w, ending with exactly one newline.
func writeLines(w io.Writer, text string) {
	fmt.Fprint(w, text)
	if !strings.HasSuffix(text, "\n") {
		fmt.Fprintln(w)
	}
}
