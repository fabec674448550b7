package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zonghui1968/clawd-skills/internal/agent"
	"github.com/zonghui1968/clawd-skills/internal/session"
)

var attachCmd = &cobra.Command{
	Use:     "attach",
	Aliases: []string{"at"},
	Short:   "Attach to the Claude Code tmux session",
	Long: `Attach the current terminal to the tmux session started by an
interactive run. Detach with Ctrl-B D; the session keeps running.`,
	Args: cobra.NoArgs,
	RunE: runAttach,
}

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Print the session's recent output",
	Long:  `Print the trailing lines of the session's pane, joining wrapped lines.`,
	Args:  cobra.NoArgs,
	RunE:  runCapture,
}

var killCmd = &cobra.Command{
	Use:   "kill",
	Short: "Kill the Claude Code tmux session",
	Long:  `Kill the session. A session that is already gone is not an error.`,
	Args:  cobra.NoArgs,
	RunE:  runKill,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the session is running",
	Long:  `Report whether the session exists. Exits 1 when it does not.`,
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var captureLines int

func init() {
	rootCmd.AddCommand(attachCmd)
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(killCmd)
	rootCmd.AddCommand(statusCmd)

	captureCmd.Flags().IntVarP(&captureLines, "lines", "n", agent.CaptureLines, "Number of lines to capture")
}

// sessionFromFlags loads the configuration and returns the session it
// names.
func sessionFromFlags(cmd *cobra.Command) (session.ID, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return session.ID{}, err
	}
	return cfg.SessionID(), nil
}

func requireTmux(cmd *cobra.Command) error {
	if !tmuxAvailable() {
		fmt.Fprintln(cmd.ErrOrStderr(), "tmux not found in PATH.")
		return &ExitError{Code: exitMissingBinary}
	}
	return nil
}

func runAttach(cmd *cobra.Command, args []string) error {
	if err := requireTmux(cmd); err != nil {
		return err
	}
	id, err := sessionFromFlags(cmd)
	if err != nil {
		return err
	}

	exists, err := newSessions().Exists(id)
	if err != nil {
		return fmt.Errorf("checking session: %w", err)
	}
	if !exists {
		return fmt.Errorf("session %s is not running", id)
	}
	return newTmux().Attach(id)
}

func runCapture(cmd *cobra.Command, args []string) error {
	if err := requireTmux(cmd); err != nil {
		return err
	}
	if captureLines <= 0 {
		return fmt.Errorf("--lines must be positive, got %d", captureLines)
	}
	id, err := sessionFromFlags(cmd)
	if err != nil {
		return err
	}

	text, err := newSessions().Capture(id, captureLines)
	if err != nil {
		return fmt.Errorf("capturing %s: %w", id, err)
	}
	writeLines(cmd.OutOrStdout(), text)
	return nil
}

func runKill(cmd *cobra.Command, args []string) error {
	if err := requireTmux(cmd); err != nil {
		return err
	}
	id, err := sessionFromFlags(cmd)
	if err != nil {
		return err
	}

	err = newSessions().Kill(id)
	if session.KillExisting.Ignores(err) {
		fmt.Fprintf(cmd.OutOrStdout(), "No session %s\n", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("killing %s: %w", id, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Killed session %s\n", id)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := requireTmux(cmd); err != nil {
		return err
	}
	id, err := sessionFromFlags(cmd)
	if err != nil {
		return err
	}

	exists, err := newSessions().Exists(id)
	if err != nil {
		return fmt.Errorf("checking session: %w", err)
	}
	if !exists {
		fmt.Fprintf(cmd.OutOrStdout(), "Session %s is not running\n", id)
		return &ExitError{Code: exitFailure}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Session %s is running\n", id)
	return nil
}
