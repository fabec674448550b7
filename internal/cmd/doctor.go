package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zonghui1968/clawd-skills/internal/doctor"
	"github.com/zonghui1968/clawd-skills/internal/style"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that ccrun can run here",
	Long: `Check the claude binary, tmux, script(1) and the tmux socket directory.

With --fix, repairable problems are fixed: a missing socket directory is
created and sockets with no tmux server behind them are removed.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

var doctorFix bool

// doctorProvider builds the doctor. Overridden in tests.
var doctorProvider = func() *doctor.Doctor {
	return doctor.Default(newTmux())
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Fix repairable problems")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printer := style.New(out, style.ColorEnabled(out, cfg.NoColor))
	report := doctorProvider().Run(&doctor.CheckContext{Config: cfg}, doctorFix)

	for _, res := range report.Results {
		line := fmt.Sprintf("%-14s %s", res.Name, res.Message)
		switch res.Status {
		case doctor.StatusOK, doctor.StatusFixed:
			printer.Success(fmt.Sprintf("✓ %s", line))
		case doctor.StatusWarning:
			printer.Warning(fmt.Sprintf("⚠ %s", line))
		default:
			printer.Error(fmt.Sprintf("✗ %s", line))
		}
		for _, d := range res.Details {
			printer.Plain("    " + d)
		}
		if res.FixHint != "" && res.Status != doctor.StatusFixed {
			printer.Plain("    → " + res.FixHint)
		}
	}

	if !report.OK() {
		return &ExitError{Code: exitFailure}
	}
	return nil
}
