// Package doctor checks that the machine can run ccrun: the agent
// binary, tmux, the pseudo-terminal wrapper and the socket directory.
// Checks that find something repairable can fix it.
package doctor

import (
	"github.com/zonghui1968/clawd-skills/internal/config"
)

// Status is the outcome of a single check.
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
	StatusFixed   Status = "fixed"
)

// CheckContext carries what checks need to look at.
type CheckContext struct {
	Config *config.Config
}

// CheckResult is the outcome of one check.
type CheckResult struct {
	Name    string
	Status  Status
	Message string
	Details []string
	FixHint string
}

// Check is one diagnostic.
type Check interface {
	Name() string
	Description() string
	Run(ctx *CheckContext) *CheckResult
	CanFix() bool
	Fix(ctx *CheckContext) error
}

// BaseCheck provides the name and description of a check that cannot
// fix anything.
type BaseCheck struct {
	CheckName        string
	CheckDescription string
}

func (b *BaseCheck) Name() string        { return b.CheckName }
func (b *BaseCheck) Description() string { return b.CheckDescription }
func (b *BaseCheck) CanFix() bool        { return false }

// Fix is a no-op for checks that cannot fix.
func (b *BaseCheck) Fix(*CheckContext) error { return nil }

// FixableCheck is a BaseCheck whose embedding type implements Fix.
type FixableCheck struct {
	BaseCheck
}

func (f *FixableCheck) CanFix() bool { return true }

func (b *BaseCheck) result(status Status, message string, details ...string) *CheckResult {
	return &CheckResult{Name: b.CheckName, Status: status, Message: message, Details: details}
}

// Report is the outcome of a Doctor run.
type Report struct {
	Results []*CheckResult
}

// OK reports whether no check ended in StatusError.
func (r Report) OK() bool {
	for _, res := range r.Results {
		if res.Status == StatusError {
			return false
		}
	}
	return true
}

// Doctor runs a list of checks in order.
type Doctor struct {
	checks []Check
}

// New returns a Doctor with the given checks.
func New(checks ...Check) *Doctor {
	return &Doctor{checks: checks}
}

// Default returns a Doctor with every built-in check.
func Default(prober ServerProber) *Doctor {
	return New(
		NewClaudeBinaryCheck(nil),
		NewTmuxCheck(nil),
		NewScriptCheck(nil),
		NewSocketDirCheck(),
		NewStaleSocketCheck(prober),
	)
}

// Run runs every check. With fix set, a failing fixable check is fixed
// and run again; a successful re-run is reported as StatusFixed.
func (d *Doctor) Run(ctx *CheckContext, fix bool) Report {
	var report Report
	for _, check := range d.checks {
		res := check.Run(ctx)
		if fix && res.Status != StatusOK && check.CanFix() {
			if err := check.Fix(ctx); err != nil {
				res.Details = append(res.Details, "fix failed: "+err.Error())
			} else if again := check.Run(ctx); again.Status == StatusOK {
				again.Status = StatusFixed
				res = again
			}
		}
		report.Results = append(report.Results, res)
	}
	return report
}
