package session

import "errors"

// Errors shared by Sessions implementations.
var (
	ErrNoServer        = errors.New("no multiplexer server running")
	ErrSessionExists   = errors.New("session already exists")
	ErrSessionNotFound = errors.New("session not found")
)

// Policy is the error-handling rule attached to one call site of a
// session operation. Naming the rule keeps best-effort suppression
// visible where it happens instead of hiding it behind a blanket catch.
type Policy struct {
	name   string
	ignore func(error) bool
}

// Name returns the policy name, used in debug logs.
func (p Policy) Name() string {
	return p.name
}

// Apply returns nil when err is nil or the policy ignores it, and err
// unchanged otherwise.
func (p Policy) Apply(err error) error {
	if err == nil || p.Ignores(err) {
		return nil
	}
	return err
}

// Ignores reports whether the policy swallows err.
func (p Policy) Ignores(err error) bool {
	return err != nil && p.ignore != nil && p.ignore(err)
}

// IgnoreAll returns a policy that swallows every error.
func IgnoreAll(name string) Policy {
	return Policy{name: name, ignore: func(error) bool { return true }}
}

// IgnoreMissing returns a policy that swallows errors meaning the session
// (or the whole server) is already gone.
func IgnoreMissing(name string) Policy {
	return Policy{name: name, ignore: IsMissing}
}

// Propagate returns a policy that never swallows.
func Propagate(name string) Policy {
	return Policy{name: name}
}

// IsMissing reports whether err means the session does not exist.
// A stopped server has no sessions, so ErrNoServer counts too.
func IsMissing(err error) bool {
	return errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrNoServer)
}

// Call-site policies.
var (
	// ResetKill discards every error from the kill that precedes a
	// create, including "no such session", so reset is idempotent.
	ResetKill = IgnoreAll("reset-kill")

	// TransientCapture skips a failed capture during polling; the
	// next poll tries again.
	TransientCapture = IgnoreAll("transient-capture")

	// SnapshotCapture drops a failed final snapshot.
	SnapshotCapture = IgnoreAll("snapshot-capture")

	// DialogKeystroke drops failed keystrokes sent to dismiss a dialog.
	DialogKeystroke = IgnoreAll("dialog-keystroke")

	// KillExisting treats an already-gone session as success.
	KillExisting = IgnoreMissing("kill-existing")

	// Critical propagates: create, launch and prompt keystrokes.
	Critical = Propagate("critical")
)
