package agent

import (
	"log/slog"
	"time"

	"github.com/zonghui1968/clawd-skills/internal/clock"
	"github.com/zonghui1968/clawd-skills/internal/session"
	"github.com/zonghui1968/clawd-skills/internal/wait"
)

// TrustPattern is the text of the workspace-trust dialog's accept option.
const TrustPattern = "Yes, I trust this folder"

// TrustConfig tunes TrustDismisser.
type TrustConfig struct {
	Pattern        string        // Text that means the dialog is on screen
	Timeout        time.Duration // How long to wait for the dialog to appear
	SettleDelay    time.Duration // Pause after the first Enter
	RecheckTimeout time.Duration // How long to look for the dialog again
	Interval       time.Duration // Poll interval for both waits
	AcceptKey      string        // Typed when the dialog survives Enter; empty sends Enter only
}

// DefaultTrustConfig returns the timings used when nothing is configured.
func DefaultTrustConfig() TrustConfig {
	return TrustConfig{
		Pattern:        TrustPattern,
		Timeout:        20 * time.Second,
		SettleDelay:    800 * time.Millisecond,
		RecheckTimeout: 2 * time.Second,
		Interval:       wait.DefaultInterval,
		AcceptKey:      "1",
	}
}

// TrustOutcome reports what TrustDismisser did.
type TrustOutcome int

const (
	// TrustNotShown: the dialog never appeared; nothing was sent.
	TrustNotShown TrustOutcome = iota
	// TrustDismissed: one Enter made the dialog go away.
	TrustDismissed
	// TrustDismissedWithSelection: the dialog survived Enter and the
	// accept key was sent as well.
	TrustDismissedWithSelection
)

func (o TrustOutcome) String() string {
	switch o {
	case TrustNotShown:
		return "not-shown"
	case TrustDismissed:
		return "dismissed"
	case TrustDismissedWithSelection:
		return "dismissed-with-selection"
	}
	return "unknown"
}

// trustState tracks progress through one dismissal attempt.
type trustState string

const (
	stateNormal        trustState = "normal"
	statePromptSeen    trustState = "prompt-seen"
	stateDismissedOnce trustState = "dismissed-once"
)

// TrustDismisser gets past the "do you trust this folder" dialog the
// agent shows on first launch in a directory. It is best-effort: it
// never returns an error, and a dialog that will not go away is left for
// the operator.
type TrustDismisser struct {
	sess   session.Sessions
	clk    clock.Clock
	cfg    TrustConfig
	logger *slog.Logger
}

// NewTrustDismisser creates a TrustDismisser. Zero-valued fields of cfg
// take their defaults, except AcceptKey.
func NewTrustDismisser(sess session.Sessions, clk clock.Clock, cfg TrustConfig, logger *slog.Logger) *TrustDismisser {
	def := DefaultTrustConfig()
	if cfg.Pattern == "" {
		cfg.Pattern = def.Pattern
	}
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	return &TrustDismisser{sess: sess, clk: clk, cfg: cfg, logger: orDiscard(logger)}
}

// Dismiss waits for the dialog, presses Enter, and if the dialog is
// still there after the settle delay sends the accept key and Enter.
func (d *TrustDismisser) Dismiss(id session.ID) TrustOutcome {
	capture := session.Capturer(d.sess, id, CaptureLines)
	state := stateNormal
	outcome := TrustNotShown
	defer func() {
		d.logger.Debug("trust dialog handled", "session", id.String(),
			"last_state", string(state), "outcome", outcome.String())
	}()

	if !wait.ForText(d.clk, capture, d.condition(d.cfg.Timeout)) {
		return outcome
	}

	state = statePromptSeen
	outcome = TrustDismissed
	d.key(id, session.KeyEnter)
	d.clk.Sleep(d.cfg.SettleDelay)

	if !wait.ForText(d.clk, capture, d.condition(d.cfg.RecheckTimeout)) {
		return outcome
	}

	state = stateDismissedOnce
	outcome = TrustDismissedWithSelection
	if d.cfg.AcceptKey != "" {
		d.literal(id, d.cfg.AcceptKey)
	}
	d.key(id, session.KeyEnter)
	return outcome
}

func (d *TrustDismisser) condition(timeout time.Duration) wait.Condition {
	return wait.Condition{Pattern: d.cfg.Pattern, Timeout: timeout, Interval: d.cfg.Interval}
}

func (d *TrustDismisser) key(id session.ID, key string) {
	d.ignored(session.DialogKeystroke.Ignores(d.sess.SendKey(id, key)), key)
}

func (d *TrustDismisser) literal(id session.ID, text string) {
	d.ignored(session.DialogKeystroke.Ignores(d.sess.SendLiteral(id, text)), text)
}

func (d *TrustDismisser) ignored(dropped bool, keys string) {
	if dropped {
		d.logger.Debug("dialog keystroke failed", "keys", keys,
			"policy", session.DialogKeystroke.Name())
	}
}
