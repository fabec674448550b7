package agent

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/zonghui1968/clawd-skills/internal/clock"
	"github.com/zonghui1968/clawd-skills/internal/runner"
	"github.com/zonghui1968/clawd-skills/internal/session"
)

// Request describes one interactive start.
type Request struct {
	Session      session.ID
	Command      runner.Command // Agent argv and working directory
	Prompt       string         // Typed line by line after launch; may be empty
	SendDelay    time.Duration  // Pause after each prompt line
	SnapshotWait time.Duration  // <= 0 skips the snapshot

	// OnReady is called once the prompt is sent and the trust dialog
	// handled, before the snapshot wait. The CLI prints its attach hints here.
	OnReady func(id session.ID)
}

// Result reports what Start did.
type Result struct {
	Trust       TrustOutcome
	Snapshot    string
	HasSnapshot bool
}

// Interactive starts the agent in a persistent session and feeds it the
// prompt. The session keeps running after Start returns.
type Interactive struct {
	manager  *Manager
	trust    *TrustDismisser
	injector *Injector
	snapshot *Snapshotter
	logger   *slog.Logger
}

// NewInteractive wires the session components together.
func NewInteractive(sess session.Sessions, clk clock.Clock, trust TrustConfig, logger *slog.Logger) *Interactive {
	logger = orDiscard(logger)
	return &Interactive{
		manager:  NewManager(sess, logger),
		trust:    NewTrustDismisser(sess, clk, trust, logger),
		injector: NewInjector(sess, clk),
		snapshot: NewSnapshotter(sess, clk, logger),
		logger:   logger,
	}
}

// Start runs, in order: reset, create, launch, prompt lines, trust-dialog
// handling, OnReady, snapshot. No step overlaps another.
func (i *Interactive) Start(req Request) (Result, error) {
	var res Result

	if err := i.manager.ResetAndCreate(req.Session); err != nil {
		return res, err
	}
	if err := i.manager.Launch(req.Session, req.Command); err != nil {
		return res, fmt.Errorf("launching %s: %w", req.Command.Name(), err)
	}
	i.logger.Debug("agent launched", "session", req.Session.String(), "dir", req.Command.Dir())

	if req.Prompt != "" {
		if err := i.injector.SendLines(req.Session, req.Prompt, req.SendDelay); err != nil {
			return res, err
		}
		i.logger.Debug("prompt sent", "lines", len(PromptLines(req.Prompt)))
	}

	res.Trust = i.trust.Dismiss(req.Session)
	if res.Trust != TrustNotShown {
		i.logger.Debug("workspace trust dialog dismissed", "outcome", res.Trust.String())
	}

	if req.OnReady != nil {
		req.OnReady(req.Session)
	}
	res.Snapshot, res.HasSnapshot = i.snapshot.Maybe(req.Session, req.SnapshotWait)
	return res, nil
}
