package agent_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zonghui1968/clawd-skills/internal/agent"
	"github.com/zonghui1968/clawd-skills/internal/runner"
	"github.com/zonghui1968/clawd-skills/internal/session"
)

func testID() session.ID {
	return session.ID{SocketDir: "/tmp/clawdbot-tmux-sockets", SocketName: "claude-code.sock", Name: "cc"}
}

// --- Manager ---

func TestManager_ResetAndCreate_Twice(t *testing.T) {
	sess := session.NewDouble()
	mgr := agent.NewManager(sess, nil)
	id := testID()

	require.NoError(t, mgr.ResetAndCreate(id))
	require.NoError(t, mgr.ResetAndCreate(id))

	assert.Equal(t, 1, sess.SessionCount())
	exists, err := sess.Exists(id)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, session.DefaultWindow, sess.Window(id))
}

func TestManager_ResetAndCreate_IgnoresAnyKillError(t *testing.T) {
	stub := session.NewStub(session.NewDouble())
	stub.KillErr = errors.New("tmux kill-session: permission denied")
	mgr := agent.NewManager(stub, nil)

	require.NoError(t, mgr.ResetAndCreate(testID()))
}

func TestManager_ResetAndCreate_PropagatesCreateError(t *testing.T) {
	stub := session.NewStub(session.NewDouble())
	stub.CreateErr = errors.New("tmux new-session: boom")
	mgr := agent.NewManager(stub, nil)

	err := mgr.ResetAndCreate(testID())
	require.Error(t, err)
	assert.ErrorIs(t, err, stub.CreateErr)
	assert.Contains(t, err.Error(), "creating session cc@")
}

func TestLaunchLine(t *testing.T) {
	cmd := runner.NewCommand("/home/me/my project", "/usr/bin/claude", "--permission-mode", "acceptEdits", "--resume", "abc")
	assert.Equal(t,
		"cd '/home/me/my project' && /usr/bin/claude --permission-mode acceptEdits --resume abc",
		agent.LaunchLine(cmd))

	assert.Equal(t, "claude", agent.LaunchLine(runner.NewCommand("", "claude")))
}

func TestManager_Launch_SendsLiteralThenEnter(t *testing.T) {
	sess := session.NewDouble()
	mgr := agent.NewManager(sess, nil)
	id := testID()
	require.NoError(t, mgr.ResetAndCreate(id))

	cmd := runner.NewCommand("/work", "claude", "--append-system-prompt", "be brief; no $HOME")
	require.NoError(t, mgr.Launch(id, cmd))

	assert.Equal(t, []string{`cd /work && claude --append-system-prompt 'be brief; no $HOME'`}, sess.Literals(id))
	assert.Equal(t, []string{session.KeyEnter}, sess.Keys(id))
}

func TestManager_Launch_PropagatesSendErrors(t *testing.T) {
	id := testID()
	cmd := runner.NewCommand("/work", "claude")

	t.Run("literal", func(t *testing.T) {
		stub := session.NewStub(session.NewDouble())
		stub.LiteralErr = errors.New("send failed")
		err := agent.NewManager(stub, nil).Launch(id, cmd)
		assert.ErrorIs(t, err, stub.LiteralErr)
	})

	t.Run("enter", func(t *testing.T) {
		double := session.NewDouble()
		require.NoError(t, double.Create(id, session.DefaultWindow))
		stub := session.NewStub(double)
		stub.KeyErr = errors.New("key failed")
		err := agent.NewManager(stub, nil).Launch(id, cmd)
		assert.ErrorIs(t, err, stub.KeyErr)
	})

	t.Run("empty command", func(t *testing.T) {
		err := agent.NewManager(session.NewDouble(), nil).Launch(id, runner.NewCommand("/work"))
		assert.ErrorIs(t, err, runner.ErrEmptyCommand)
	})
}
