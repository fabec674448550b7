package wait

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zonghui1968/clawd-skills/internal/clock"
	"github.com/zonghui1968/clawd-skills/internal/session"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// scripted returns a CaptureFunc that replays steps, repeating the last
// one forever, and counts calls.
func scripted(calls *int, steps ...session.CaptureStep) session.CaptureFunc {
	return func() (string, error) {
		i := *calls
		*calls++
		if i >= len(steps) {
			i = len(steps) - 1
		}
		return steps[i].Text, steps[i].Err
	}
}

func TestCondition_Validate(t *testing.T) {
	assert.NoError(t, For("x", time.Second).Validate())
	assert.ErrorIs(t, Condition{Pattern: "x", Timeout: time.Second}.Validate(), ErrInvalidInterval)
	assert.ErrorIs(t, Condition{Pattern: "x", Interval: -time.Second}.Validate(), ErrInvalidInterval)
}

func TestForText_ZeroTimeoutDoesNotCapture(t *testing.T) {
	clk := clock.Fake(epoch)
	calls := 0
	capture := scripted(&calls, session.CaptureStep{Text: "ready"})

	assert.False(t, ForText(clk, capture, For("ready", 0)))
	assert.False(t, ForText(clk, capture, For("ready", -time.Second)))
	assert.Zero(t, calls)
	assert.Zero(t, clk.Slept())
}

func TestForText_ImmediateMatchStopsPolling(t *testing.T) {
	clk := clock.Fake(epoch)
	calls := 0
	capture := scripted(&calls, session.CaptureStep{Text: "banner\nready> "})

	assert.True(t, ForText(clk, capture, For("ready>", 5*time.Second)))
	assert.Equal(t, 1, calls)
	assert.Zero(t, clk.Slept())
}

func TestForText_MatchAfterSeveralPolls(t *testing.T) {
	clk := clock.Fake(epoch)
	calls := 0
	capture := scripted(&calls,
		session.CaptureStep{Text: "loading"},
		session.CaptureStep{Text: "loading."},
		session.CaptureStep{Text: "loading..\nready"},
	)

	assert.True(t, ForText(clk, capture, For("ready", 10*time.Second)))
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{DefaultInterval, DefaultInterval}, clk.Sleeps())
}

func TestForText_NeverMatchReturnsFalseAfterDeadline(t *testing.T) {
	clk := clock.Fake(epoch)
	calls := 0
	capture := scripted(&calls, session.CaptureStep{Text: "nothing here"})
	timeout := 2 * time.Second

	assert.False(t, ForText(clk, capture, For("ready", timeout)))

	elapsed := clk.Now().Sub(epoch)
	assert.GreaterOrEqual(t, elapsed, timeout)
	assert.Less(t, elapsed, timeout+DefaultInterval)
	assert.Equal(t, 4, calls)
}

func TestForText_CaptureErrorsAreRetried(t *testing.T) {
	clk := clock.Fake(epoch)
	calls := 0
	capture := scripted(&calls,
		session.CaptureStep{Err: errors.New("can't find pane")},
		session.CaptureStep{Err: session.ErrNoServer},
		session.CaptureStep{Text: "Yes, I trust this folder"},
	)

	assert.True(t, ForText(clk, capture, For("trust this folder", 5*time.Second)))
	assert.Equal(t, 3, calls)
}

func TestForText_PatternIsLiteral(t *testing.T) {
	clk := clock.Fake(epoch)
	calls := 0
	capture := scripted(&calls, session.CaptureStep{Text: "cost: $1.00 (est)"})

	assert.True(t, ForText(clk, capture, For("$1.00 (est)", time.Second)))
	calls = 0
	assert.False(t, ForText(clk, capture, For("$1.*", time.Second)))
	assert.Positive(t, calls)
}

func TestForText_InvalidIntervalUsesDefault(t *testing.T) {
	clk := clock.Fake(epoch)
	calls := 0
	capture := scripted(&calls, session.CaptureStep{Text: "no"})

	require.False(t, ForText(clk, capture, Condition{Pattern: "yes", Timeout: time.Second}))
	for _, d := range clk.Sleeps() {
		assert.Equal(t, DefaultInterval, d)
	}
}

func TestForText_DrivesDoubleSession(t *testing.T) {
	clk := clock.Fake(epoch)
	d := session.NewDouble()
	id := session.ID{SocketDir: "/tmp/s", SocketName: "cc.sock", Name: "cc"}
	require.NoError(t, d.Create(id, session.DefaultWindow))
	require.NoError(t, d.SetOutput(id, "Welcome", "Yes, I trust this folder"))

	found := ForText(clk, session.Capturer(d, id, 200), For("Yes, I trust this folder", 20*time.Second))
	assert.True(t, found)
	assert.Equal(t, 1, d.CaptureCount())
}
