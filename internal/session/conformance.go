package session

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// IDFactory returns a fresh session identity for one conformance case.
// Implementations backed by a real server should place each case on its
// own socket so cases cannot see each other's sessions.
type IDFactory func(t *testing.T, name string) ID

// RunConformanceTests checks that a Sessions implementation honours the
// contract the rest of ccrun relies on. It is run against the Double and,
// when tmux is installed, against the real implementation.
func RunConformanceTests(t *testing.T, factory func() Sessions, newID IDFactory) {
	t.Helper()

	t.Run("CreateThenExists", func(t *testing.T) {
		sess := factory()
		id := newID(t, "conf-create")
		t.Cleanup(func() { _ = sess.Kill(id) })

		require.NoError(t, sess.Create(id, DefaultWindow))

		exists, err := sess.Exists(id)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("CreateDuplicateFails", func(t *testing.T) {
		sess := factory()
		id := newID(t, "conf-dup")
		t.Cleanup(func() { _ = sess.Kill(id) })

		require.NoError(t, sess.Create(id, DefaultWindow))
		err := sess.Create(id, DefaultWindow)
		assert.ErrorIs(t, err, ErrSessionExists)
	})

	t.Run("KillRemovesSession", func(t *testing.T) {
		sess := factory()
		id := newID(t, "conf-kill")

		require.NoError(t, sess.Create(id, DefaultWindow))
		require.NoError(t, sess.Kill(id))

		exists, err := sess.Exists(id)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("KillMissingIsMissing", func(t *testing.T) {
		sess := factory()
		id := newID(t, "conf-missing")

		err := sess.Kill(id)
		require.Error(t, err)
		assert.True(t, IsMissing(err), "want a missing-session error, got %v", err)
	})

	t.Run("KillDoesNotMatchPrefix", func(t *testing.T) {
		sess := factory()
		long := newID(t, "conf-prefix-long")
		t.Cleanup(func() { _ = sess.Kill(long) })
		short := long
		short.Name = "conf-prefix"

		require.NoError(t, sess.Create(long, DefaultWindow))

		err := sess.Kill(short)
		require.Error(t, err)
		assert.True(t, IsMissing(err), "want a missing-session error, got %v", err)

		exists, err := sess.Exists(long)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("ExistsMissingIsFalse", func(t *testing.T) {
		sess := factory()
		id := newID(t, "conf-absent")

		exists, err := sess.Exists(id)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("CaptureMissingFails", func(t *testing.T) {
		sess := factory()
		id := newID(t, "conf-nocap")

		_, err := sess.Capture(id, 200)
		assert.Error(t, err)
	})

	t.Run("SendLiteralMissingFails", func(t *testing.T) {
		sess := factory()
		id := newID(t, "conf-nosend")

		assert.Error(t, sess.SendLiteral(id, "echo hi"))
		assert.Error(t, sess.SendKey(id, KeyEnter))
	})

	t.Run("LiteralTextIsNotKeyNames", func(t *testing.T) {
		sess := factory()
		id := newID(t, "conf-literal")
		t.Cleanup(func() { _ = sess.Kill(id) })

		require.NoError(t, sess.Create(id, DefaultWindow))

		// "Enter" and "C-c" would be key names if not sent literally.
		marker := "echo conf-marker Enter C-c 'quoted'"
		require.NoError(t, sess.SendLiteral(id, marker))
		require.NoError(t, sess.SendKey(id, KeyEnter))

		assert.True(t, eventuallyContains(sess, id, "conf-marker Enter C-c", 5*time.Second),
			"capture never showed the literal text")
	})
}

// eventuallyContains polls Capture with real time. Real servers need a
// moment for the shell to start and echo input.
func eventuallyContains(sess Sessions, id ID, want string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		out, err := sess.Capture(id, 200)
		if err == nil && strings.Contains(out, want) {
			return true
		}
		time.Sleep(50 * time.Millisecond)
	}
	return false
}
