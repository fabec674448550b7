package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zonghui1968/clawd-skills/internal/session"
)

func envMap(m map[string]string) Env {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func noClaudeOnPath(string) (string, error) {
	return "", errors.New("not found")
}

func testOptions(env map[string]string) Options {
	return Options{
		LookupEnv: envMap(env),
		LookPath:  noClaudeOnPath,
		Getwd:     func() (string, error) { return "/work", nil },
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	opts := testOptions(map[string]string{"HOME": "/home/ubuntu"})
	cfg, err := Load(opts)
	require.NoError(t, err)
	require.NoError(t, Resolve(cfg, opts))

	assert.Equal(t, "/home/ubuntu/.local/bin/claude", cfg.ClaudeBin)
	assert.Equal(t, "/work", cfg.Cwd)
	assert.Equal(t, "auto", cfg.Mode)
	assert.Equal(t, "script", cfg.PTY)
	assert.Equal(t, "/tmp/clawdbot-tmux-sockets", cfg.Tmux.SocketDir)
	assert.Equal(t, "claude-code.sock", cfg.Tmux.SocketName)
	assert.Equal(t, "cc", cfg.Tmux.Session)
	assert.Equal(t, 800*time.Millisecond, cfg.SendDelay())
	assert.Zero(t, cfg.SnapshotWait())
	assert.Equal(t, 20*time.Second, cfg.TrustTimeout())
	assert.Equal(t, "1", cfg.Trust.AcceptKey)
	assert.NoError(t, cfg.Validate())
}

func TestResolve_ClaudeOnPathWins(t *testing.T) {
	opts := testOptions(map[string]string{"HOME": "/home/ubuntu"})
	opts.LookPath = func(string) (string, error) { return "/usr/local/bin/claude", nil }
	cfg, err := Load(opts)
	require.NoError(t, err)
	require.NoError(t, Resolve(cfg, opts))
	assert.Equal(t, "/usr/local/bin/claude", cfg.ClaudeBin)
}

func TestResolve_TmpDirAndRelativeCwd(t *testing.T) {
	opts := testOptions(map[string]string{"TMPDIR": "/var/tmp"})
	cfg, err := Load(opts)
	require.NoError(t, err)
	cfg.Cwd = "sub/dir"
	require.NoError(t, Resolve(cfg, opts))

	assert.Equal(t, "/var/tmp/clawdbot-tmux-sockets", cfg.Tmux.SocketDir)
	assert.Equal(t, "/work/sub/dir", cfg.Cwd)
	assert.Equal(t, "claude", cfg.ClaudeBin)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, `
claude_bin = "/from/file/claude"
mode = "interactive"

[tmux]
socket_dir = "/from/file/socks"
session = "filesession"

[interactive]
wait_s = 2.5
send_delay_ms = 100

[trust]
accept_key = "2"
timeout_s = 5
`)

	t.Run("file over defaults", func(t *testing.T) {
		opts := testOptions(nil)
		opts.Path = path
		cfg, err := Load(opts)
		require.NoError(t, err)

		assert.Equal(t, "/from/file/claude", cfg.ClaudeBin)
		assert.Equal(t, "interactive", cfg.Mode)
		assert.Equal(t, "/from/file/socks", cfg.Tmux.SocketDir)
		assert.Equal(t, "filesession", cfg.Tmux.Session)
		assert.Equal(t, "claude-code.sock", cfg.Tmux.SocketName, "unset keys keep defaults")
		assert.Equal(t, 2500*time.Millisecond, cfg.SnapshotWait())
		assert.Equal(t, 100*time.Millisecond, cfg.SendDelay())
		assert.Equal(t, "2", cfg.Trust.AcceptKey)
		assert.Equal(t, 5*time.Second, cfg.TrustTimeout())
	})

	t.Run("env over file", func(t *testing.T) {
		opts := testOptions(map[string]string{
			EnvClaudeBin: "/from/env/claude",
			EnvSocketDir: "/from/env/socks",
		})
		opts.Path = path
		cfg, err := Load(opts)
		require.NoError(t, err)

		assert.Equal(t, "/from/env/claude", cfg.ClaudeBin)
		assert.Equal(t, "/from/env/socks", cfg.Tmux.SocketDir)
		assert.Equal(t, "filesession", cfg.Tmux.Session)
	})

	t.Run("empty env is ignored", func(t *testing.T) {
		opts := testOptions(map[string]string{EnvClaudeBin: ""})
		opts.Path = path
		cfg, err := Load(opts)
		require.NoError(t, err)
		assert.Equal(t, "/from/file/claude", cfg.ClaudeBin)
	})
}

func TestLoad_NoColor(t *testing.T) {
	cfg, err := Load(testOptions(nil))
	require.NoError(t, err)
	assert.False(t, cfg.NoColor)

	cfg, err = Load(testOptions(map[string]string{EnvNoColor: ""}))
	require.NoError(t, err)
	assert.True(t, cfg.NoColor)
}

func TestLoad_ConfigFileLocation(t *testing.T) {
	xdg := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "ccrun"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "ccrun", "config.toml"), []byte(`pty = "builtin"`), 0644))

	cfg, err := Load(testOptions(map[string]string{EnvXDGConfigHome: xdg}))
	require.NoError(t, err)
	assert.Equal(t, "builtin", cfg.PTY)

	explicit := writeConfig(t, `pty = "none"`)
	cfg, err = Load(testOptions(map[string]string{EnvXDGConfigHome: xdg, EnvConfig: explicit}))
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.PTY)
}

func TestLoad_MissingDefaultFileIsFine(t *testing.T) {
	cfg, err := Load(testOptions(map[string]string{EnvXDGConfigHome: t.TempDir()}))
	require.NoError(t, err)
	assert.Equal(t, "script", cfg.PTY)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	opts := testOptions(nil)
	opts.Path = filepath.Join(t.TempDir(), "nope.toml")
	_, err := Load(opts)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	opts := testOptions(nil)
	opts.Path = writeConfig(t, "claude_bin = \"x\"\n[tmux]\nsokcet_dir = \"/typo\"\n")
	_, err := Load(opts)
	assert.ErrorContains(t, err, "unknown keys: tmux.sokcet_dir")
}

func TestLoad_RejectsMalformedFile(t *testing.T) {
	opts := testOptions(nil)
	opts.Path = writeConfig(t, "mode = \n")
	_, err := Load(opts)
	assert.ErrorContains(t, err, "reading config")
}

func TestValidate(t *testing.T) {
	valid := Defaults()
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"mode", func(c *Config) { c.Mode = "batch" }, "invalid mode"},
		{"pty", func(c *Config) { c.PTY = "screen" }, "invalid pty strategy"},
		{"session", func(c *Config) { c.Tmux.Session = "a:b" }, "invalid session name"},
		{"socket name", func(c *Config) { c.Tmux.SocketName = "a/b.sock" }, "invalid socket name"},
		{"send delay", func(c *Config) { c.Interactive.SendDelayMS = -1 }, "send delay"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestSessionID(t *testing.T) {
	cfg := Defaults()
	cfg.Tmux.SocketDir = "/tmp/socks"
	assert.Equal(t, session.ID{SocketDir: "/tmp/socks", SocketName: "claude-code.sock", Name: "cc"}, cfg.SessionID())
}

func TestNegativeDurationsClampToZero(t *testing.T) {
	cfg := Defaults()
	cfg.Interactive.WaitSeconds = -3
	cfg.Trust.TimeoutSeconds = -1
	assert.Zero(t, cfg.SnapshotWait())
	assert.Zero(t, cfg.TrustTimeout())
}
