package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/zonghui1968/clawd-skills/internal/mode"
	"github.com/zonghui1968/clawd-skills/internal/runner"
	"github.com/zonghui1968/clawd-skills/internal/session"
)

// Env looks up an environment variable.
type Env func(key string) (string, bool)

// Options control Load. Zero fields use the process environment.
type Options struct {
	// Path is an explicit config file (--config). It must exist.
	Path string

	LookupEnv Env
	LookPath  func(file string) (string, error)
	Getwd     func() (string, error)
}

func (o *Options) fill() {
	if o.LookupEnv == nil {
		o.LookupEnv = os.LookupEnv
	}
	if o.LookPath == nil {
		o.LookPath = exec.LookPath
	}
	if o.Getwd == nil {
		o.Getwd = os.Getwd
	}
}

// Defaults returns the built-in configuration before any file or
// environment is applied. Path-valued defaults that depend on the
// environment are resolved by Load.
func Defaults() Config {
	return Config{
		Mode: string(mode.Auto),
		PTY:  string(runner.StrategyScript),
		Tmux: TmuxConfig{
			SocketName: session.DefaultSocketName,
			Session:    session.DefaultName,
		},
		Interactive: InteractiveConfig{
			SendDelayMS: int(DefaultSendDelay.Milliseconds()),
		},
		Trust: TrustConfig{
			AcceptKey:      DefaultTrustAccept,
			TimeoutSeconds: DefaultTrustTimeout.Seconds(),
		},
	}
}

// Load applies defaults, the config file and the environment. The
// returned Config still needs flag overrides and Resolve.
func Load(opts Options) (*Config, error) {
	opts.fill()
	cfg := Defaults()

	path, explicit := configPath(opts)
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	if v, ok := opts.LookupEnv(EnvClaudeBin); ok && v != "" {
		cfg.ClaudeBin = v
	}
	if v, ok := opts.LookupEnv(EnvSocketDir); ok && v != "" {
		cfg.Tmux.SocketDir = v
	}
	// Any value, even empty, disables color (no-color.org).
	if _, ok := opts.LookupEnv(EnvNoColor); ok {
		cfg.NoColor = true
	}
	return &cfg, nil
}

// Resolve fills values still unset after flags were applied and makes
// paths absolute.
func Resolve(cfg *Config, opts Options) error {
	opts.fill()

	if cfg.ClaudeBin == "" {
		cfg.ClaudeBin = defaultClaudeBin(opts)
	}
	if cfg.Tmux.SocketDir == "" {
		tmp, ok := opts.LookupEnv(EnvTmpDir)
		if !ok || tmp == "" {
			tmp = "/tmp"
		}
		cfg.Tmux.SocketDir = filepath.Join(tmp, DefaultSocketSubdir)
	}

	wd, err := opts.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}
	if cfg.Cwd == "" {
		cfg.Cwd = wd
	} else if !filepath.IsAbs(cfg.Cwd) {
		cfg.Cwd = filepath.Join(wd, cfg.Cwd)
	}
	return nil
}

// configPath returns the file to read and whether the user named it.
func configPath(opts Options) (string, bool) {
	if opts.Path != "" {
		return opts.Path, true
	}
	if v, ok := opts.LookupEnv(EnvConfig); ok && v != "" {
		return v, true
	}
	if v, ok := opts.LookupEnv(EnvXDGConfigHome); ok && v != "" {
		return filepath.Join(v, "ccrun", "config.toml"), false
	}
	if v, ok := opts.LookupEnv(EnvHome); ok && v != "" {
		return filepath.Join(v, ".config", "ccrun", "config.toml"), false
	}
	return "", false
}

func decodeFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("reading config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// defaultClaudeBin prefers claude on PATH, then ~/.local/bin/claude
// where the installer puts it.
func defaultClaudeBin(opts Options) string {
	if path, err := opts.LookPath("claude"); err == nil {
		return path
	}
	if home, ok := opts.LookupEnv(EnvHome); ok && home != "" {
		return filepath.Join(home, DefaultClaudeRelPath)
	}
	return "claude"
}
