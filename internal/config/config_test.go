package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"reactsync/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "reactsync", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "reactsync")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.ProgressDBPath() != filepath.Join(wantState, "progress.db") {
		t.Fatalf("unexpected progress db path %q", cfg.ProgressDBPath())
	}
	if cfg.Session.SeekCooldown() != 300*time.Millisecond {
		t.Fatalf("unexpected seek cooldown %v", cfg.Session.SeekCooldown())
	}
	if cfg.Session.InteractionHold() != 2*time.Second {
		t.Fatalf("unexpected interaction hold %v", cfg.Session.InteractionHold())
	}
	if cfg.Progress.TTL() != 7*24*time.Hour || cfg.Progress.MaxPairs != 2 {
		t.Fatalf("unexpected progress defaults: %+v", cfg.Progress)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" || cfg.Logging.RetentionDays != 14 {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Paths.FFprobe != "ffprobe" {
		t.Fatalf("unexpected ffprobe default %q", cfg.Paths.FFprobe)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "reactsync.toml")

	type payload struct {
		Paths struct {
			StateDir string `toml:"state_dir"`
		} `toml:"paths"`
		Session struct {
			MaxDelaySeconds float64 `toml:"max_delay_seconds"`
			SeekCooldownMS  int     `toml:"seek_cooldown_ms"`
		} `toml:"session"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.StateDir = filepath.Join(tempDir, "state")
	custom.Session.MaxDelaySeconds = 120
	custom.Session.SeekCooldownMS = 500
	custom.Logging.Format = " JSON "
	custom.Logging.Level = "DEBUG"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.StateDir != filepath.Join(tempDir, "state") {
		t.Fatalf("expected state dir override, got %q", cfg.Paths.StateDir)
	}
	if cfg.Session.MaxDelaySeconds != 120 {
		t.Fatalf("expected max delay 120, got %v", cfg.Session.MaxDelaySeconds)
	}
	if cfg.Session.SeekCooldown() != 500*time.Millisecond {
		t.Fatalf("expected seek cooldown 500ms, got %v", cfg.Session.SeekCooldown())
	}
	if cfg.Session.AutosaveIntervalSeconds != 10 {
		t.Fatalf("expected untouched autosave default, got %d", cfg.Session.AutosaveIntervalSeconds)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging, got %+v", cfg.Logging)
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "reactsync.toml")
	contents := "[paths]\nstate_dir = \"/tmp/from-file\"\n\n[logging]\nlevel = \"info\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	envState := filepath.Join(tempDir, "env-state")
	t.Setenv("REACTSYNC_STATE_DIR", envState)
	t.Setenv("REACTSYNC_LOG_LEVEL", "warn")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.StateDir != envState {
		t.Errorf("expected state dir from env, got %q", cfg.Paths.StateDir)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level from env, got %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "reactsync.toml")
	if err := os.WriteFile(configPath, []byte("[session\nmax_delay_seconds = "), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	def := config.Default()
	if cfg.Session != def.Session {
		t.Fatalf("sample session section drifted from defaults: %+v vs %+v", cfg.Session, def.Session)
	}
	if cfg.Progress != def.Progress {
		t.Fatalf("sample progress section drifted from defaults: %+v vs %+v", cfg.Progress, def.Progress)
	}
	if !strings.Contains(cfg.Paths.StateDir, "reactsync") {
		t.Fatalf("expected state dir to contain reactsync, got %q", cfg.Paths.StateDir)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	mutations := map[string]func(*config.Config){
		"max delay":   func(c *config.Config) { c.Session.MaxDelaySeconds = -1 },
		"cooldown":    func(c *config.Config) { c.Session.SeekCooldownMS = -5 },
		"autosave":    func(c *config.Config) { c.Session.AutosaveIntervalSeconds = 0 },
		"tolerance":   func(c *config.Config) { c.Session.SeekVerifyTolerance = 0 },
		"speed order": func(c *config.Config) { c.Session.MaxSpeed = 0.1 },
		"ttl":         func(c *config.Config) { c.Progress.TTLDays = 0 },
		"max pairs":   func(c *config.Config) { c.Progress.MaxPairs = 0 },
		"log format":  func(c *config.Config) { c.Logging.Format = "xml" },
		"log level":   func(c *config.Config) { c.Logging.Level = "trace" },
		"retention":   func(c *config.Config) { c.Logging.RetentionDays = -1 },
	}
	for name, mutate := range mutations {
		cfg := config.Default()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
