package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
	FFprobe  string `toml:"ffprobe"`
}

// Session tunes the sync coordinator.
type Session struct {
	MaxDelaySeconds         float64 `toml:"max_delay_seconds"`
	SeekCooldownMS          int     `toml:"seek_cooldown_ms"`
	InteractionHoldMS       int     `toml:"interaction_hold_ms"`
	SeekVerifyDelayMS       int     `toml:"seek_verify_delay_ms"`
	SeekVerifyTolerance     float64 `toml:"seek_verify_tolerance"`
	AutosaveIntervalSeconds int     `toml:"autosave_interval_seconds"`
	MinSpeed                float64 `toml:"min_speed"`
	MaxSpeed                float64 `toml:"max_speed"`
}

// Progress controls resume record retention.
type Progress struct {
	Enabled  bool `toml:"enabled"`
	TTLDays  int  `toml:"ttl_days"`
	MaxPairs int  `toml:"max_pairs"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for reactsync.
//
// Configuration sections by subsystem:
//   - Paths: state (progress database, session locks) and log directories
//   - Session: coordinator timings, delay bounds and speed limits
//   - Progress: resume record retention
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Session  Session  `toml:"session"`
	Progress Progress `toml:"progress"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reactsync/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reactsync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ProgressDBPath returns the location of the resume database.
func (c *Config) ProgressDBPath() string {
	return filepath.Join(c.Paths.StateDir, "progress.db")
}

// LockDir returns the directory holding per-pair session locks.
func (c *Config) LockDir() string {
	return filepath.Join(c.Paths.StateDir, "locks")
}

// SeekCooldown is how long a programmatic seek suppresses corrections.
func (s Session) SeekCooldown() time.Duration {
	return time.Duration(s.SeekCooldownMS) * time.Millisecond
}

// InteractionHold is how long a user interaction marker stays set.
func (s Session) InteractionHold() time.Duration {
	return time.Duration(s.InteractionHoldMS) * time.Millisecond
}

// SeekVerifyDelay is the wait before checking where a seek landed.
func (s Session) SeekVerifyDelay() time.Duration {
	return time.Duration(s.SeekVerifyDelayMS) * time.Millisecond
}

// AutosaveInterval is the cadence of progress saves while playing.
func (s Session) AutosaveInterval() time.Duration {
	return time.Duration(s.AutosaveIntervalSeconds) * time.Second
}

// TTL is the age after which resume records are pruned.
func (p Progress) TTL() time.Duration {
	return time.Duration(p.TTLDays) * 24 * time.Hour
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
