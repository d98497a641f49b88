package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSession(); err != nil {
		return err
	}
	if err := c.validateProgress(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateSession() error {
	s := c.Session
	if !(s.MaxDelaySeconds > 0) || math.IsInf(s.MaxDelaySeconds, 0) {
		return errors.New("session.max_delay_seconds must be positive")
	}
	if err := ensureNonNegativeMap(map[string]int{
		"session.seek_cooldown_ms":     s.SeekCooldownMS,
		"session.interaction_hold_ms":  s.InteractionHoldMS,
		"session.seek_verify_delay_ms": s.SeekVerifyDelayMS,
	}); err != nil {
		return err
	}
	if s.AutosaveIntervalSeconds <= 0 {
		return errors.New("session.autosave_interval_seconds must be positive")
	}
	if !(s.SeekVerifyTolerance > 0) {
		return errors.New("session.seek_verify_tolerance must be positive")
	}
	if !(s.MinSpeed > 0) {
		return errors.New("session.min_speed must be positive")
	}
	if !(s.MaxSpeed >= s.MinSpeed) {
		return errors.New("session.max_speed must be >= session.min_speed")
	}
	return nil
}

func (c *Config) validateProgress() error {
	if c.Progress.TTLDays <= 0 {
		return errors.New("progress.ttl_days must be positive")
	}
	if c.Progress.MaxPairs < 1 {
		return errors.New("progress.max_pairs must be >= 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be >= 0")
	}
	return nil
}

func ensureNonNegativeMap(values map[string]int) error {
	for key, value := range values {
		if value < 0 {
			return fmt.Errorf("%s must be >= 0", key)
		}
	}
	return nil
}
