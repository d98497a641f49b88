package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSession()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("REACTSYNC_STATE_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.StateDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	c.Paths.FFprobe = strings.TrimSpace(c.Paths.FFprobe)
	if c.Paths.FFprobe == "" {
		c.Paths.FFprobe = defaultFFprobe
	}
	var err error
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSession() {
	if c.Session.MaxDelaySeconds == 0 {
		c.Session.MaxDelaySeconds = defaultMaxDelaySeconds
	}
	if c.Session.SeekVerifyTolerance == 0 {
		c.Session.SeekVerifyTolerance = defaultSeekVerifyTolerance
	}
	if c.Session.MinSpeed == 0 {
		c.Session.MinSpeed = defaultMinSpeed
	}
	if c.Session.MaxSpeed == 0 {
		c.Session.MaxSpeed = defaultMaxSpeed
	}
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("REACTSYNC_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
