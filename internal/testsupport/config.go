package testsupport

import (
	"path/filepath"
	"testing"

	"reactsync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithProgressLimits overrides the resume record retention settings.
func WithProgressLimits(ttlDays, maxPairs int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Progress.TTLDays = ttlDays
		b.cfg.Progress.MaxPairs = maxPairs
	}
}

// WithProgressDisabled turns off resume record persistence.
func WithProgressDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Progress.Enabled = false
	}
}

// WithSession replaces the session tuning block.
func WithSession(mutate func(*config.Session)) ConfigOption {
	return func(b *configBuilder) {
		mutate(&b.cfg.Session)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
