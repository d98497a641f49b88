package config

const (
	defaultStateDir                = "~/.local/share/reactsync"
	defaultLogDir                  = "~/.local/share/reactsync/logs"
	defaultFFprobe                 = "ffprobe"
	defaultLogFormat               = "console"
	defaultLogLevel                = "info"
	defaultLogRetentionDays        = 14
	defaultMaxDelaySeconds         = 300.0
	defaultSeekCooldownMS          = 300
	defaultInteractionHoldMS       = 2000
	defaultSeekVerifyDelayMS       = 150
	defaultSeekVerifyTolerance     = 0.2
	defaultAutosaveIntervalSeconds = 10
	defaultMinSpeed                = 0.25
	defaultMaxSpeed                = 4.0
	defaultProgressTTLDays         = 7
	defaultProgressMaxPairs        = 2
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
			FFprobe:  defaultFFprobe,
		},
		Session: Session{
			MaxDelaySeconds:         defaultMaxDelaySeconds,
			SeekCooldownMS:          defaultSeekCooldownMS,
			InteractionHoldMS:       defaultInteractionHoldMS,
			SeekVerifyDelayMS:       defaultSeekVerifyDelayMS,
			SeekVerifyTolerance:     defaultSeekVerifyTolerance,
			AutosaveIntervalSeconds: defaultAutosaveIntervalSeconds,
			MinSpeed:                defaultMinSpeed,
			MaxSpeed:                defaultMaxSpeed,
		},
		Progress: Progress{
			Enabled:  true,
			TTLDays:  defaultProgressTTLDays,
			MaxPairs: defaultProgressMaxPairs,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
