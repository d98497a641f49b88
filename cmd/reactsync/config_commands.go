package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"reactsync/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigShowCommand(ctx))
	return configCmd
}

// resolveConfigTarget expands an explicit path or falls back to the per-user
// default location.
func resolveConfigTarget(raw string) (string, error) {
	if target := strings.TrimSpace(raw); target != "" {
		expanded, err := config.ExpandPath(target)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return expanded, nil
	}
	path, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return path, nil
}

func newConfigInitCommand() *cobra.Command {
	var (
		targetPath string
		overwrite  bool
	)

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a commented sample config.toml",
		Annotations: skipConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := resolveConfigTarget(targetPath)
			if err != nil {
				return err
			}
			_, statErr := os.Stat(target)
			switch {
			case statErr == nil && !overwrite:
				return fmt.Errorf("%s already exists (pass --overwrite to replace it)", target)
			case statErr != nil && !errors.Is(statErr, fs.ErrNotExist):
				return fmt.Errorf("check config path: %w", statErr)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination (default ~/.config/reactsync/config.toml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

type configReport struct {
	Path           string  `json:"path"`
	Exists         bool    `json:"exists"`
	ProgressDB     string  `json:"progress_db"`
	ProgressOn     bool    `json:"progress_enabled"`
	LogDir         string  `json:"log_dir"`
	MaxDelay       float64 `json:"max_delay_seconds"`
	SeekCooldownMS int     `json:"seek_cooldown_ms"`
	VerifyDelayMS  int     `json:"seek_verify_delay_ms"`
	Valid          bool    `json:"valid"`
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load, validate and summarize the configuration",
		Annotations: skipConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			var flagPath string
			if ctx.configFlag != nil {
				flagPath = *ctx.configFlag
			}
			cfg, path, exists, err := config.Load(strings.TrimSpace(flagPath))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			report := configReport{
				Path:           path,
				Exists:         exists,
				ProgressDB:     cfg.ProgressDBPath(),
				ProgressOn:     cfg.Progress.Enabled,
				LogDir:         cfg.Paths.LogDir,
				MaxDelay:       cfg.Session.MaxDelaySeconds,
				SeekCooldownMS: cfg.Session.SeekCooldownMS,
				VerifyDelayMS:  cfg.Session.SeekVerifyDelayMS,
				Valid:          true,
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, report)
			}

			source := report.Path
			if !report.Exists {
				source += " (not found, defaults used)"
			}
			fmt.Fprint(cmd.OutOrStdout(), renderFields([][2]string{
				{"Config", source},
				{"Progress DB", report.ProgressDB},
				{"Progress saving", yesNo(report.ProgressOn)},
				{"Log dir", report.LogDir},
				{"Max delay", formatSeconds(report.MaxDelay) + "s"},
				{"Seek cooldown", strconv.Itoa(report.SeekCooldownMS) + "ms"},
				{"Seek verify delay", strconv.Itoa(report.VerifyDelayMS) + "ms"},
			}))
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, cfg)
			}
			data, err := toml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
