package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"reactsync/internal/delay"
)

var errNoDelayToken = errors.New("no delay token found")

type delayParseView struct {
	File      string  `json:"file"`
	Delay     float64 `json:"delay"`
	Formatted string  `json:"formatted"`
}

type delayStepView struct {
	Held time.Duration `json:"held"`
	Step float64       `json:"step"`
}

func newDelayCommand(ctx *commandContext) *cobra.Command {
	delayCmd := &cobra.Command{
		Use:         "delay",
		Short:       "Delay helpers",
		Annotations: skipConfig,
	}

	delayCmd.AddCommand(&cobra.Command{
		Use:   "parse <filename>",
		Short: "Read a delay from a dtNNN file name token (tenths of a second)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := filepath.Base(args[0])
			v, ok := delay.ParseFilename(name)
			if !ok {
				return fmt.Errorf("%s: %w", name, errNoDelayToken)
			}
			view := delayParseView{File: name, Delay: v, Formatted: delay.Format(v)}
			if ctx.JSONMode() {
				return writeJSON(cmd, view)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", view.Formatted)
			return nil
		},
	})

	var held time.Duration
	stepCmd := &cobra.Command{
		Use:   "step",
		Short: "Show the delay step applied after holding an adjust key",
		RunE: func(cmd *cobra.Command, args []string) error {
			view := delayStepView{Held: held, Step: delay.HoldStep(held)}
			if ctx.JSONMode() {
				return writeJSON(cmd, view)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Held %s: step %.1fs\n", held, view.Step)
			return nil
		},
	}
	stepCmd.Flags().DurationVar(&held, "held", 0, "How long the adjust key has been held")
	delayCmd.AddCommand(stepCmd)

	return delayCmd
}
