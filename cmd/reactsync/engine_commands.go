package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"reactsync/internal/clock"
	"reactsync/internal/delay"
	"reactsync/internal/syncengine"
	"reactsync/internal/timecode"
)

type thresholdView struct {
	Delay      float64 `json:"delay"`
	Threshold  float64 `json:"threshold"`
	IntervalMS int     `json:"interval_ms"`
}

func newThresholdCommand(ctx *commandContext) *cobra.Command {
	var delayFlag float64

	cmd := &cobra.Command{
		Use:         "threshold",
		Short:       "Show the drift threshold and poll interval for a delay",
		Annotations: skipConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := syncengine.New()
			engine.SetDelay(delayFlag)
			view := thresholdView{
				Delay:      delayFlag,
				Threshold:  engine.SyncThreshold(),
				IntervalMS: engine.SyncIntervalMillis(),
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, view)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderFields([][2]string{
				{"Delay", delay.Format(view.Delay)},
				{"Threshold", formatSeconds(view.Threshold) + "s"},
				{"Interval", strconv.Itoa(view.IntervalMS) + "ms"},
			}))
			return nil
		},
	}

	cmd.Flags().Float64Var(&delayFlag, "delay", 0, "Offset of the react stream relative to the base stream, in seconds")
	return cmd
}

type seekView struct {
	Delay     float64 `json:"delay"`
	Source    string  `json:"source"`
	BaseTime  float64 `json:"base_time"`
	ReactTime float64 `json:"react_time"`
}

func newSeekCommand(ctx *commandContext) *cobra.Command {
	var delayFlag float64
	var baseFlag, reactFlag string

	cmd := &cobra.Command{
		Use:         "seek",
		Short:       "Map a seek on one stream onto the other",
		Annotations: skipConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (baseFlag == "") == (reactFlag == "") {
				return errors.New("pass exactly one of --base or --react")
			}
			engine := syncengine.New()
			engine.SetDelay(delayFlag)

			view := seekView{Delay: delayFlag}
			if baseFlag != "" {
				t, err := parsePosition(baseFlag)
				if err != nil {
					return err
				}
				view.Source = "base"
				view.BaseTime = t
				view.ReactTime = engine.SyncSeekBase(t)
			} else {
				t, err := parsePosition(reactFlag)
				if err != nil {
					return err
				}
				view.Source = "react"
				view.ReactTime = t
				view.BaseTime = engine.SyncSeekReact(t)
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, view)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(
				[]string{"Stream", "Seconds", "Position"},
				[][]string{
					{"base", formatSeconds(view.BaseTime), timecode.Precise(view.BaseTime)},
					{"react", formatSeconds(view.ReactTime), timecode.Precise(view.ReactTime)},
				},
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().Float64Var(&delayFlag, "delay", 0, "Offset of the react stream relative to the base stream, in seconds")
	cmd.Flags().StringVar(&baseFlag, "base", "", "Seek target on the base stream (seconds or m:ss)")
	cmd.Flags().StringVar(&reactFlag, "react", "", "Seek target on the react stream (seconds or m:ss)")
	return cmd
}

type decisionView struct {
	Action     string  `json:"action"`
	Reason     string  `json:"reason"`
	Target     float64 `json:"target"`
	Drift      float64 `json:"drift"`
	Threshold  float64 `json:"threshold"`
	Correction float64 `json:"correction"`
}

func newDecideCommand(ctx *commandContext) *cobra.Command {
	var (
		delayFlag        float64
		baseFlag         string
		reactFlag        string
		force            bool
		seeking          bool
		interacting      bool
		sinceInteraction time.Duration
		disabled         bool
	)

	cmd := &cobra.Command{
		Use:         "decide",
		Short:       "Evaluate one sync decision for a pair of positions",
		Annotations: skipConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			baseTime, err := parsePosition(baseFlag)
			if err != nil {
				return fmt.Errorf("--base: %w", err)
			}
			reactTime, err := parsePosition(reactFlag)
			if err != nil {
				return fmt.Errorf("--react: %w", err)
			}

			clk := clock.NewManual(time.Now())
			engine := syncengine.New(syncengine.WithClock(clk))
			engine.SetDelay(delayFlag)
			engine.SetSynced(!disabled)
			if seeking {
				engine.MarkSeeking("base")
			}
			if interacting {
				engine.MarkUserInteraction()
			}
			clk.Advance(sinceInteraction)

			d := engine.Decide(baseTime, reactTime, force)
			view := decisionView{
				Action:     d.Action.String(),
				Reason:     string(d.Reason),
				Target:     d.Target,
				Drift:      d.Drift,
				Threshold:  d.Threshold,
				Correction: engine.SyncVideos(baseTime, reactTime, force),
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, view)
			}
			fields := [][2]string{
				{"Action", view.Action},
				{"Reason", view.Reason},
			}
			if d.Apply() {
				fields = append(fields,
					[2]string{"Target", formatSeconds(view.Target) + " (" + timecode.Precise(view.Target) + ")"},
					[2]string{"Drift", formatSeconds(view.Drift)},
					[2]string{"Threshold", formatSeconds(view.Threshold)},
				)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderFields(fields))
			return nil
		},
	}

	cmd.Flags().Float64Var(&delayFlag, "delay", 0, "Offset of the react stream relative to the base stream, in seconds")
	cmd.Flags().StringVar(&baseFlag, "base", "", "Base stream position (seconds or m:ss)")
	cmd.Flags().StringVar(&reactFlag, "react", "", "React stream position (seconds or m:ss)")
	cmd.Flags().BoolVar(&force, "force", false, "Bypass the seek and interaction guards")
	cmd.Flags().BoolVar(&seeking, "seeking", false, "Treat a seek as in flight")
	cmd.Flags().BoolVar(&interacting, "interacting", false, "Treat the user as interacting")
	cmd.Flags().DurationVar(&sinceInteraction, "since-interaction", 0, "Time elapsed since the interaction started")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "Evaluate with sync switched off")
	_ = cmd.MarkFlagRequired("base")
	_ = cmd.MarkFlagRequired("react")
	return cmd
}
