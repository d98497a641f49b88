package main

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reactsync/internal/clock"
	"reactsync/internal/delay"
	"reactsync/internal/logging"
	"reactsync/internal/media"
	"reactsync/internal/player"
	"reactsync/internal/progress"
	"reactsync/internal/session"
	"reactsync/internal/timecode"
)

type simulateOptions struct {
	duration   time.Duration
	delay      float64
	baseStart  string
	skew       float64
	seekError  float64
	seekAt     time.Duration
	seekTo     string
	bufferAt   time.Duration
	bufferFor  time.Duration
	save       bool
	baseInput  string
	reactInput string
}

type simulationEvent struct {
	Elapsed   time.Duration  `json:"elapsed"`
	BaseTime  float64        `json:"base_time"`
	ReactTime float64        `json:"react_time"`
	Drift     float64        `json:"drift"`
	Health    session.Health `json:"health"`
	Event     string         `json:"event"`
}

type simulationSummary struct {
	Ticks       int            `json:"ticks"`
	Corrections int            `json:"corrections"`
	Reseeks     int            `json:"reseeks"`
	RateChanges int            `json:"rate_changes"`
	MaxDrift    float64        `json:"max_drift"`
	FinalDrift  float64        `json:"final_drift"`
	FinalRate   float64        `json:"final_rate"`
	Health      session.Health `json:"health"`
	Delay       float64        `json:"delay"`
	Saved       bool           `json:"saved"`
}

type simulationResult struct {
	Timeline []simulationEvent `json:"timeline"`
	Summary  simulationSummary `json:"summary"`
}

func newSimulateCommand(ctx *commandContext) *cobra.Command {
	opts := simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run an offline sync session against simulated players",
		Long: `Run an offline sync session against simulated players.

Both players run on a virtual clock, so a long session completes instantly.
The react player can run fast or slow (--skew), land seeks off target
(--seek-error) and stall (--buffer-at/--buffer-for). A scripted base seek
(--seek-at/--seek-to) exercises the synced seek path.

With --save the final position is written to the progress store for the
pair named by --base-media and --react-media.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runSimulation(cmd, ctx, opts)
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, result)
			}
			printSimulation(cmd, result)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.DurationVar(&opts.duration, "duration", time.Minute, "Simulated session length")
	flags.Float64Var(&opts.delay, "delay", 2, "Initial offset of the react stream, in seconds")
	flags.StringVar(&opts.baseStart, "base-start", "0", "Base stream start position (seconds or m:ss)")
	flags.Float64Var(&opts.skew, "skew", 1.01, "React media clock speed relative to the base stream")
	flags.Float64Var(&opts.seekError, "seek-error", 0, "Offset every react seek lands away from its target")
	flags.DurationVar(&opts.seekAt, "seek-at", 0, "Elapsed time of a scripted base seek (0 disables)")
	flags.StringVar(&opts.seekTo, "seek-to", "", "Target of the scripted base seek (seconds or m:ss)")
	flags.DurationVar(&opts.bufferAt, "buffer-at", 0, "Elapsed time the react stream starts buffering (0 disables)")
	flags.DurationVar(&opts.bufferFor, "buffer-for", 2*time.Second, "How long the react stream buffers")
	flags.BoolVar(&opts.save, "save", false, "Record the final position in the progress store")
	flags.StringVar(&opts.baseInput, "base-media", "", "Base media reference used as the progress key (YouTube link, URL or file)")
	flags.StringVar(&opts.reactInput, "react-media", "", "React media reference used as the progress key")
	return cmd
}

func runSimulation(cmd *cobra.Command, ctx *commandContext, opts simulateOptions) (simulationResult, error) {
	var result simulationResult
	if opts.duration <= 0 {
		return result, errors.New("--duration must be positive")
	}
	if !(opts.skew > 0) {
		return result, errors.New("--skew must be positive")
	}
	baseStart, err := parsePosition(opts.baseStart)
	if err != nil {
		return result, fmt.Errorf("--base-start: %w", err)
	}
	var seekTo float64
	if opts.seekAt > 0 {
		if seekTo, err = parsePosition(opts.seekTo); err != nil {
			return result, fmt.Errorf("--seek-to: %w", err)
		}
	}

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return result, err
	}

	clk := clock.NewManual(time.Now())
	base := player.NewSimulated(clk, player.WithStart(baseStart))
	react := player.NewSimulated(clk,
		player.WithStart(baseStart+opts.delay),
		player.WithSkew(opts.skew),
		player.WithSeekError(opts.seekError),
	)

	logger := ctx.logger()
	sessionOpts := []session.Option{
		session.WithClock(clk),
		session.WithLogger(logger),
	}

	var (
		store *progress.Store
		lock  *session.PairLock
	)
	if opts.save {
		pair, err := pairFromInputs(opts.baseInput, opts.reactInput)
		if err != nil {
			return result, err
		}
		if !cfg.Progress.Enabled {
			return result, errors.New("progress storage is disabled (set progress.enabled = true)")
		}
		lock, err = session.AcquirePairLock(cfg.LockDir(), pair.Key())
		if err != nil {
			return result, err
		}
		defer lock.Release()
		store, err = progress.Open(cfg, progress.WithClock(clk))
		if err != nil {
			return result, fmt.Errorf("open progress store: %w", err)
		}
		defer store.Close()
		sessionOpts = append(sessionOpts, session.WithPair(pair), session.WithProgress(store))
	}

	co, err := session.New(cfg.Session, base, react, sessionOpts...)
	if err != nil {
		return result, err
	}
	co.EnableSync()
	if err := co.Play(session.SourceBase); err != nil {
		return result, err
	}

	var (
		elapsed     time.Duration
		seekDone    bool
		buffering   bool
		bufferDone  bool
		wasBuffered bool
		lastRate    = 1.0
	)
	for elapsed < opts.duration {
		if err := cmd.Context().Err(); err != nil {
			return result, err
		}
		step := co.Snapshot().Interval
		clk.Advance(step)
		elapsed += step

		var notes []string
		if opts.seekAt > 0 && !seekDone && elapsed >= opts.seekAt {
			seekDone = true
			if err := co.Seek(session.SourceBase, seekTo); err != nil {
				return result, err
			}
			notes = append(notes, "seek base to "+timecode.Precise(seekTo))
		}
		if opts.bufferAt > 0 && !bufferDone {
			switch {
			case !buffering && elapsed >= opts.bufferAt:
				buffering = true
				react.SetBuffering(true)
				notes = append(notes, "react buffering")
			case buffering && elapsed >= opts.bufferAt+opts.bufferFor:
				buffering = false
				bufferDone = true
				react.SetBuffering(false)
				notes = append(notes, "react ready")
			}
		}

		rep := co.Tick(cmd.Context())
		result.Summary.Ticks++
		if rep.Reseeked {
			result.Summary.Reseeks++
			notes = append(notes, "seek retried")
		}
		if rep.Applied {
			notes = append(notes, fmt.Sprintf("%s to %s (%s)", rep.Decision.Action, timecode.Precise(math.Max(0, rep.Decision.Target)), rep.Decision.Reason))
		}
		if rep.Rate != lastRate {
			lastRate = rep.Rate
			result.Summary.RateChanges++
		}
		if rep.Started != "" {
			notes = append(notes, "started "+string(rep.Started))
		}
		if rep.BufferPause != wasBuffered {
			wasBuffered = rep.BufferPause
			if rep.BufferPause {
				notes = append(notes, "paused for buffering")
			} else {
				notes = append(notes, "resumed after buffering")
			}
		}
		if rep.Saved {
			notes = append(notes, "progress saved")
		}

		if abs := math.Abs(rep.Drift); abs > result.Summary.MaxDrift {
			result.Summary.MaxDrift = abs
		}
		result.Summary.FinalDrift = rep.Drift
		if len(notes) > 0 {
			result.Timeline = append(result.Timeline, simulationEvent{
				Elapsed:   elapsed,
				BaseTime:  rep.BaseTime,
				ReactTime: rep.ReactTime,
				Drift:     rep.Drift,
				Health:    rep.Health,
				Event:     strings.Join(notes, "; "),
			})
		}
	}

	snap := co.Snapshot()
	result.Summary.Corrections = snap.Corrections
	result.Summary.Health = snap.Health
	result.Summary.Delay = snap.Engine.Delay
	result.Summary.FinalRate = snap.DriftCorrection
	if store != nil {
		if err := co.SaveProgress(cmd.Context()); err != nil {
			return result, fmt.Errorf("save progress: %w", err)
		}
		result.Summary.Saved = true
		logger.Info("simulation progress saved",
			logging.String(logging.FieldEventType, "simulate_saved"),
			logging.String(logging.FieldPairKey, lock.Key()),
		)
	}
	if result.Timeline == nil {
		result.Timeline = []simulationEvent{}
	}
	return result, nil
}

func pairFromInputs(baseInput, reactInput string) (session.Pair, error) {
	if strings.TrimSpace(baseInput) == "" || strings.TrimSpace(reactInput) == "" {
		return session.Pair{}, errors.New("--save needs --base-media and --react-media")
	}
	base, err := media.SourceFromInput(baseInput)
	if err != nil {
		return session.Pair{}, fmt.Errorf("--base-media: %w", err)
	}
	react, err := media.SourceFromInput(reactInput)
	if err != nil {
		return session.Pair{}, fmt.Errorf("--react-media: %w", err)
	}
	return session.Pair{Base: base, React: react}, nil
}

func printSimulation(cmd *cobra.Command, result simulationResult) {
	out := cmd.OutOrStdout()
	if len(result.Timeline) == 0 {
		fmt.Fprintln(out, "No corrections were needed")
	} else {
		rows := make([][]string, 0, len(result.Timeline))
		for _, ev := range result.Timeline {
			rows = append(rows, []string{
				ev.Elapsed.Round(time.Millisecond).String(),
				timecode.Precise(ev.BaseTime),
				timecode.Precise(ev.ReactTime),
				formatSeconds(ev.Drift),
				string(ev.Health),
				ev.Event,
			})
		}
		fmt.Fprint(out, renderTable(
			[]string{"Elapsed", "Base", "React", "Drift", "Health", "Event"},
			rows,
			[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft, alignLeft},
		))
	}

	s := result.Summary
	fmt.Fprint(out, renderFields([][2]string{
		{"Ticks", fmt.Sprint(s.Ticks)},
		{"Corrections", fmt.Sprint(s.Corrections)},
		{"Seek retries", fmt.Sprint(s.Reseeks)},
		{"Rate changes", fmt.Sprint(s.RateChanges)},
		{"Final rate", fmt.Sprintf("%.3fx", s.FinalRate)},
		{"Max drift", formatSeconds(s.MaxDrift)},
		{"Final drift", formatSeconds(s.FinalDrift)},
		{"Health", string(s.Health)},
		{"Delay", delay.Format(s.Delay)},
		{"Progress saved", yesNo(s.Saved)},
	}))
}
