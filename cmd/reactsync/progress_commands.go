package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reactsync/internal/delay"
	"reactsync/internal/media"
	"reactsync/internal/progress"
	"reactsync/internal/timecode"
)

func newProgressCommand(ctx *commandContext) *cobra.Command {
	progressCmd := &cobra.Command{
		Use:   "progress",
		Short: "Inspect and manage saved resume points",
		Long: `Inspect and manage saved resume points.

A resume point records the delay and base position of a base/react pair so
a later session can pick up where the last one stopped. Only the newest pairs
are kept and records expire after progress.ttl_days.`,
	}

	progressCmd.AddCommand(newProgressListCommand(ctx))
	progressCmd.AddCommand(newProgressShowCommand(ctx))
	progressCmd.AddCommand(newProgressLatestCommand(ctx))
	progressCmd.AddCommand(newProgressRemoveCommand(ctx))
	progressCmd.AddCommand(newProgressPruneCommand(ctx))
	progressCmd.AddCommand(newProgressClearCommand(ctx))

	return progressCmd
}

func newProgressListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved resume points, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *progress.Store) error {
				records, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					if records == nil {
						records = []progress.Record{}
					}
					return writeJSON(cmd, map[string]any{"items": records})
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "No saved progress")
					return nil
				}
				rows := make([][]string, 0, len(records))
				for _, rec := range records {
					rows = append(rows, []string{
						recordTitle(rec.BaseMeta, rec.BaseID),
						recordTitle(rec.ReactMeta, rec.ReactID),
						delay.Format(rec.Delay),
						timecode.Clock(rec.BaseTime),
						rec.UpdatedAt.Local().Format(time.DateTime),
					})
				}
				fmt.Fprint(out, renderTable(
					[]string{"Base", "React", "Delay", "Position", "Updated"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newProgressShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <base> <react>",
		Short: "Show the resume point of a pair",
		Long:  "Show the resume point of a pair. Each argument is a YouTube link, URL, local file or a stored id such as yt:VIDEOID.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseID, err := resolveMediaID(args[0])
			if err != nil {
				return err
			}
			reactID, err := resolveMediaID(args[1])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *progress.Store) error {
				rec, err := store.Get(cmd.Context(), baseID, reactID)
				if errors.Is(err, progress.ErrNotFound) {
					return fmt.Errorf("no saved progress for %s", progress.PairKey(baseID, reactID))
				}
				if err != nil {
					return err
				}
				return printRecord(cmd, ctx, rec)
			})
		},
	}
}

func newProgressLatestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Show the most recently saved resume point",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *progress.Store) error {
				rec, err := store.Latest(cmd.Context())
				if errors.Is(err, progress.ErrNotFound) {
					if ctx.JSONMode() {
						return writeJSON(cmd, map[string]any{"item": nil})
					}
					fmt.Fprintln(cmd.OutOrStdout(), "No saved progress")
					return nil
				}
				if err != nil {
					return err
				}
				return printRecord(cmd, ctx, rec)
			})
		},
	}
}

func newProgressRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <pair-key>",
		Short: "Remove one resume point by pair key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(args[0])
			return ctx.withStore(func(store *progress.Store) error {
				if err := store.Delete(cmd.Context(), key); err != nil {
					if errors.Is(err, progress.ErrNotFound) {
						return fmt.Errorf("no saved progress for %s", key)
					}
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]any{"removed": 1})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", key)
				return nil
			})
		},
	}
}

func newProgressPruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Drop expired resume points and trim to the newest pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *progress.Store) error {
				removed, err := store.Prune(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]any{"removed": removed})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d resume points\n", removed)
				return nil
			})
		},
	}
}

func newProgressClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every saved resume point",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *progress.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]any{"removed": removed})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d resume points\n", removed)
				return nil
			})
		},
	}
}

func printRecord(cmd *cobra.Command, ctx *commandContext, rec *progress.Record) error {
	if ctx.JSONMode() {
		return writeJSON(cmd, map[string]any{"item": rec})
	}
	fields := [][2]string{
		{"Pair", rec.Key()},
		{"Base", recordTitle(rec.BaseMeta, rec.BaseID)},
		{"React", recordTitle(rec.ReactMeta, rec.ReactID)},
		{"Delay", delay.Format(rec.Delay)},
		{"Position", timecode.Precise(rec.BaseTime)},
	}
	if rec.BaseVolume != nil {
		fields = append(fields, [2]string{"Base volume", fmt.Sprintf("%.0f%%", *rec.BaseVolume*100)})
	}
	if rec.ReactVolume != nil {
		fields = append(fields, [2]string{"React volume", fmt.Sprintf("%.0f%%", *rec.ReactVolume*100)})
	}
	if l := rec.Layout; l != nil {
		fields = append(fields, [2]string{"Layout", fmt.Sprintf("%dx%d at %d,%d", l.Width, l.Height, l.Left, l.Top)})
	}
	fields = append(fields, [2]string{"Updated", rec.UpdatedAt.Local().Format(time.DateTime)})
	fmt.Fprint(cmd.OutOrStdout(), renderFields(fields))
	return nil
}

func recordTitle(meta *media.Source, id string) string {
	if meta != nil {
		if title := meta.Title(); title != "" {
			return title
		}
	}
	return id
}

var storedIDPrefixes = []string{"yt:", "url:", "file:"}

// resolveMediaID accepts a stored id verbatim or derives one from a media reference.
func resolveMediaID(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	for _, prefix := range storedIDPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return trimmed, nil
		}
	}
	src, err := media.SourceFromInput(trimmed)
	if err != nil {
		return "", err
	}
	return src.Signature(), nil
}
