package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reactsync/internal/logging"
	"reactsync/internal/media"
	"reactsync/internal/media/ffprobe"
	"reactsync/internal/session"
)

type mediaView struct {
	Input     string        `json:"input"`
	Kind      media.Kind    `json:"type"`
	Signature string        `json:"signature"`
	Title     string        `json:"title"`
	Probe     *ffprobe.Info `json:"probe,omitempty"`
	ProbeErr  string        `json:"probe_error,omitempty"`
}

type mediaResult struct {
	Sources []mediaView `json:"sources"`
	PairKey string      `json:"pair_key,omitempty"`
}

func newMediaCommand(ctx *commandContext) *cobra.Command {
	var (
		binary  string
		noProbe bool
	)

	cmd := &cobra.Command{
		Use:   "media <ref>...",
		Short: "Identify media references and probe local files",
		Long: `Identify media references and probe local files.

Each reference is a YouTube link, an http(s) URL or a local file path. Local
files are inspected with ffprobe for duration and stream counts. With exactly
two references the first is treated as the base and the second as the react
stream, and the progress key for that pair is printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configOrDefault()
			if strings.TrimSpace(binary) == "" {
				binary = cfg.Paths.FFprobe
			}
			logger := logging.NewComponentLogger(ctx.logger(), "media")

			var result mediaResult
			sources := make([]media.Source, 0, len(args))
			for _, input := range args {
				src, err := media.SourceFromInput(input)
				if err != nil {
					return err
				}
				sources = append(sources, src)
				view := mediaView{
					Input:     input,
					Kind:      src.Kind,
					Signature: src.Signature(),
					Title:     src.Title(),
				}
				if src.Kind == media.KindLocal && !noProbe {
					info, err := probeFile(cmd.Context(), binary, input)
					if err != nil {
						logging.WarnWithContext(logger, "ffprobe failed; duration unknown", "media_probe_failed",
							logging.String("path", input),
							logging.Error(err),
							logging.String(logging.FieldErrorHint, "install ffprobe or set paths.ffprobe"),
							logging.String(logging.FieldImpact, "duration and stream counts are not reported"),
						)
						view.ProbeErr = err.Error()
					} else {
						view.Probe = &info
					}
				}
				result.Sources = append(result.Sources, view)
			}
			if len(sources) == 2 {
				result.PairKey = session.Pair{Base: sources[0], React: sources[1]}.Key()
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, result)
			}
			printMedia(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&binary, "ffprobe", "", "ffprobe binary (default paths.ffprobe)")
	cmd.Flags().BoolVar(&noProbe, "no-probe", false, "Skip ffprobe for local files")
	return cmd
}

func probeFile(ctx context.Context, binary, path string) (ffprobe.Info, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := ffprobe.Inspect(ctx, binary, path)
	if err != nil {
		return ffprobe.Info{}, err
	}
	return result.Summary(), nil
}

func printMedia(cmd *cobra.Command, result mediaResult) {
	rows := make([][]string, 0, len(result.Sources))
	for _, view := range result.Sources {
		duration, streams := "-", "-"
		switch {
		case view.Probe != nil:
			duration = formatSeconds(view.Probe.Duration)
			streams = fmt.Sprintf("%dv %da %ds", view.Probe.Video, view.Probe.Audio, view.Probe.Subtitles)
		case view.ProbeErr != "":
			duration = "probe failed"
		}
		rows = append(rows, []string{view.Title, string(view.Kind), view.Signature, duration, streams})
	}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, renderTable(
		[]string{"Title", "Type", "Signature", "Duration", "Streams"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
	if result.PairKey != "" {
		fmt.Fprintf(out, "Pair key: %s\n", result.PairKey)
	}
}
