package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"reactsync/internal/delay"
	"reactsync/internal/subtitles"
)

func newSubtitlesCommand(ctx *commandContext) *cobra.Command {
	subtitlesCmd := &cobra.Command{
		Use:   "subtitles",
		Short: "Subtitle utilities",
	}
	subtitlesCmd.AddCommand(newSubtitlesConvertCommand(ctx))
	return subtitlesCmd
}

func newSubtitlesConvertCommand(ctx *commandContext) *cobra.Command {
	var (
		outputPath string
		shift      float64
		fromName   bool
		format     string
	)

	cmd := &cobra.Command{
		Use:   "convert <input.srt>",
		Short: "Shift SRT subtitles and write SRT or WebVTT",
		Long: `Shift SRT subtitles and write SRT or WebVTT.

--shift moves every cue by the given number of seconds; pass the sync delay to
line the react stream's subtitles up with the base stream. --shift-from-name
reads the delay from a "dtNNN" token in the input file name instead. Cues that
end before zero are dropped.`,
		Args:        cobra.ExactArgs(1),
		Annotations: skipConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "vtt" && format != "srt" {
				return fmt.Errorf("unsupported format %q (use vtt or srt)", format)
			}
			if fromName {
				parsed, ok := delay.ParseFilename(filepath.Base(input))
				if !ok {
					return fmt.Errorf("no dtNNN delay token in %q", filepath.Base(input))
				}
				shift = parsed
			}

			f, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("open subtitles: %w", err)
			}
			defer f.Close()

			cues, err := subtitles.ParseSRT(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", input, err)
			}
			shifted := subtitles.Shift(cues, shift)
			if len(shifted) == 0 {
				return fmt.Errorf("shift %s: %w", delay.Format(shift), subtitles.ErrNoCues)
			}

			var buf bytes.Buffer
			if format == "vtt" {
				err = subtitles.WriteWebVTT(&buf, shifted)
			} else {
				err = subtitles.WriteSRT(&buf, shifted)
			}
			if err != nil {
				return err
			}

			if outputPath == "" || outputPath == "-" {
				_, err := io.Copy(cmd.OutOrStdout(), &buf)
				return err
			}
			if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write subtitles: %w", err)
			}

			summary := map[string]any{
				"input":   input,
				"output":  outputPath,
				"format":  format,
				"shift":   shift,
				"cues":    len(shifted),
				"dropped": len(cues) - len(shifted),
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, summary)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d cues to %s (shift %s, %d dropped)\n",
				len(shifted), outputPath, delay.Format(shift), len(cues)-len(shifted))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().Float64Var(&shift, "shift", 0, "Seconds to add to every cue")
	cmd.Flags().BoolVar(&fromName, "shift-from-name", false, "Read the shift from a dtNNN token in the input file name")
	cmd.Flags().StringVar(&format, "format", "vtt", "Output format: vtt or srt")
	cmd.MarkFlagsMutuallyExclusive("shift", "shift-from-name")
	return cmd
}
