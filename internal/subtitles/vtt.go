package subtitles

import (
	"fmt"
	"io"
	"strings"
)

const webVTTHeader = "WEBVTT"

// WriteWebVTT renders cues as a WebVTT document.
func WriteWebVTT(w io.Writer, cues []Cue) error {
	var sb strings.Builder
	sb.WriteString(webVTTHeader)
	sb.WriteString("\n")
	for _, cue := range cues {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "%s --> %s\n", formatTimestamp(cue.Start, '.'), formatTimestamp(cue.End, '.'))
		sb.WriteString(cue.Text)
		sb.WriteString("\n")
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write webvtt: %w", err)
	}
	return nil
}

// ConvertSRTToVTT parses SRT from r, shifts it by offset seconds and writes
// WebVTT to w. It returns the number of cues written.
func ConvertSRTToVTT(r io.Reader, w io.Writer, offset float64) (int, error) {
	cues, err := ParseSRT(r)
	if err != nil {
		return 0, err
	}
	shifted := Shift(cues, offset)
	if len(shifted) == 0 {
		return 0, ErrNoCues
	}
	if err := WriteWebVTT(w, shifted); err != nil {
		return 0, err
	}
	return len(shifted), nil
}
