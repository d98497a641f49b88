package subtitles

import "math"

// Shift returns a copy of cues moved by offset seconds. Cues that would end
// at or before zero are dropped, starts are clamped at zero, and the
// survivors are renumbered from 1.
func Shift(cues []Cue, offset float64) []Cue {
	if math.IsNaN(offset) || math.IsInf(offset, 0) {
		offset = 0
	}
	out := make([]Cue, 0, len(cues))
	for _, cue := range cues {
		end := cue.End + offset
		if end <= 0 {
			continue
		}
		start := cue.Start + offset
		if start < 0 {
			start = 0
		}
		out = append(out, Cue{
			Index: len(out) + 1,
			Start: start,
			End:   end,
			Text:  cue.Text,
		})
	}
	return out
}
