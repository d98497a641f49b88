// Package delay holds the arithmetic for the offset between the base and
// reactive streams: clamping, rounding, hold-to-repeat stepping and the
// filename convention that carries a pre-measured offset.
package delay

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// MaxSeconds bounds the offset users can configure in either direction.
	MaxSeconds = 300.0
	// MicroStep nudges the delay by roughly one frame at 30fps.
	MicroStep = 0.033

	baseStep   = 0.1
	mediumStep = 0.5
	largeStep  = 1.0
)

// Clamp bounds v to [-limit, limit]. A non-positive limit falls back to
// MaxSeconds and NaN becomes 0.
func Clamp(v, limit float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if limit <= 0 {
		limit = MaxSeconds
	}
	return math.Min(limit, math.Max(-limit, v))
}

// Round rounds v to centiseconds.
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}

// Normalize rounds v to centiseconds and clamps it to ±limit.
func Normalize(v, limit float64) float64 {
	return Clamp(Round(v), limit)
}

// FromPositions derives the delay that makes the current positions line up.
func FromPositions(baseTime, reactTime, limit float64) float64 {
	return Normalize(reactTime-baseTime, limit)
}

// HoldStep returns the step applied while a delay button is held for elapsed.
func HoldStep(elapsed time.Duration) float64 {
	switch {
	case elapsed > 2*time.Second:
		return largeStep
	case elapsed > time.Second:
		return mediumStep
	default:
		return baseStep
	}
}

// ParseFilename extracts a delay encoded as a "dtNNN" dot-separated token,
// where NNN is the delay in tenths of a second (e.g. "clip.dt-25.mp4" is -2.5s).
func ParseFilename(name string) (float64, bool) {
	for _, token := range strings.Split(name, ".") {
		if !strings.HasPrefix(token, "dt") {
			continue
		}
		raw := token[2:]
		if !isSignedDigits(raw) {
			continue
		}
		tenths, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		return tenths / 10, true
	}
	return 0, false
}

// isSignedDigits accepts an optional sign followed by one or more ASCII digits.
func isSignedDigits(s string) bool {
	if s != "" && (s[0] == '-' || s[0] == '+') {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Format renders v with an explicit sign and one decimal, e.g. "+1.5s".
func Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.0s"
	}
	sign := "+"
	if v < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%.1fs", sign, math.Abs(v))
}
