// Package timecode formats and parses the m:ss playback positions shown to users.
package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Clock renders whole seconds as m:ss. Non-finite or negative input renders as 0:00.
func Clock(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "0:00"
	}
	s := int64(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// Precise renders seconds rounded to tenths as m:ss or m:ss.d.
func Precise(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "0:00"
	}
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	tenths := int64(math.Round(seconds * 10))
	whole := tenths / 10
	frac := tenths % 10
	out := fmt.Sprintf("%s%d:%02d", sign, whole/60, whole%60)
	if frac != 0 {
		out += "." + strconv.FormatInt(frac, 10)
	}
	return out
}

// Parse reads m:ss, m:ss.d or h:mm:ss positions into seconds.
func Parse(value string) (float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("parse timecode: empty value")
	}
	parts := strings.Split(trimmed, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("parse timecode %q: expected m:ss or h:mm:ss", value)
	}
	var total float64
	for i, part := range parts {
		last := i == len(parts)-1
		var n float64
		var err error
		if last {
			n, err = strconv.ParseFloat(part, 64)
		} else {
			var whole int64
			whole, err = strconv.ParseInt(part, 10, 64)
			n = float64(whole)
		}
		if err != nil || n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("parse timecode %q: invalid component %q", value, part)
		}
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("parse timecode %q: component %q out of range", value, part)
		}
		total = total*60 + n
	}
	return total, nil
}
