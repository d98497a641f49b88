package syncengine

import (
	"math"
	"time"
)

const (
	minThreshold       = 0.3
	maxThreshold       = 1.0
	thresholdDelayRate = 0.05

	minIntervalMillis = 200
	maxIntervalMillis = 1000
)

// SyncThreshold returns the drift tolerated before an unforced correction:
// 5% of |delay|, floored at 0.3 and capped at 1.0. A NaN delay yields the floor.
func (e *Engine) SyncThreshold() float64 {
	t := math.Abs(e.delay) * thresholdDelayRate
	if !(t > minThreshold) {
		t = minThreshold
	}
	if t > maxThreshold {
		t = maxThreshold
	}
	return t
}

// SyncIntervalMillis is the suggested poll cadence in milliseconds: the
// threshold scaled to milliseconds (truncated), clamped to [200, 1000].
func (e *Engine) SyncIntervalMillis() int {
	ms := int(e.SyncThreshold() * 1000)
	if ms < minIntervalMillis {
		return minIntervalMillis
	}
	if ms > maxIntervalMillis {
		return maxIntervalMillis
	}
	return ms
}

// SyncInterval is SyncIntervalMillis as a duration.
func (e *Engine) SyncInterval() time.Duration {
	return time.Duration(e.SyncIntervalMillis()) * time.Millisecond
}

// SyncSeekBase offsets target by the delay, clamped at zero. A seek of the
// base stream to target lands the reactive stream at SyncSeekBase(target).
func (e *Engine) SyncSeekBase(target float64) float64 {
	return nonNegative(target + e.delay)
}

// SyncSeekReact is the inverse of SyncSeekBase: a seek of the reactive stream
// to target lands the base stream at SyncSeekReact(target).
func (e *Engine) SyncSeekReact(target float64) float64 {
	return nonNegative(target - e.delay)
}

func nonNegative(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	return v
}
