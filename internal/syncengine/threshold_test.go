package syncengine_test

import (
	"math"
	"testing"
	"time"

	"reactsync/internal/syncengine"
)

func TestSyncThresholdAndInterval(t *testing.T) {
	cases := []struct {
		delay     float64
		threshold float64
		interval  int
	}{
		{0, 0.3, 300},
		{2, 0.3, 300},
		{-2, 0.3, 300},
		{10, 0.5, 500},
		{-10, 0.5, 500},
		{20, 1.0, 1000},
		{50, 1.0, 1000},
		{300, 1.0, 1000},
	}
	for _, tc := range cases {
		e := syncengine.New()
		e.SetDelay(tc.delay)
		if got := e.SyncThreshold(); math.Abs(got-tc.threshold) > 1e-12 {
			t.Fatalf("delay %v: threshold %v, want %v", tc.delay, got, tc.threshold)
		}
		if got := e.SyncIntervalMillis(); got != tc.interval {
			t.Fatalf("delay %v: interval %d, want %d", tc.delay, got, tc.interval)
		}
		if got := e.SyncInterval(); got != time.Duration(tc.interval)*time.Millisecond {
			t.Fatalf("delay %v: duration %v", tc.delay, got)
		}
	}
}

func TestSyncThresholdMonotonicAndBounded(t *testing.T) {
	e := syncengine.New()
	prev := 0.0
	for d := 0.0; d <= 40; d += 0.25 {
		e.SetDelay(d)
		th := e.SyncThreshold()
		if th < 0.3 || th > 1.0 {
			t.Fatalf("delay %v: threshold %v out of bounds", d, th)
		}
		if th < prev {
			t.Fatalf("delay %v: threshold decreased from %v to %v", d, prev, th)
		}
		prev = th

		want := int(th * 1000)
		if want < 200 {
			want = 200
		}
		if want > 1000 {
			want = 1000
		}
		if got := e.SyncIntervalMillis(); got != want {
			t.Fatalf("delay %v: interval %d, want %d", d, got, want)
		}
	}
}

func TestSyncThresholdNonFiniteDelay(t *testing.T) {
	e := syncengine.New()
	e.SetDelay(math.NaN())
	if got := e.SyncThreshold(); got != 0.3 {
		t.Fatalf("expected NaN delay to use floor, got %v", got)
	}
	e.SetDelay(math.Inf(-1))
	if got := e.SyncThreshold(); got != 1.0 {
		t.Fatalf("expected infinite delay to use cap, got %v", got)
	}
}

func TestSeekHelpersClampAtZero(t *testing.T) {
	e := syncengine.New()
	e.SetDelay(5)
	if got := e.SyncSeekBase(2); got != 7 {
		t.Fatalf("SyncSeekBase(2) = %v, want 7", got)
	}
	if got := e.SyncSeekReact(2); got != 0 {
		t.Fatalf("SyncSeekReact(2) = %v, want 0", got)
	}
	e.SetDelay(-5)
	if got := e.SyncSeekBase(2); got != 0 {
		t.Fatalf("SyncSeekBase(2) with negative delay = %v, want 0", got)
	}
	if got := e.SyncSeekBase(math.NaN()); got != 0 {
		t.Fatalf("expected NaN seek target to clamp to 0, got %v", got)
	}
}

func TestSeekHelpersRoundTrip(t *testing.T) {
	delays := []float64{0, 0.033, 1.5, 12.75, 299.99, -0.5, -4}
	targets := []float64{4, 10, 61.2, 3599.9}
	for _, d := range delays {
		e := syncengine.New()
		e.SetDelay(d)
		for _, target := range targets {
			if target+d < 0 {
				continue
			}
			got := e.SyncSeekReact(e.SyncSeekBase(target))
			if math.Abs(got-target) > 1e-9 {
				t.Fatalf("delay %v target %v: round trip gave %v", d, target, got)
			}
		}
	}
}
