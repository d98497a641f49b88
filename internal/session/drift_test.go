package session

import (
	"math"
	"testing"
	"time"
)

func TestDriftThresholdWidensOnFrequentStalls(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d := newDriftCorrector(start)

	if got := d.threshold(rateTightThreshold, false, start); got != rateTightThreshold {
		t.Fatalf("expected tight threshold, got %v", got)
	}
	if got := d.threshold(rateTightThreshold, true, start); got != rateLooseThreshold {
		t.Fatalf("expected loose threshold while buffering, got %v", got)
	}

	for i := 0; i < bufferEventBurst; i++ {
		d.recordBuffer(start.Add(time.Duration(i) * time.Second))
	}
	now := start.Add(3 * time.Second)
	if got := d.threshold(rateTightThreshold, false, now); math.Abs(got-0.10) > 1e-9 {
		t.Fatalf("expected threshold 0.10 after a stall burst, got %v", got)
	}

	// Once the burst ages out and playback stays stable the offset relaxes.
	now = now.Add(bufferEventWindow + stableAfter)
	got := d.threshold(rateTightThreshold, false, now)
	if math.Abs(got-0.09) > 1e-9 {
		t.Fatalf("expected threshold 0.09 after a stable stretch, got %v", got)
	}
}

func TestDriftTrendNeedsAgreement(t *testing.T) {
	d := newDriftCorrector(time.Time{})
	for _, v := range []float64{0.1, 0.1} {
		d.record(v)
	}
	if d.trend() != 0 {
		t.Fatal("two samples are not a trend")
	}
	for _, v := range []float64{0.1, -0.1, 0.1} {
		d.record(v)
	}
	if d.trend() != 1 {
		t.Fatalf("expected a positive trend, got %d", d.trend())
	}
	for _, v := range []float64{0.005, -0.2, -0.2} {
		d.record(v)
	}
	if d.trend() != 0 {
		t.Fatalf("mixed samples should not trend, got %d", d.trend())
	}
	if d.consecutive != 1 || d.lastDir != -1 {
		t.Fatalf("unexpected run %d in direction %d", d.consecutive, d.lastDir)
	}
}
