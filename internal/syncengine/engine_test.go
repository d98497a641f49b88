package syncengine_test

import (
	"math"
	"testing"
	"time"

	"reactsync/internal/clock"
	"reactsync/internal/syncengine"
)

func newEngine(t *testing.T) (*syncengine.Engine, *clock.Manual) {
	t.Helper()
	c := clock.NewManual(time.Date(2025, time.June, 1, 20, 0, 0, 0, time.UTC))
	return syncengine.New(syncengine.WithClock(c)), c
}

func TestNewEngineDefaults(t *testing.T) {
	e := syncengine.New()
	if e.Synced() {
		t.Fatal("expected engine disabled on construction")
	}
	if e.Delay() != 0 {
		t.Fatalf("expected zero delay, got %v", e.Delay())
	}
	if e.Seeking() || e.UserInteracting() {
		t.Fatal("expected no seek or interaction on construction")
	}
	if _, ok := e.SeekingSource(); ok {
		t.Fatal("expected no seeking source on construction")
	}
	if !e.LastInteraction().IsZero() {
		t.Fatalf("expected zero last interaction, got %v", e.LastInteraction())
	}
}

func TestDisabledEngineNeverCorrects(t *testing.T) {
	e, _ := newEngine(t)
	e.SetDelay(2)
	cases := []struct {
		base, react float64
		force       bool
	}{
		{0, 0, false},
		{10, 100, false},
		{10, 100, true},
		{-5, 3, true},
		{math.NaN(), 1, true},
	}
	for _, tc := range cases {
		if got := e.SyncVideos(tc.base, tc.react, tc.force); got != 0 {
			t.Fatalf("SyncVideos(%v, %v, %v) = %v, want 0", tc.base, tc.react, tc.force, got)
		}
	}
	if d := e.Decide(10, 100, true); d.Apply() || d.Reason != syncengine.ReasonDisabled {
		t.Fatalf("unexpected decision while disabled: %+v", d)
	}
}

func TestSeekGuardBlocksUnforcedCorrection(t *testing.T) {
	e, _ := newEngine(t)
	e.SetSynced(true)
	e.MarkSeeking("base")

	if got := e.SyncVideos(10, 500, false); got != 0 {
		t.Fatalf("expected no correction while seeking, got %v", got)
	}
	d := e.Decide(10, 500, false)
	if d.Reason != syncengine.ReasonSeeking {
		t.Fatalf("expected seeking reason, got %q", d.Reason)
	}
}

func TestForceSnapsEvenWhileSeekingAndInteracting(t *testing.T) {
	e, _ := newEngine(t)
	e.SetSynced(true)
	e.SetDelay(1.5)
	e.MarkSeeking("react")
	e.MarkUserInteraction()

	got := e.SyncVideos(20, 3, true)
	if got != 21.5 {
		t.Fatalf("expected hard snap to 21.5, got %v", got)
	}
	d := e.Decide(20, 3, true)
	if d.Action != syncengine.ActionSnap || d.Reason != syncengine.ReasonForced {
		t.Fatalf("unexpected forced decision: %+v", d)
	}
}

func TestInteractionGraceWindow(t *testing.T) {
	e, c := newEngine(t)
	e.SetSynced(true)
	e.SetDelay(2)
	e.MarkUserInteraction()

	if got := e.SyncVideos(10, 8, false); got != 0 {
		t.Fatalf("expected grace window to suppress correction, got %v", got)
	}

	c.Advance(1599 * time.Millisecond)
	if got := e.SyncVideos(10, 8, false); got != 0 {
		t.Fatalf("expected suppression just before window end, got %v", got)
	}

	c.Advance(time.Millisecond)
	if got := e.SyncVideos(10, 8, false); got != 10 {
		t.Fatalf("expected half-step correction after window, got %v", got)
	}
}

func TestGraceWindowIgnoredWhenNotInteracting(t *testing.T) {
	e, _ := newEngine(t)
	e.SetSynced(true)
	e.SetDelay(2)
	e.MarkUserInteraction()
	e.ClearUserInteraction()

	if got := e.SyncVideos(10, 8, false); got != 10 {
		t.Fatalf("expected correction once interaction cleared, got %v", got)
	}
}

func TestHalfStepCorrection(t *testing.T) {
	e, _ := newEngine(t)
	e.SetSynced(true)
	e.SetDelay(2)

	d := e.Decide(10, 8, false)
	if d.Action != syncengine.ActionNudge {
		t.Fatalf("expected nudge, got %v", d.Action)
	}
	if d.Target != 10 {
		t.Fatalf("expected target 10, got %v", d.Target)
	}
	if d.Drift != 4 {
		t.Fatalf("expected drift 4, got %v", d.Drift)
	}
	if d.Threshold != 0.3 {
		t.Fatalf("expected threshold 0.3, got %v", d.Threshold)
	}
}

func TestWithinToleranceIsNoOp(t *testing.T) {
	e, _ := newEngine(t)
	e.SetSynced(true)
	e.SetDelay(2)

	if got := e.SyncVideos(10, 11.8, false); got != 0 {
		t.Fatalf("expected no correction within tolerance, got %v", got)
	}
	d := e.Decide(10, 11.8, false)
	if d.Reason != syncengine.ReasonWithinThreshold {
		t.Fatalf("expected within_threshold, got %q", d.Reason)
	}
}

func TestReactAheadIsPulledBack(t *testing.T) {
	e, _ := newEngine(t)
	e.SetSynced(true)
	e.SetDelay(-1)

	// target = 9, react = 13 -> halfway is 11
	if got := e.SyncVideos(10, 13, false); got != 11 {
		t.Fatalf("expected 11, got %v", got)
	}
}

func TestSeekingMarkersArePaired(t *testing.T) {
	e, c := newEngine(t)
	e.MarkSeeking("base")
	if !e.Seeking() {
		t.Fatal("expected seeking after MarkSeeking")
	}
	source, ok := e.SeekingSource()
	if !ok || source != "base" {
		t.Fatalf("unexpected seeking source %q (ok=%v)", source, ok)
	}
	stamped := e.LastInteraction()
	if !stamped.Equal(c.Now()) {
		t.Fatalf("expected interaction stamped at %v, got %v", c.Now(), stamped)
	}

	c.Advance(time.Second)
	e.ClearSeeking()
	if e.Seeking() {
		t.Fatal("expected seeking cleared")
	}
	if _, ok := e.SeekingSource(); ok {
		t.Fatal("expected seeking source cleared with seek state")
	}
	if !e.LastInteraction().Equal(stamped) {
		t.Fatal("ClearSeeking must not touch the interaction time")
	}
}

func TestMarkSeekingTwiceRestamps(t *testing.T) {
	e, c := newEngine(t)
	e.MarkSeeking("base")
	c.Advance(500 * time.Millisecond)
	e.MarkSeeking("react")

	source, _ := e.SeekingSource()
	if source != "react" {
		t.Fatalf("expected latest source to win, got %q", source)
	}
	if !e.LastInteraction().Equal(c.Now()) {
		t.Fatal("expected second MarkSeeking to restamp interaction time")
	}
}

func TestSnapshotCopiesState(t *testing.T) {
	e, _ := newEngine(t)
	e.SetSynced(true)
	e.SetDelay(-3.25)
	e.MarkSeeking("sync")
	e.MarkUserInteraction()

	s := e.Snapshot()
	if !s.Synced || s.Delay != -3.25 || !s.Seeking || s.SeekingSource != "sync" || !s.UserInteracting {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
}
