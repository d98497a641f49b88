package syncengine

import "math"

// Action is what a Decision asks the caller to do with the reactive stream.
type Action int

const (
	// ActionNone leaves the reactive stream alone.
	ActionNone Action = iota
	// ActionNudge moves the reactive stream half way toward its target.
	ActionNudge
	// ActionSnap moves the reactive stream exactly onto its target.
	ActionSnap
)

func (a Action) String() string {
	switch a {
	case ActionNudge:
		return "nudge"
	case ActionSnap:
		return "snap"
	default:
		return "none"
	}
}

// Reason names the rule that produced a Decision.
type Reason string

const (
	ReasonDisabled         Reason = "disabled"
	ReasonSeeking          Reason = "seeking"
	ReasonInteractionGrace Reason = "interaction_grace"
	ReasonWithinThreshold  Reason = "within_threshold"
	ReasonDrift            Reason = "drift"
	ReasonForced           Reason = "forced"
)

// Decision is the outcome of one sync poll.
type Decision struct {
	Action Action
	// Target is the position the reactive stream should be moved to. Only
	// meaningful when Action is not ActionNone.
	Target float64
	Reason Reason
	// Drift is the signed distance from the reactive position to where it
	// should be (base + delay - react). Zero when the guards short-circuit.
	Drift     float64
	Threshold float64
}

// Apply reports whether the caller should move the reactive stream.
func (d Decision) Apply() bool { return d.Action != ActionNone }

// Decide evaluates the guards and drift rules for the given positions.
// force bypasses the seek and interaction guards and snaps to the target,
// but never overrides a disabled engine.
func (e *Engine) Decide(baseTime, reactTime float64, force bool) Decision {
	if !e.synced {
		return Decision{Reason: ReasonDisabled}
	}
	if e.seeking && !force {
		return Decision{Reason: ReasonSeeking}
	}
	if !force && e.inGraceWindow() {
		return Decision{Reason: ReasonInteractionGrace}
	}

	target := baseTime + e.delay
	threshold := e.SyncThreshold()
	d := Decision{
		Target:    target,
		Drift:     target - reactTime,
		Threshold: threshold,
	}

	if force {
		d.Action = ActionSnap
		d.Reason = ReasonForced
		return d
	}
	if math.Abs(reactTime-target) > threshold && !e.seeking {
		d.Action = ActionNudge
		d.Reason = ReasonDrift
		d.Target = reactTime + (target-reactTime)*0.5
		return d
	}

	d.Reason = ReasonWithinThreshold
	return d
}

// SyncVideos returns the corrected reactive position, or 0 when no correction
// should be applied. A genuine target of exactly 0 is indistinguishable from
// "no correction"; use Decide when that matters.
func (e *Engine) SyncVideos(baseTime, reactTime float64, force bool) float64 {
	d := e.Decide(baseTime, reactTime, force)
	if !d.Apply() {
		return 0
	}
	return d.Target
}
