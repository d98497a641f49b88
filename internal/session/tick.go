package session

import (
	"context"
	"math"
	"time"

	"reactsync/internal/logging"
	"reactsync/internal/player"
	"reactsync/internal/syncengine"
)

// resumeSlack is added on top of a seek cooldown before playback is resumed.
const resumeSlack = 100 * time.Millisecond

// Report describes what one Tick observed and did.
type Report struct {
	At          time.Time           `json:"at"`
	BaseTime    float64             `json:"base_time"`
	ReactTime   float64             `json:"react_time"`
	Delay       float64             `json:"delay"`
	Drift       float64             `json:"drift"`
	Decision    syncengine.Decision `json:"-"`
	Applied     bool                `json:"applied"`
	Health      Health              `json:"health"`
	BufferPause bool                `json:"buffer_pause"`
	Reseeked    bool                `json:"reseeked"`
	Started     Source              `json:"started,omitempty"`
	Saved       bool                `json:"saved"`
	// Rate is the react playback-rate correction in effect after the tick.
	Rate          float64 `json:"rate"`
	RateThreshold float64 `json:"rate_threshold"`
}

// Tick runs one poll of the sync loop.
func (c *Coordinator) Tick(ctx context.Context) Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.expireHolds(now)

	rep := Report{At: now, Delay: c.engine.Delay()}
	rep.Reseeked = c.verifySeek(now)
	c.resumeIfDue(now)

	c.observe(&rep, now)
	rep.Health = c.health
	rep.BufferPause = c.bufferPause
	rep.Rate = c.drift.correction
	rep.RateThreshold = c.rateThreshold
	rep.Saved = c.autosave(ctx, now)
	return rep
}

func (c *Coordinator) observe(rep *Report, now time.Time) {
	rep.BaseTime = c.base.Position()
	rep.ReactTime = c.react.Position()

	if !c.engine.Synced() {
		c.health = HealthIdle
		return
	}

	if c.handleBuffering(now) {
		c.health = HealthCorrecting
		return
	}

	basePlaying := player.IsPlaying(c.base)
	reactPlaying := player.IsPlaying(c.react)
	if !basePlaying && !reactPlaying {
		c.health = HealthIdle
		c.settleRate()
		return
	}

	threshold := c.engine.SyncThreshold()
	rep.Drift = rep.BaseTime + c.engine.Delay() - rep.ReactTime
	c.health = classify(math.Abs(rep.Drift), threshold)

	// Leave both streams alone while the user is manipulating playback.
	if c.interactionHeld || now.Before(c.interactionUntil) {
		rep.Decision = syncengine.Decision{Reason: syncengine.ReasonInteractionGrace}
		return
	}

	// Start a paused side only once the pair is visibly apart.
	if math.Abs(rep.Drift) > threshold*0.5 {
		if basePlaying && !reactPlaying && canStart(c.react) {
			c.react.Play()
			rep.Started = SourceReact
			return
		}
		if reactPlaying && !basePlaying && canStart(c.base) {
			c.base.Play()
			rep.Started = SourceBase
			return
		}
	}
	if !basePlaying || !reactPlaying {
		c.settleRate()
		return
	}

	d := c.engine.Decide(rep.BaseTime, rep.ReactTime, false)
	rep.Decision = d
	if !d.Apply() {
		if d.Reason == syncengine.ReasonWithinThreshold {
			c.steerRate(rep.Drift, now)
		}
		return
	}
	target := math.Max(0, d.Target)
	c.seekReact(target, now)
	c.corrections++
	rep.Applied = true
	c.logger.Debug("sync correction applied",
		logging.Args(append(logging.DecisionAttrs(d.Action.String(), string(d.Reason), target, d.Drift, d.Threshold),
			logging.Float64("base_time", rep.BaseTime),
			logging.Float64("react_time", rep.ReactTime),
		)...)...,
	)
}

// handleBuffering pauses the ready side while the other stalls and resumes
// both once neither is buffering. It reports whether a stall is in progress.
func (c *Coordinator) handleBuffering(now time.Time) bool {
	baseState := c.base.State()
	reactState := c.react.State()
	anyBuffering := baseState == player.Buffering || reactState == player.Buffering
	if anyBuffering && !c.wasStalled {
		c.drift.recordBuffer(now)
	}
	c.wasStalled = anyBuffering

	if c.engine.UserInteracting() {
		return anyBuffering
	}

	switch {
	case anyBuffering && !c.bufferPause:
		c.wasPlayingBeforeBuffer = baseState == player.Playing || reactState == player.Playing
		if c.wasPlayingBeforeBuffer {
			c.bufferPause = true
			if baseState == player.Playing {
				c.base.Pause()
			}
			if reactState == player.Playing {
				c.react.Pause()
			}
			c.logger.Info("buffering pause",
				logging.String(logging.FieldEventType, "buffer_pause"),
				logging.String("base_state", baseState.String()),
				logging.String("react_state", reactState.String()),
			)
		}
	case !anyBuffering && c.bufferPause:
		c.bufferPause = false
		if c.wasPlayingBeforeBuffer {
			c.base.Play()
			c.react.Play()
		}
		c.wasPlayingBeforeBuffer = false
		c.logger.Info("buffering resume", logging.String(logging.FieldEventType, "buffer_resume"))
	}
	return anyBuffering
}

func (c *Coordinator) expireHolds(now time.Time) {
	if c.engine.Seeking() && !now.Before(c.seekUntil) {
		c.engine.ClearSeeking()
	}
	if c.engine.UserInteracting() && !c.interactionHeld && !now.Before(c.interactionUntil) {
		c.engine.ClearUserInteraction()
	}
}

// verifySeek checks that the last react seek landed and re-issues it once
// when it did not. A playing stream is expected to have moved on from the
// target by the time the check runs.
func (c *Coordinator) verifySeek(now time.Time) bool {
	p := c.pending
	if p == nil {
		return false
	}
	since := now.Sub(p.issued)
	if since < c.cfg.SeekVerifyDelay() {
		return false
	}
	c.pending = nil
	if since >= verifyWindow {
		return false
	}
	expected := p.target
	if player.IsPlaying(c.react) {
		expected += since.Seconds() * c.react.Rate()
	}
	actual := c.react.Position()
	if math.Abs(actual-expected) <= c.cfg.SeekVerifyTolerance {
		return false
	}
	c.react.Seek(expected)
	c.logger.Debug("seek missed target, retrying",
		logging.Float64("target", expected),
		logging.Float64("actual", actual),
	)
	return true
}

func (c *Coordinator) resumeIfDue(now time.Time) {
	if c.resumeAt.IsZero() || now.Before(c.resumeAt) {
		return
	}
	c.resumeAt = time.Time{}
	if !c.engine.Synced() || c.engine.UserInteracting() {
		return
	}
	c.base.Play()
	c.react.Play()
}

// steerRate adjusts the react playback rate for drift inside the seek
// threshold.
func (c *Coordinator) steerRate(drift float64, now time.Time) {
	c.drift.record(drift)
	loose := c.bufferPause || c.engine.UserInteracting()
	c.rateThreshold = c.drift.threshold(baseRateThreshold(c.pair), loose, now)

	abs := math.Abs(drift)
	var changed bool
	switch {
	case abs > c.rateThreshold || c.drift.consecutive > persistentTicks:
		changed = c.drift.steer(drift, c.rateThreshold, c.engine.SyncThreshold())
	case abs <= c.rateThreshold*rateSettleRatio:
		changed = c.drift.settle()
	}
	if changed {
		c.applyRate()
		c.logger.Debug("react rate adjusted",
			logging.Float64("rate", c.drift.correction),
			logging.Float64("drift", drift),
			logging.Float64("rate_threshold", c.rateThreshold),
		)
	}
}

// settleRate returns the react stream to the user speed.
func (c *Coordinator) settleRate() {
	if c.drift.settle() {
		c.applyRate()
	}
}

// applyRate sets the user speed on base and the corrected speed on react.
func (c *Coordinator) applyRate() {
	c.base.SetRate(c.speed)
	c.react.SetRate(c.speed * c.drift.correction)
}

// seekReact moves the react stream and arms the cooldown and landing check.
func (c *Coordinator) seekReact(target float64, now time.Time) {
	if c.drift.reset() {
		c.applyRate()
	}
	c.react.Seek(target)
	c.engine.MarkSeeking(string(SourceSync))
	c.seekUntil = now.Add(c.cfg.SeekCooldown())
	c.pending = &pendingSeek{target: target, issued: now}
}

func classify(absDrift, threshold float64) Health {
	switch {
	case absDrift <= threshold:
		return HealthHealthy
	case absDrift <= 2*threshold:
		return HealthCorrecting
	default:
		return HealthDrifting
	}
}

func canStart(p player.Player) bool {
	s := p.State()
	return s != player.Buffering && s != player.Ended
}
