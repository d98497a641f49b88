package session

import (
	"fmt"
	"math"
	"time"

	"reactsync/internal/delay"
	"reactsync/internal/logging"
	"reactsync/internal/player"
)

// EnableSync derives the delay from the current positions and switches sync on.
func (c *Coordinator) EnableSync() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := delay.FromPositions(c.base.Position(), c.react.Position(), c.cfg.MaxDelaySeconds)
	c.engine.SetDelay(d)
	c.engine.SetSynced(true)
	c.bufferPause = false
	c.wasPlayingBeforeBuffer = false
	c.health = HealthHealthy
	c.settleRate()
	c.logger.Info("sync enabled",
		logging.String(logging.FieldEventType, "sync_enabled"),
		logging.Float64("delay", d),
	)
	return d
}

// DisableSync switches sync off and drops any in-flight seek bookkeeping.
func (c *Coordinator) DisableSync() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.engine.SetSynced(false)
	c.engine.ClearSeeking()
	c.engine.ClearUserInteraction()
	c.interactionHeld = false
	c.pending = nil
	c.resumeAt = time.Time{}
	c.bufferPause = false
	c.wasPlayingBeforeBuffer = false
	c.health = HealthIdle
	c.settleRate()
	c.logger.Info("sync disabled", logging.String(logging.FieldEventType, "sync_disabled"))
}

// ForceResync pauses both players, snaps the react stream onto the base
// position plus delay and resumes playback once the seek has been verified.
func (c *Coordinator) ForceResync() (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	wasPlaying := player.IsPlaying(c.base) || player.IsPlaying(c.react)
	d := c.engine.Decide(c.base.Position(), c.react.Position(), true)
	if !d.Apply() {
		return 0, ErrSyncDisabled
	}
	c.base.Pause()
	c.react.Pause()

	now := c.clock.Now()
	target := math.Max(0, d.Target)
	c.seekReact(target, now)
	if wasPlaying {
		c.resumeAt = now.Add(c.cfg.SeekVerifyDelay() + resumeSlack)
	}
	c.corrections++
	c.logger.Info("forced resync",
		logging.Args(append(logging.DecisionAttrs(d.Action.String(), string(d.Reason), target, d.Drift, d.Threshold),
			logging.String(logging.FieldEventType, "force_resync"),
		)...)...,
	)
	return target, nil
}

// SetDelay stores a new delay, enabling sync if needed. With seek set the
// react stream is moved to match the base stream immediately.
func (c *Coordinator) SetDelay(v float64, seek bool) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setDelay(v, seek)
}

// AdjustDelay steps the delay in direction, growing the step the longer the
// control has been held.
func (c *Coordinator) AdjustDelay(direction int, held time.Duration) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setDelay(c.engine.Delay()+sign(direction)*delay.HoldStep(held), true)
}

// MicroAdjust steps the delay by about one frame.
func (c *Coordinator) MicroAdjust(direction int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setDelay(c.engine.Delay()+sign(direction)*delay.MicroStep, true)
}

func (c *Coordinator) setDelay(v float64, seek bool) float64 {
	if math.IsNaN(v) {
		v = c.engine.Delay()
	}
	d := delay.Normalize(v, c.cfg.MaxDelaySeconds)
	c.engine.SetDelay(d)
	if !c.engine.Synced() {
		c.engine.SetSynced(true)
		c.health = HealthHealthy
	}
	if seek {
		c.seekReact(math.Max(0, c.base.Position()+d), c.clock.Now())
	}
	c.logger.Debug("delay set", logging.Float64("delay", d), logging.Bool("seek", seek))
	return d
}

// Seek moves source to t. When synced the other stream follows at the
// matching offset and playback resumes after the cooldown if it was running.
func (c *Coordinator) Seek(source Source, t float64) error {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidPosition, t)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	target, err := c.playerFor(source)
	if err != nil {
		return err
	}
	c.seek(source, target, math.Max(0, t))
	return nil
}

func (c *Coordinator) seek(source Source, target player.Player, t float64) {
	now := c.clock.Now()
	wasPlaying := player.IsPlaying(c.base) || player.IsPlaying(c.react)
	c.engine.MarkSeeking(string(source))
	c.seekUntil = now.Add(c.cfg.SeekCooldown())

	if !c.engine.Synced() {
		target.Seek(t)
		return
	}

	baseTime, reactTime := t, c.engine.SyncSeekBase(t)
	if source == SourceReact {
		baseTime, reactTime = c.engine.SyncSeekReact(t), t
	}
	c.base.Seek(baseTime)
	c.react.Seek(reactTime)
	c.pending = &pendingSeek{target: reactTime, issued: now}
	if wasPlaying {
		c.resumeAt = now.Add(c.cfg.SeekCooldown() + resumeSlack)
	}
	c.logger.Debug("synced seek",
		logging.String("source", string(source)),
		logging.Float64("base_time", baseTime),
		logging.Float64("react_time", reactTime),
	)
}

// Play starts playback: both players when synced, otherwise only source.
func (c *Coordinator) Play(source Source) error {
	return c.transport(source, player.Player.Play)
}

// Pause stops playback: both players when synced, otherwise only source.
func (c *Coordinator) Pause(source Source) error {
	return c.transport(source, player.Player.Pause)
}

// Toggle pauses when either stream is playing and plays otherwise.
func (c *Coordinator) Toggle() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if player.IsPlaying(c.base) || player.IsPlaying(c.react) {
		return c.transportLocked(SourceBase, player.Player.Pause)
	}
	return c.transportLocked(SourceBase, player.Player.Play)
}

func (c *Coordinator) transport(source Source, op func(player.Player)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transportLocked(source, op)
}

// transportLocked requires c.mu.
func (c *Coordinator) transportLocked(source Source, op func(player.Player)) error {
	target, err := c.playerFor(source)
	if err != nil {
		return err
	}
	now := c.clock.Now()
	c.engine.MarkUserInteraction()
	if !c.interactionHeld {
		c.interactionUntil = now.Add(c.cfg.SeekCooldown())
	}
	// An explicit play or pause overrides a scheduled resume.
	c.resumeAt = time.Time{}
	if c.engine.Synced() {
		op(c.base)
		op(c.react)
		return nil
	}
	op(target)
	return nil
}

// BeginInteraction marks the user as manipulating playback until
// EndInteraction is called.
func (c *Coordinator) BeginInteraction() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine.MarkUserInteraction()
	c.interactionHeld = true
}

// EndInteraction releases the interaction marker after the configured hold.
func (c *Coordinator) EndInteraction() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interactionHeld = false
	c.interactionUntil = c.clock.Now().Add(c.cfg.InteractionHold())
}

// SetVolume sets the volume of source, clamped to [0, 1].
func (c *Coordinator) SetVolume(source Source, v float64) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	target, err := c.playerFor(source)
	if err != nil {
		return 0, err
	}
	v = clamp(v, 0, 1, 0)
	target.SetVolume(v)
	if source == SourceBase {
		c.baseVolume = v
	} else {
		c.reactVolume = v
	}
	return v, nil
}

// SetSpeed applies a playback rate to both players, clamped to the
// configured speed range. The react stream keeps any drift correction on top.
func (c *Coordinator) SetSpeed(v float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	v = clamp(v, c.cfg.MinSpeed, c.cfg.MaxSpeed, 1)
	c.speed = v
	c.applyRate()
	return v
}

func (c *Coordinator) playerFor(source Source) (player.Player, error) {
	switch source {
	case SourceBase:
		return c.base, nil
	case SourceReact:
		return c.react, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
}

func sign(direction int) float64 {
	switch {
	case direction > 0:
		return 1
	case direction < 0:
		return -1
	default:
		return 0
	}
}

// clamp bounds v to [lo, hi]; NaN maps to fallback.
func clamp(v, lo, hi, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	return math.Min(hi, math.Max(lo, v))
}
