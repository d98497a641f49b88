package session

import (
	"context"
	"math"
	"time"

	"reactsync/internal/logging"
	"reactsync/internal/media"
	"reactsync/internal/progress"
)

// Pair identifies the two streams of a session.
type Pair struct {
	Base  media.Source
	React media.Source
}

// Key returns the progress key, or "" when either stream is unidentified.
func (p Pair) Key() string {
	return progress.PairKey(p.Base.Signature(), p.React.Signature())
}

// SaveProgress writes the current resume point. It is a no-op without a
// progress saver or an identifiable pair.
func (c *Coordinator) SaveProgress(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, c.clock.Now())
}

// Resume restores a saved delay, volumes and base position. Sync is enabled.
func (c *Coordinator) Resume(rec progress.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := c.setDelay(rec.Delay, false)
	if rec.BaseVolume != nil {
		c.baseVolume = clamp(*rec.BaseVolume, 0, 1, c.baseVolume)
		c.base.SetVolume(c.baseVolume)
	}
	if rec.ReactVolume != nil {
		c.reactVolume = clamp(*rec.ReactVolume, 0, 1, c.reactVolume)
		c.react.SetVolume(c.reactVolume)
	}
	if rec.Layout != nil {
		layout := *rec.Layout
		c.layout = &layout
	}
	c.seek(SourceBase, c.base, clamp(rec.BaseTime, 0, math.Inf(1), 0))
	c.logger.Info("progress restored",
		logging.String(logging.FieldEventType, "progress_resume"),
		logging.Float64("delay", d),
		logging.Float64("base_time", rec.BaseTime),
	)
}

// SetLayout records the react window geometry for the next save.
func (c *Coordinator) SetLayout(layout progress.Layout) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layout = &layout
}

func (c *Coordinator) record() progress.Record {
	baseMeta, reactMeta := c.pair.Base, c.pair.React
	rec := progress.Record{
		BaseID:      baseMeta.Signature(),
		ReactID:     reactMeta.Signature(),
		BaseMeta:    &baseMeta,
		ReactMeta:   &reactMeta,
		Delay:       c.engine.Delay(),
		BaseTime:    c.base.Position(),
		BaseVolume:  progress.Volume(c.baseVolume),
		ReactVolume: progress.Volume(c.reactVolume),
	}
	if c.layout != nil {
		layout := *c.layout
		rec.Layout = &layout
	}
	return rec
}

func (c *Coordinator) save(ctx context.Context, now time.Time) error {
	if c.saver == nil || c.pair.Key() == "" {
		return nil
	}
	if _, err := c.saver.Save(ctx, c.record()); err != nil {
		return err
	}
	c.lastSave = now
	return nil
}

func (c *Coordinator) autosave(ctx context.Context, now time.Time) bool {
	if c.saver == nil || c.pair.Key() == "" {
		return false
	}
	interval := c.cfg.AutosaveInterval()
	if interval <= 0 || now.Sub(c.lastSave) < interval {
		return false
	}
	if err := c.save(ctx, now); err != nil {
		logging.WarnWithContext(c.logger, "progress autosave failed", "progress_save_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check state_dir permissions"),
			logging.String(logging.FieldImpact, "resume point not updated"),
		)
		c.lastSave = now
		return false
	}
	return true
}
