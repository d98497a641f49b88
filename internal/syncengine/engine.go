package syncengine

import (
	"time"

	"reactsync/internal/clock"
)

// InteractionGrace is how long after the last seek or interaction start the
// engine refuses unforced corrections while the user is still interacting.
const InteractionGrace = 1600 * time.Millisecond

// State is a point-in-time copy of the engine's fields.
type State struct {
	Synced          bool
	Delay           float64
	Seeking         bool
	SeekingSource   string
	UserInteracting bool
	LastInteraction time.Time
}

// Engine tracks sync state for one base/reactive pair.
type Engine struct {
	clock clock.Clock

	synced          bool
	delay           float64
	seeking         bool
	seekingSource   *string
	userInteracting bool
	lastInteraction time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock used to stamp and age interactions.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// New returns a disabled engine with zero delay and no seek or interaction in progress.
func New(opts ...Option) *Engine {
	e := &Engine{clock: clock.System{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetDelay stores the offset applied to base positions. No validation is done.
func (e *Engine) SetDelay(delay float64) { e.delay = delay }

// Delay returns the configured offset.
func (e *Engine) Delay() float64 { return e.delay }

// SetSynced switches the decision logic on or off.
func (e *Engine) SetSynced(synced bool) { e.synced = synced }

// Synced reports whether the decision logic is active.
func (e *Engine) Synced() bool { return e.synced }

// MarkSeeking records that source started a seek and stamps the interaction time.
func (e *Engine) MarkSeeking(source string) {
	e.seeking = true
	e.seekingSource = &source
	e.lastInteraction = e.clock.Now()
}

// ClearSeeking ends the seek state. The interaction time is left untouched.
func (e *Engine) ClearSeeking() {
	e.seeking = false
	e.seekingSource = nil
}

// Seeking reports whether a seek is in flight.
func (e *Engine) Seeking() bool { return e.seeking }

// SeekingSource returns the stream that started the current seek.
func (e *Engine) SeekingSource() (string, bool) {
	if e.seekingSource == nil {
		return "", false
	}
	return *e.seekingSource, true
}

// MarkUserInteraction records that the user is manipulating playback.
func (e *Engine) MarkUserInteraction() {
	e.userInteracting = true
	e.lastInteraction = e.clock.Now()
}

// ClearUserInteraction ends the interaction state.
func (e *Engine) ClearUserInteraction() { e.userInteracting = false }

// UserInteracting reports whether the user is manipulating playback.
func (e *Engine) UserInteracting() bool { return e.userInteracting }

// LastInteraction returns the time of the most recent seek or interaction start.
func (e *Engine) LastInteraction() time.Time { return e.lastInteraction }

// Snapshot copies the current state.
func (e *Engine) Snapshot() State {
	source, _ := e.SeekingSource()
	return State{
		Synced:          e.synced,
		Delay:           e.delay,
		Seeking:         e.seeking,
		SeekingSource:   source,
		UserInteracting: e.userInteracting,
		LastInteraction: e.lastInteraction,
	}
}

func (e *Engine) inGraceWindow() bool {
	return e.userInteracting && e.clock.Now().Sub(e.lastInteraction) < InteractionGrace
}
