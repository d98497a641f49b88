package player

import (
	"sync"
	"time"

	"reactsync/internal/clock"
)

// Simulated is a clock driven Player. Its position advances at rate*skew
// seconds per clock second while playing and freezes while buffering.
type Simulated struct {
	mu        sync.Mutex
	clock     clock.Clock
	duration  float64
	skew      float64
	seekError float64
	rate      float64
	volume    float64
	state     State
	buffering bool
	anchorPos float64
	anchorAt  time.Time
	seeks     []float64
}

// SimOption customizes a Simulated player.
type SimOption func(*Simulated)

// WithDuration bounds the media length. Zero means unbounded.
func WithDuration(seconds float64) SimOption {
	return func(s *Simulated) {
		if seconds > 0 {
			s.duration = seconds
		}
	}
}

// WithSkew sets how fast the media clock runs relative to wall time.
func WithSkew(skew float64) SimOption {
	return func(s *Simulated) {
		if skew > 0 {
			s.skew = skew
		}
	}
}

// WithSeekError makes every seek land offset seconds away from the request.
func WithSeekError(offset float64) SimOption {
	return func(s *Simulated) {
		s.seekError = offset
	}
}

// WithStart positions the player before the first tick.
func WithStart(seconds float64) SimOption {
	return func(s *Simulated) {
		if seconds > 0 {
			s.anchorPos = seconds
		}
	}
}

// NewSimulated returns a paused player at position zero.
func NewSimulated(clk clock.Clock, opts ...SimOption) *Simulated {
	if clk == nil {
		clk = clock.System{}
	}
	s := &Simulated{
		clock:    clk,
		skew:     1,
		rate:     1,
		volume:   1,
		state:    Paused,
		anchorAt: clk.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.anchorPos = s.clampPos(s.anchorPos)
	return s
}

func (s *Simulated) clampPos(pos float64) float64 {
	if pos < 0 {
		return 0
	}
	if s.duration > 0 && pos > s.duration {
		return s.duration
	}
	return pos
}

func (s *Simulated) livePos(now time.Time) float64 {
	if s.state != Playing || s.buffering {
		return s.anchorPos
	}
	elapsed := now.Sub(s.anchorAt).Seconds()
	return s.clampPos(s.anchorPos + elapsed*s.rate*s.skew)
}

// settle folds elapsed playback into the anchor. Callers hold mu.
func (s *Simulated) settle() {
	now := s.clock.Now()
	s.anchorPos = s.livePos(now)
	s.anchorAt = now
	if s.state == Playing && s.duration > 0 && s.anchorPos >= s.duration {
		s.state = Ended
	}
}

// Position returns the current media position in seconds.
func (s *Simulated) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.livePos(s.clock.Now())
}

// Duration returns the media length, or 0 when unbounded.
func (s *Simulated) Duration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.duration
}

// State reports Buffering during a stall and Ended once playback reaches the duration.
func (s *Simulated) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settle()
	if s.buffering && s.state != Ended {
		return Buffering
	}
	return s.state
}

// Play starts playback unless the media has ended.
func (s *Simulated) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settle()
	if s.state == Ended {
		return
	}
	s.state = Playing
}

// Pause stops playback unless the media has ended.
func (s *Simulated) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settle()
	if s.state == Ended {
		return
	}
	s.state = Paused
}

// Seek records the request and jumps to seconds plus the configured seek error.
func (s *Simulated) Seek(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settle()
	s.seeks = append(s.seeks, seconds)
	s.anchorPos = s.clampPos(seconds + s.seekError)
	if s.state == Ended && (s.duration == 0 || s.anchorPos < s.duration) {
		s.state = Paused
	}
}

// SetRate changes the playback rate. Non-positive rates are ignored.
func (s *Simulated) SetRate(rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !(rate > 0) {
		return
	}
	s.settle()
	s.rate = rate
}

// Rate returns the playback rate.
func (s *Simulated) Rate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate
}

// SetVolume sets the volume, clamped to [0, 1].
func (s *Simulated) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case !(v > 0):
		v = 0
	case v > 1:
		v = 1
	}
	s.volume = v
}

// Volume returns the current volume.
func (s *Simulated) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// SetBuffering starts or ends a simulated stall.
func (s *Simulated) SetBuffering(buffering bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settle()
	s.buffering = buffering
}

// SetSkew changes the media clock speed from now on.
func (s *Simulated) SetSkew(skew float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !(skew > 0) {
		return
	}
	s.settle()
	s.skew = skew
}

// Seeks returns every requested seek target in order.
func (s *Simulated) Seeks() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]float64, len(s.seeks))
	copy(out, s.seeks)
	return out
}
