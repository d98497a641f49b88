// Package player abstracts the two media elements a session drives.
//
// Real players (browser video elements, embedded YouTube frames, mpv) live
// outside this module; Simulated stands in for them in tests and offline
// simulations.
package player

// State is the coarse playback state reported by a Player.
type State int

const (
	Paused State = iota
	Playing
	Buffering
	Ended
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Buffering:
		return "buffering"
	case Ended:
		return "ended"
	default:
		return "paused"
	}
}

// Player is the playback surface the sync coordinator controls. Positions and
// durations are in seconds.
type Player interface {
	Position() float64
	Duration() float64
	State() State
	Play()
	Pause()
	Seek(seconds float64)
	SetRate(rate float64)
	Rate() float64
	SetVolume(v float64)
	Volume() float64
}

// IsPlaying reports whether p is actively advancing.
func IsPlaying(p Player) bool {
	return p != nil && p.State() == Playing
}

// Verify Simulated implements Player at compile time.
var _ Player = (*Simulated)(nil)
