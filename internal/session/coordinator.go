package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"reactsync/internal/clock"
	"reactsync/internal/config"
	"reactsync/internal/logging"
	"reactsync/internal/player"
	"reactsync/internal/progress"
	"reactsync/internal/syncengine"
)

var (
	// ErrNoPlayers is returned when a coordinator is built without both players.
	ErrNoPlayers = errors.New("session needs both a base and a react player")
	// ErrUnknownSource is returned for a command naming neither stream.
	ErrUnknownSource = errors.New("unknown stream")
	// ErrSyncDisabled is returned by operations that need sync switched on.
	ErrSyncDisabled = errors.New("sync is disabled")
	// ErrInvalidPosition is returned for seek targets that are not finite.
	ErrInvalidPosition = errors.New("invalid position")
)

// Source names which stream a command targets.
type Source string

const (
	SourceBase  Source = "base"
	SourceReact Source = "react"
	// SourceSync marks seeks issued by the coordinator itself.
	SourceSync Source = "sync"
)

// Health summarizes how well the pair is aligned.
type Health string

const (
	HealthIdle       Health = "idle"
	HealthHealthy    Health = "healthy"
	HealthCorrecting Health = "correcting"
	HealthDrifting   Health = "drifting"
)

// verifyWindow bounds how late a landing check may still re-seek.
const verifyWindow = time.Second

// ProgressSaver persists resume records. *progress.Store satisfies it.
type ProgressSaver interface {
	Save(ctx context.Context, rec progress.Record) (progress.Record, error)
}

type pendingSeek struct {
	target float64
	issued time.Time
}

// Coordinator owns one engine and the two players it keeps aligned.
type Coordinator struct {
	mu sync.Mutex

	cfg    config.Session
	engine *syncengine.Engine
	base   player.Player
	react  player.Player
	clock  clock.Clock
	logger *slog.Logger
	saver  ProgressSaver
	pair   Pair
	id     string

	seekUntil        time.Time
	interactionHeld  bool
	interactionUntil time.Time
	pending          *pendingSeek
	resumeAt         time.Time

	bufferPause            bool
	wasPlayingBeforeBuffer bool
	wasStalled             bool

	drift         driftCorrector
	rateThreshold float64

	lastSave    time.Time
	health      Health
	speed       float64
	baseVolume  float64
	reactVolume float64
	layout      *progress.Layout
	corrections int
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithClock replaces the wall clock. The engine shares it.
func WithClock(c clock.Clock) Option {
	return func(co *Coordinator) {
		if c != nil {
			co.clock = c
		}
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(co *Coordinator) {
		if logger != nil {
			co.logger = logger
		}
	}
}

// WithProgress enables autosave through saver.
func WithProgress(saver ProgressSaver) Option {
	return func(co *Coordinator) {
		co.saver = saver
	}
}

// WithPair identifies the streams for progress records.
func WithPair(p Pair) Option {
	return func(co *Coordinator) {
		co.pair = p
	}
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(co *Coordinator) {
		if id != "" {
			co.id = id
		}
	}
}

// New builds a coordinator with sync disabled.
func New(cfg config.Session, base, react player.Player, opts ...Option) (*Coordinator, error) {
	if base == nil || react == nil {
		return nil, ErrNoPlayers
	}
	co := &Coordinator{
		cfg:         cfg,
		base:        base,
		react:       react,
		clock:       clock.System{},
		logger:      logging.NewNop(),
		id:          uuid.NewString(),
		health:      HealthIdle,
		speed:       1,
		baseVolume:  base.Volume(),
		reactVolume: react.Volume(),
	}
	for _, opt := range opts {
		opt(co)
	}
	co.engine = syncengine.New(syncengine.WithClock(co.clock))
	co.logger = logging.NewComponentLogger(logging.WithSessionID(co.logger, co.id), "session")
	if key := co.pair.Key(); key != "" {
		co.logger = co.logger.With(logging.String(logging.FieldPairKey, key))
	}
	co.lastSave = co.clock.Now()
	co.drift = newDriftCorrector(co.lastSave)
	co.rateThreshold = baseRateThreshold(co.pair)
	return co, nil
}

// ID returns the session id attached to every log line.
func (c *Coordinator) ID() string {
	return c.id
}

// Snapshot is a point-in-time view of a session.
type Snapshot struct {
	SessionID   string           `json:"session_id"`
	PairKey     string           `json:"pair_key,omitempty"`
	Engine      syncengine.State `json:"engine"`
	Threshold   float64          `json:"threshold"`
	Interval    time.Duration    `json:"interval"`
	Health      Health           `json:"health"`
	BaseTime    float64          `json:"base_time"`
	ReactTime   float64          `json:"react_time"`
	BaseState   string           `json:"base_state"`
	ReactState  string           `json:"react_state"`
	Speed       float64          `json:"speed"`
	BaseVolume  float64          `json:"base_volume"`
	ReactVolume float64          `json:"react_volume"`
	BufferPause bool             `json:"buffer_pause"`
	Corrections int              `json:"corrections"`
	// DriftCorrection multiplies Speed for the react stream.
	DriftCorrection float64 `json:"drift_correction"`
	RateThreshold   float64 `json:"rate_threshold"`
}

// Snapshot copies the current session state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		SessionID:   c.id,
		PairKey:     c.pair.Key(),
		Engine:      c.engine.Snapshot(),
		Threshold:   c.engine.SyncThreshold(),
		Interval:    c.engine.SyncInterval(),
		Health:      c.health,
		BaseTime:    c.base.Position(),
		ReactTime:   c.react.Position(),
		BaseState:   c.base.State().String(),
		ReactState:  c.react.State().String(),
		Speed:       c.speed,
		BaseVolume:  c.baseVolume,
		ReactVolume: c.reactVolume,
		BufferPause: c.bufferPause,
		Corrections: c.corrections,

		DriftCorrection: c.drift.correction,
		RateThreshold:   c.rateThreshold,
	}
}
