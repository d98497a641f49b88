package testsupport

import (
	"time"

	"reactsync/internal/clock"
)

// Epoch is the fixed start time handed out by NewClock.
var Epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// NewClock returns a manual clock starting at Epoch.
func NewClock() *clock.Manual {
	return clock.NewManual(Epoch)
}
