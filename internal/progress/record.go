package progress

import (
	"math"
	"strings"
	"time"

	"reactsync/internal/media"
)

const pairKeyPrefix = "rsync:pair:"

// PairKey returns the storage key for a base/react pair, or "" when either
// signature is missing.
func PairKey(baseID, reactID string) string {
	baseID = strings.TrimSpace(baseID)
	reactID = strings.TrimSpace(reactID)
	if baseID == "" || reactID == "" {
		return ""
	}
	return pairKeyPrefix + baseID + "||" + reactID
}

// Layout is the position and size of the react window.
type Layout struct {
	Left   int `json:"l"`
	Top    int `json:"t"`
	Width  int `json:"w"`
	Height int `json:"h"`
}

// Record is one saved resume point.
type Record struct {
	BaseID      string        `json:"base_id"`
	ReactID     string        `json:"react_id"`
	BaseMeta    *media.Source `json:"base_meta,omitempty"`
	ReactMeta   *media.Source `json:"react_meta,omitempty"`
	Delay       float64       `json:"delay"`
	BaseTime    float64       `json:"base_time"`
	Layout      *Layout       `json:"layout,omitempty"`
	BaseVolume  *float64      `json:"base_volume,omitempty"`
	ReactVolume *float64      `json:"react_volume,omitempty"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Key returns the record's pair key.
func (r Record) Key() string {
	return PairKey(r.BaseID, r.ReactID)
}

// Volume wraps a volume reading, dropping values that are not finite.
func Volume(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
