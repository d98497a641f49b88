package session

import (
	"math"
	"time"

	"reactsync/internal/media"
)

// Playback-rate correction closes small drift without seeking. Drift beyond
// the engine threshold is still handled by a seek.
const (
	rateTightThreshold = 0.05
	rateLooseThreshold = 0.25

	rateMin          = 0.97
	rateMax          = 1.03
	rateSmoothing    = 0.3
	rateDecayStep    = 0.002
	rateTrendStep    = 0.005
	rateApplyEpsilon = 0.001
	rateSettleRatio  = 0.3
	rateDecayRatio   = 0.5

	driftHistorySize  = 10
	trendWindow       = 5
	trendMinSamples   = 3
	trendMinVotes     = 4
	trendNoise        = 0.01
	trendThresholdAdd = 0.02
	persistentTicks   = 5

	bufferEventWindow = 30 * time.Second
	bufferEventBurst  = 3
	stableAfter       = 10 * time.Second
	offsetRaise       = 0.05
	offsetRelax       = 0.01
	offsetCap         = 0.20
)

// driftCorrector tracks recent drift and derives a playback-rate multiplier
// for the react stream.
type driftCorrector struct {
	correction  float64
	history     []float64
	consecutive int
	lastDir     int

	bufferEvents []time.Time
	lastStable   time.Time
	offset       float64
}

func newDriftCorrector(now time.Time) driftCorrector {
	return driftCorrector{correction: 1, lastStable: now}
}

// baseRateThreshold is loose when either side streams from YouTube, whose
// reported positions are coarser than a local element's.
func baseRateThreshold(p Pair) float64 {
	if p.Base.Kind == media.KindYouTube || p.React.Kind == media.KindYouTube {
		return rateLooseThreshold
	}
	return rateTightThreshold
}

// record appends a drift sample and updates the run of same-signed samples.
func (d *driftCorrector) record(drift float64) {
	d.history = append(d.history, drift)
	if len(d.history) > driftHistorySize {
		d.history = d.history[len(d.history)-driftHistorySize:]
	}
	dir := -1
	if drift > 0 {
		dir = 1
	}
	if dir == d.lastDir {
		d.consecutive++
	} else {
		d.consecutive = 0
	}
	d.lastDir = dir
}

// trend is +1 or -1 when most recent samples share a sign beyond noise.
func (d *driftCorrector) trend() int {
	if len(d.history) < trendMinSamples {
		return 0
	}
	recent := d.history[max(0, len(d.history)-trendWindow):]
	ahead, behind := 0, 0
	for _, v := range recent {
		switch {
		case v > trendNoise:
			ahead++
		case v < -trendNoise:
			behind++
		}
	}
	switch {
	case ahead >= trendMinVotes:
		return 1
	case behind >= trendMinVotes:
		return -1
	default:
		return 0
	}
}

func (d *driftCorrector) recordBuffer(now time.Time) {
	d.bufferEvents = append(d.bufferEvents, now)
	d.pruneBuffers(now)
}

func (d *driftCorrector) pruneBuffers(now time.Time) {
	keep := d.bufferEvents[:0]
	for _, at := range d.bufferEvents {
		if now.Sub(at) < bufferEventWindow {
			keep = append(keep, at)
		}
	}
	d.bufferEvents = keep
}

// threshold returns the drift tolerated before the rate is steered. Frequent
// stalls widen it; a stable stretch narrows it again.
func (d *driftCorrector) threshold(base float64, loose bool, now time.Time) float64 {
	if loose {
		return rateLooseThreshold
	}
	d.pruneBuffers(now)
	switch {
	case len(d.bufferEvents) >= bufferEventBurst:
		d.offset = math.Min(offsetCap, d.offset+offsetRaise)
		d.lastStable = now
	case now.Sub(d.lastStable) > stableAfter && d.offset > 0:
		d.offset = math.Max(0, d.offset-offsetRelax)
	}
	t := base + d.offset
	if d.trend() != 0 {
		t += trendThresholdAdd
	}
	return math.Min(rateLooseThreshold, math.Max(rateTightThreshold, t))
}

// steer moves the correction toward a rate proportional to how far drift sits
// between threshold and seekThreshold. It reports whether the rate changed
// enough to be applied.
func (d *driftCorrector) steer(drift, threshold, seekThreshold float64) bool {
	abs := math.Abs(drift)
	next := d.correction
	if abs <= threshold*rateDecayRatio {
		switch {
		case next > 1:
			next = math.Max(1, next-rateDecayStep)
		case next < 1:
			next = math.Min(1, next+rateDecayStep)
		}
	} else {
		target := 1.0
		if abs > threshold && seekThreshold > threshold {
			intensity := math.Min(1, math.Max(0, (abs-threshold)/(seekThreshold-threshold)))
			target = 1 + math.Copysign(intensity*(rateMax-1), drift)
		}
		next += (target - next) * rateSmoothing
	}
	if tr := d.trend(); (tr > 0 && drift > 0) || (tr < 0 && drift < 0) {
		next += float64(tr) * rateTrendStep
	}
	next = math.Min(rateMax, math.Max(rateMin, next))
	if math.Abs(next-1) <= rateApplyEpsilon {
		next = 1
	}
	if next == d.correction || (next != 1 && math.Abs(next-d.correction) <= rateApplyEpsilon) {
		return false
	}
	d.correction = next
	return true
}

// settle drops the correction back to 1 and reports whether it changed.
func (d *driftCorrector) settle() bool {
	if d.correction == 1 {
		return false
	}
	d.correction = 1
	return true
}

// reset forgets the drift history after a seek moved the react stream.
func (d *driftCorrector) reset() bool {
	d.history = d.history[:0]
	d.consecutive = 0
	d.lastDir = 0
	return d.settle()
}
