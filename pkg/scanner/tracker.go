package scanner

import (
	"sync/atomic"

	"github.com/intothevoid/docscan/pkg/vision"
)

// Tracker implements C4 — exponential smoothing of accepted quads across
// frames, the stable-frame counter, and the cooldown-gated auto-capture
// decision from spec.md §4.4. It generalizes the teacher's
// vision.BoardSmoother (a per-corner lerp with a hard "reject big jumps"
// escape hatch) into the full state machine: here a large jump still gets
// smoothed, it just resets the stability counter instead of being ignored.
//
// Tracker is single-threaded per spec.md §5 — every field except
// manualTrigger is touched only from the frame-processing thread. The
// manual-trigger flag is the one piece of state written from another
// goroutine (TriggerManualCapture), so it is a separate atomic.
type Tracker struct {
	lastSmoothed      *vision.Quad
	stableFrameCount  uint32
	lastCaptureTimeMs uint64
	missedFrames      int

	manualTrigger atomic.Bool
}

// NewTracker returns a Tracker in its initial SEEKING state.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Reset clears all tracker state, as if the session had just started.
func (t *Tracker) Reset() {
	t.lastSmoothed = nil
	t.stableFrameCount = 0
	t.lastCaptureTimeMs = 0
	t.missedFrames = 0
	t.manualTrigger.Store(false)
}

// TriggerManualCapture arms the write-once-read-once manual capture flag.
// Safe to call from any goroutine; honored on the next Update regardless
// of stability or cooldown, per spec.md invariant 5.
func (t *Tracker) TriggerManualCapture() {
	t.manualTrigger.Store(true)
}

// Result bundles what C4 computed for a single frame.
type Result struct {
	// Smoothed is the current smoothed quad, or nil if no quad has been
	// seen recently enough to retain (two consecutive dropout frames).
	Smoothed *vision.Quad
	// Stable reports whether this frame's observation was within
	// min_polygon_distance of the prior smoothed estimate. Only
	// meaningful when a quad was observed this frame; false otherwise.
	Stable           bool
	StableFrameCount uint32
	Captured         bool
}

// Update runs the smoothing, stability, and auto-capture logic for one
// frame. observed is nil if C2/C3 produced no valid quad this frame.
// nowMs is the caller-supplied monotonic wall-clock time in milliseconds,
// threaded through explicitly so cooldown behavior is deterministically
// testable (spec.md §8 invariants 3 and 4).
func (t *Tracker) Update(observed *vision.Quad, nowMs uint64, cfg Config) Result {
	manualPending := t.manualTrigger.Load()

	stable := false
	if observed == nil {
		t.stableFrameCount = 0
		t.missedFrames++
		if t.missedFrames >= 2 {
			t.lastSmoothed = nil
		}
	} else {
		t.missedFrames = 0
		if t.lastSmoothed != nil {
			prev := *t.lastSmoothed
			stable = quadWithin(*observed, prev, float64(cfg.MinPolygonDistance))
			if stable {
				t.stableFrameCount++
			} else {
				t.stableFrameCount = 0
			}
			smoothed := emaQuad(*observed, prev, cfg.SmoothingAlpha)
			t.lastSmoothed = &smoothed
		} else {
			smoothed := *observed
			t.lastSmoothed = &smoothed
			t.stableFrameCount = 0
		}
	}

	captured := false
	if manualPending {
		captured = true
	} else if cfg.AutoCapture &&
		t.stableFrameCount >= cfg.RequiredStableFrames &&
		(t.lastCaptureTimeMs == 0 || nowMs-t.lastCaptureTimeMs >= cfg.PostCaptureCooldownMs) {
		captured = true
	}

	if captured {
		t.lastCaptureTimeMs = nowMs
		t.stableFrameCount = 0
		t.manualTrigger.Store(false)
	}

	return Result{
		Smoothed:         t.lastSmoothed,
		Stable:           stable,
		StableFrameCount: t.stableFrameCount,
		Captured:         captured,
	}
}

// emaQuad computes smoothed[i] = alpha*newQ[i] + (1-alpha)*prev[i] per
// corner, per spec.md §4.4.
func emaQuad(newQ, prev vision.Quad, alpha float32) vision.Quad {
	a := float64(alpha)
	var out vision.Quad
	for i := range newQ {
		out[i] = vision.Point{
			X: a*newQ[i].X + (1-a)*prev[i].X,
			Y: a*newQ[i].Y + (1-a)*prev[i].Y,
		}
	}
	return out
}

// quadWithin reports whether every corner of a is within maxDist of the
// corresponding corner of b.
func quadWithin(a, b vision.Quad, maxDist float64) bool {
	for i := range a {
		if vision.DistanceBetweenPoints(a[i], b[i]) > maxDist {
			return false
		}
	}
	return true
}
