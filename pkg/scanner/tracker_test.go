package scanner

import (
	"testing"

	"github.com/intothevoid/docscan/pkg/vision"
	"github.com/stretchr/testify/assert"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RequiredStableFrames = 3
	cfg.MinPolygonDistance = 50
	cfg.PostCaptureCooldownMs = 1000
	cfg.SmoothingAlpha = 0.5
	cfg.AutoCapture = true
	return cfg
}

func square(x, y, side float64) vision.Quad {
	return vision.Quad{
		{X: x, Y: y},
		{X: x + side, Y: y},
		{X: x + side, Y: y + side},
		{X: x, Y: y + side},
	}
}

func TestTrackerFirstObservationIsAdoptedUnsmoothed(t *testing.T) {
	tr := NewTracker()
	q := square(100, 100, 200)

	result := tr.Update(&q, 0, testConfig())

	assert.NotNil(t, result.Smoothed)
	assert.Equal(t, q, *result.Smoothed)
	assert.False(t, result.Stable, "first observation has nothing to compare against")
}

func TestTrackerEMAConvergesTowardRepeatedObservation(t *testing.T) {
	tr := NewTracker()
	cfg := testConfig()

	far := square(0, 0, 200)
	near := square(300, 300, 200)

	tr.Update(&far, 0, cfg)
	r1 := tr.Update(&near, 10, cfg)
	r2 := tr.Update(&near, 20, cfg)

	d1 := vision.DistanceBetweenPoints(r1.Smoothed[vision.TL], near[vision.TL])
	d2 := vision.DistanceBetweenPoints(r2.Smoothed[vision.TL], near[vision.TL])

	assert.Greater(t, d1, 0.0, "first update should not already equal the new observation")
	assert.Less(t, d2, d1, "each further update with the same observation should move closer to it")
}

func TestTrackerStabilityResetsOnLargeJump(t *testing.T) {
	tr := NewTracker()
	cfg := testConfig()

	q := square(100, 100, 200)
	tr.Update(&q, 0, cfg)

	r1 := tr.Update(&q, 10, cfg)
	r2 := tr.Update(&q, 20, cfg)
	assert.True(t, r1.Stable)
	assert.Equal(t, uint32(2), r2.StableFrameCount)

	jumped := square(1000, 1000, 200)
	r3 := tr.Update(&jumped, 30, cfg)

	assert.False(t, r3.Stable)
	assert.Equal(t, uint32(0), r3.StableFrameCount)
}

func TestTrackerCapturesOnceStabilityThresholdReached(t *testing.T) {
	tr := NewTracker()
	cfg := testConfig()

	q := square(100, 100, 200)
	tr.Update(&q, 0, cfg)

	r1 := tr.Update(&q, 10, cfg)
	r2 := tr.Update(&q, 20, cfg)
	r3 := tr.Update(&q, 30, cfg)

	assert.False(t, r1.Captured)
	assert.False(t, r2.Captured)
	assert.True(t, r3.Captured, "capture should fire once RequiredStableFrames is reached")
	assert.Equal(t, uint32(0), r3.StableFrameCount, "capture resets the stability counter")
}

func TestTrackerEnforcesCooldownBetweenCaptures(t *testing.T) {
	tr := NewTracker()
	cfg := testConfig()

	q := square(100, 100, 200)
	tr.Update(&q, 0, cfg)
	tr.Update(&q, 10, cfg)
	tr.Update(&q, 20, cfg)
	first := tr.Update(&q, 30, cfg)
	assert.True(t, first.Captured)

	// Restabilize immediately after capture; cooldown has not elapsed yet.
	tr.Update(&q, 40, cfg)
	tr.Update(&q, 50, cfg)
	tooSoon := tr.Update(&q, 60, cfg)
	assert.False(t, tooSoon.Captured, "capture must not refire before PostCaptureCooldownMs elapses")

	// Advance past the cooldown window with stability maintained.
	pastCooldown := tr.Update(&q, 30+cfg.PostCaptureCooldownMs+1, cfg)
	assert.True(t, pastCooldown.Captured, "capture should refire once cooldown has elapsed and stability is regained")
}

func TestTrackerManualTriggerBypassesStabilityAndCooldown(t *testing.T) {
	tr := NewTracker()
	cfg := testConfig()

	q := square(100, 100, 200)

	// First observation only, not yet stable.
	r0 := tr.Update(&q, 0, cfg)
	assert.False(t, r0.Captured)

	tr.TriggerManualCapture()
	r1 := tr.Update(&q, 10, cfg)
	assert.True(t, r1.Captured, "manual trigger fires regardless of stability or cooldown")

	// The flag is write-once-read-once: it must not still be armed.
	r2 := tr.Update(&q, 20, cfg)
	assert.False(t, r2.Captured)
}

func TestTrackerDropsSmoothedAfterTwoConsecutiveMisses(t *testing.T) {
	tr := NewTracker()
	cfg := testConfig()

	q := square(100, 100, 200)
	tr.Update(&q, 0, cfg)

	r1 := tr.Update(nil, 10, cfg)
	assert.NotNil(t, r1.Smoothed, "a single dropout frame should still retain the last estimate")

	r2 := tr.Update(nil, 20, cfg)
	assert.Nil(t, r2.Smoothed, "two consecutive dropout frames should clear the estimate")
}

func TestTrackerResetClearsAllState(t *testing.T) {
	tr := NewTracker()
	cfg := testConfig()

	q := square(100, 100, 200)
	tr.Update(&q, 0, cfg)
	tr.Update(&q, 10, cfg)
	tr.TriggerManualCapture()

	tr.Reset()

	r := tr.Update(&q, 0, cfg)
	assert.False(t, r.Stable)
	assert.False(t, r.Captured)
}
