package scanner

import (
	"testing"

	"github.com/intothevoid/docscan/pkg/vision"
	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"
)

func blankFrame(t *testing.T) vision.FrameView {
	t.Helper()
	mat := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	t.Cleanup(mat.Close)
	mat.SetTo(gocv.NewScalar(0, 0, 0, 0))
	fv, err := vision.NewFrameView(mat)
	assert.NoError(t, err)
	return fv
}

func TestProcessFrameReturnsNoCandidateOnBlankFrame(t *testing.T) {
	session := NewSession(DefaultConfig())
	doc, err := session.ProcessFrame(blankFrame(t), 0)

	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrNoCandidate)
}

func TestProcessFrameSmoothMatchesProcessFrame(t *testing.T) {
	cfg := DefaultConfig()
	session := NewSession(cfg)

	_, err1 := session.ProcessFrame(blankFrame(t), 0)
	_, err2 := session.ProcessFrameSmooth(blankFrame(t), 10)

	assert.ErrorIs(t, err1, ErrNoCandidate)
	assert.ErrorIs(t, err2, ErrNoCandidate)
}

func TestUpdateConfigTakesEffectOnNextFrame(t *testing.T) {
	session := NewSession(DefaultConfig())

	cfg := DefaultConfig()
	cfg.MinFrameAreaPercent = 0.9
	session.UpdateConfig(cfg)

	loaded := *session.cfg.Load()
	assert.Equal(t, 0.9, loaded.MinFrameAreaPercent)
}

func TestCropDocumentRoundTrips(t *testing.T) {
	frame := blankFrame(t)
	quad := vision.Quad{{100, 100}, {500, 100}, {500, 400}, {100, 400}}

	img, err := CropDocument(frame, quad)
	assert.NoError(t, err)
	assert.NotNil(t, img)
	assert.InDelta(t, 400, img.Bounds().Dx(), 1)
	assert.InDelta(t, 300, img.Bounds().Dy(), 1)
}

func TestDrawPolygonOverlayDoesNotError(t *testing.T) {
	frame := blankFrame(t)
	quad := vision.Quad{{50, 50}, {590, 50}, {590, 430}, {50, 430}}

	img, err := DrawPolygonOverlay(frame, quad, vision.DefaultOverlayStyle())
	assert.NoError(t, err)
	assert.NotNil(t, img)
}

func TestAnalyzerDropsFrameUnderContention(t *testing.T) {
	session := NewSession(DefaultConfig())
	analyzer := NewAnalyzer(session)

	assert.True(t, analyzer.sem.TryAcquire(1), "sanity: semaphore starts available")
	analyzer.sem.Release(1)

	// Manually hold the slot to simulate an in-flight frame, then verify a
	// concurrent Submit is dropped rather than blocking.
	analyzer.sem.TryAcquire(1)
	doc, ok := analyzer.Submit(blankFrame(t), 0)
	analyzer.sem.Release(1)

	assert.False(t, ok)
	assert.Nil(t, doc)
}
