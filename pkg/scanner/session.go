package scanner

import (
	"image"
	"sync/atomic"

	"github.com/intothevoid/docscan/pkg/vision"
)

// Session is the explicit "scanner session" value from spec.md §9,
// replacing the teacher's callback-based analyzer with setter injection.
// It owns the one piece of cross-frame state (the Tracker) and exposes
// process_frame/process_frame_smooth/crop_document plus a subscribable
// event stream instead of callback fields.
//
// A Session is single-threaded per spec.md §5: ProcessFrame must be
// called to completion before the next call begins. TriggerManualCapture
// and UpdateConfig are the two operations safe to call from another
// goroutine; both take effect no later than the start of the next
// ProcessFrame call.
type Session struct {
	tracker *Tracker
	cfg     atomic.Pointer[Config]
	events  chan Event
}

// NewSession creates a Session with the given initial configuration. The
// event channel is buffered so a detection event and its following
// capture event (spec.md §5 ordering guarantee) never block a slow
// consumer from receiving the next frame's events out of order.
func NewSession(cfg Config) *Session {
	s := &Session{
		tracker: NewTracker(),
		events:  make(chan Event, 8),
	}
	s.cfg.Store(&cfg)
	return s
}

// Events returns the channel a host application drains for
// DocumentDetected/DocumentCaptured events.
func (s *Session) Events() <-chan Event {
	return s.events
}

// UpdateConfig atomically swaps the configuration and resets the tracker.
// Takes effect no later than the next ProcessFrame call; a single frame
// never observes a torn read of the old and new config (spec.md §5 Shared
// resource policy). spec.md §3 requires tracker state to be cleared
// whenever the configuration changes, so a capture armed under the old
// thresholds (stable_frame_count, last_smoothed, last_capture_time_ms)
// never fires under the new ones — the tracker re-enters SEEKING instead.
func (s *Session) UpdateConfig(cfg Config) {
	s.cfg.Store(&cfg)
	s.tracker.Reset()
}

// TriggerManualCapture arms the manual capture flag. Safe to call from any
// goroutine (e.g. a UI button handler).
func (s *Session) TriggerManualCapture() {
	s.tracker.TriggerManualCapture()
}

// ProcessFrame runs C1-C4 against one frame and returns the current
// smoothed document, or (nil, ErrNoCandidate) if nothing was detected.
// nowMs is the caller's monotonic wall-clock time in milliseconds. It does
// not itself invoke any callback — use Events() for the streaming form via
// Analyzer, which shares this same tracker update.
func (s *Session) ProcessFrame(frame vision.FrameView, nowMs uint64) (*DetectedDocument, error) {
	doc, _, err := s.step(frame, nowMs)
	return doc, err
}

// ProcessFrameSmooth is the non-streaming convenience form from spec.md
// §6. The core always tracks the smoothed quad (there is no separate raw
// value to leak), so this is equivalent to ProcessFrame; it exists so
// callers that only ever want the smoothed result have a self-documenting
// name to call instead of relying on that equivalence.
func (s *Session) ProcessFrameSmooth(frame vision.FrameView, nowMs uint64) (*DetectedDocument, error) {
	return s.ProcessFrame(frame, nowMs)
}

// step is the shared implementation behind ProcessFrame and Analyzer.Submit:
// it runs C1-C4 once and reports both the current document and whether the
// tracker decided to capture this frame, so the analyzer glue can rectify
// and fire a capture event without re-running detection.
func (s *Session) step(frame vision.FrameView, nowMs uint64) (*DetectedDocument, bool, error) {
	cfg := *s.cfg.Load()

	observed, _ := detectQuad(frame, cfg)

	result := s.tracker.Update(observed, nowMs, cfg)
	if result.Smoothed == nil {
		return nil, false, ErrNoCandidate
	}

	doc := &DetectedDocument{
		Quad:        *result.Smoothed,
		FrameWidth:  uint32(frame.Width),
		FrameHeight: uint32(frame.Height),
		Confidence:  1.0,
		TimestampMs: nowMs,
	}
	return doc, result.Captured, nil
}

// detectQuad runs C1 (Preprocess) and C2 (ExtractQuad); C3 validation
// happens inside ExtractQuad's strategies. Returns (nil, ErrNoCandidate)
// if nothing survived.
func detectQuad(frame vision.FrameView, cfg Config) (*vision.Quad, error) {
	edges := vision.Preprocess(frame.Mat)
	defer edges.Close()

	quad, err := vision.ExtractQuad(edges, frame.Width, frame.Height, vision.ExtractConfig{
		MinContourArea:      cfg.MinContourArea,
		MinFrameAreaPercent: cfg.MinFrameAreaPercent,
	})
	if err != nil {
		return nil, err
	}
	return &quad, nil
}

// CropDocument is the stateless rectification entry point from spec.md
// §6 — callable independently of any Session/tracker state.
func CropDocument(frame vision.FrameView, quad vision.Quad) (image.Image, error) {
	warped, err := vision.Rectify(frame.Mat, quad)
	if err != nil {
		return nil, err
	}
	defer warped.Close()
	return warped.ToImage()
}

// DrawPolygonOverlay is the pure rendering helper from spec.md §6. It has
// no detection semantics and does not touch tracker state.
func DrawPolygonOverlay(frame vision.FrameView, quad vision.Quad, style vision.OverlayStyle) (image.Image, error) {
	out := frame.Mat.Clone()
	defer out.Close()
	vision.DrawPolygonOverlay(&out, quad, style)
	return out.ToImage()
}
