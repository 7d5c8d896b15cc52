package scanner

import (
	"image"

	"github.com/google/uuid"
	"github.com/intothevoid/docscan/pkg/vision"
)

// DetectedDocument is the data model from spec.md §3. Confidence is
// presently always 1.0 — reserved for a future classifier stage.
type DetectedDocument struct {
	Quad        vision.Quad
	FrameWidth  uint32
	FrameHeight uint32
	Confidence  float32
	TimestampMs uint64
}

// EventKind discriminates the two typed events a Session emits, replacing
// the teacher's callback-field pattern per spec.md §9.
type EventKind int

const (
	// EventDocumentDetected fires on every processed frame with the
	// current smoothed quad (or none).
	EventDocumentDetected EventKind = iota
	// EventDocumentCaptured fires when the stability tracker decides to
	// auto-capture or a manual trigger is honored.
	EventDocumentCaptured
)

// Event is the single value type a Session publishes on its event
// channel. Exactly one of the Detected/Captured-specific fields is
// meaningful, selected by Kind.
type Event struct {
	Kind EventKind

	// Populated for EventDocumentDetected.
	Document *DetectedDocument
	Preview  image.Image

	// Populated for EventDocumentCaptured.
	CaptureID string
	Image     image.Image
}

// newCaptureID mints a fresh capture identifier so a host application can
// correlate a capture with downstream persistence — itself out of scope
// for this core (spec.md §1).
func newCaptureID() string {
	return uuid.NewString()
}
