package scanner

import "github.com/intothevoid/docscan/pkg/vision"

// ErrInvalidFrame signals a zero-dimension or unsupported channel layout.
// Surfaced to the caller; the frame is skipped. Re-exported from pkg/vision
// so callers of this package never need to import vision just to compare
// errors.
var ErrInvalidFrame = vision.ErrInvalidFrame

// ErrNoCandidate signals that no quad was found this frame. Not an error
// in the propagation-policy sense of spec.md §7 — Session.ProcessFrame
// returns it alongside a nil *DetectedDocument so callers that want the
// Go "ok" idiom can check err == nil instead.
var ErrNoCandidate = vision.ErrNoCandidate

// ErrRectificationFailed signals a degenerate quad during warp. The
// capture event does not fire; the detection event still reports the
// smoothed quad, per spec.md §7.
var ErrRectificationFailed = vision.ErrRectificationFailed
