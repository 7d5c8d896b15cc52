package scanner

import (
	"context"
	"image"

	"github.com/intothevoid/docscan/pkg/vision"
	"golang.org/x/image/draw"
	"golang.org/x/sync/semaphore"
)

// previewMaxWidth bounds the downscaled preview bitmap published on every
// EventDocumentDetected, per spec.md §6.
const previewMaxWidth = 320

// Analyzer is the streaming entry point from spec.md §5-6. It wraps a
// Session with the "keep only latest" backpressure policy: Submit never
// blocks the producer and never queues a second frame behind one still
// being processed. The single processing slot is a
// golang.org/x/sync/semaphore.Weighted(1).
type Analyzer struct {
	session *Session
	sem     *semaphore.Weighted
}

// NewAnalyzer wraps a Session for streaming use.
func NewAnalyzer(session *Session) *Analyzer {
	return &Analyzer{session: session, sem: semaphore.NewWeighted(1)}
}

// Submit offers one frame to the analyzer. If a frame is already being
// processed, this one is dropped immediately and ok is false — the
// producer's goroutine is never blocked waiting for a slot. On success it
// runs detection synchronously, publishes EventDocumentDetected and, when
// the tracker decided to capture, EventDocumentCaptured — always in that
// order, per spec.md §5's ordering guarantee — before returning the same
// document it published, so the caller doesn't need to re-run detection
// just to draw an overlay.
func (a *Analyzer) Submit(frame vision.FrameView, nowMs uint64) (doc *DetectedDocument, ok bool) {
	if !a.sem.TryAcquire(1) {
		return nil, false
	}
	defer a.sem.Release(1)

	doc, captured, _ := a.session.step(frame, nowMs)

	a.publish(Event{Kind: EventDocumentDetected, Document: doc, Preview: buildPreview(frame)})

	if !captured || doc == nil {
		return doc, true
	}

	warped, rectErr := vision.Rectify(frame.Mat, doc.Quad)
	if rectErr != nil {
		return doc, true
	}
	defer warped.Close()

	img, imgErr := warped.ToImage()
	if imgErr != nil {
		return doc, true
	}

	a.publish(Event{
		Kind:      EventDocumentCaptured,
		CaptureID: newCaptureID(),
		Image:     img,
	})
	return doc, true
}

// publish sends onto the session's event channel, preferring to drop an
// event over blocking the frame-processing thread if a consumer has
// stalled and the buffer is full.
func (a *Analyzer) publish(ev Event) {
	select {
	case a.session.events <- ev:
	default:
	}
}

// buildPreview downscales the raw frame to previewMaxWidth using bilinear
// resampling, cheap enough to run on every accepted frame.
func buildPreview(frame vision.FrameView) image.Image {
	src, err := frame.Mat.ToImage()
	if err != nil {
		return nil
	}
	if frame.Width <= previewMaxWidth {
		return src
	}
	previewHeight := frame.Height * previewMaxWidth / frame.Width
	dst := image.NewRGBA(image.Rect(0, 0, previewMaxWidth, previewHeight))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Run drains frame reads from pull until ctx is cancelled, submitting each
// to the analyzer. pull returning a non-nil error ends the loop.
func (a *Analyzer) Run(ctx context.Context, pull func(context.Context) (vision.FrameView, uint64, error)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		frame, nowMs, err := pull(ctx)
		if err != nil {
			return err
		}
		a.Submit(frame, nowMs)
	}
}
