package vision

import (
	"errors"
	"image"
)

// ErrValidationRejected signals that a candidate quadrilateral failed one of
// the geometric checks in Validate. It is an internal signal used by
// ExtractQuad to move on to the next strategy; it is never surfaced past
// the extractor.
var ErrValidationRejected = errors.New("vision: candidate rejected by geometry validator")

// ValidationConfig carries the thresholds Validate checks a candidate
// against. Extracted from scanner.Config so this package never imports the
// scanner package (geometry validation is a pure function of a frame size
// and a few floats).
type ValidationConfig struct {
	MinFrameAreaPercent float64
}

const (
	minAspectRatio = 0.25
	maxAspectRatio = 4.0
	minCornerAngle = 50.0
	maxCornerAngle = 130.0
)

// Validate takes a raw (unordered) 4-point candidate and the frame
// dimensions and either returns a canonicalized Quad or
// ErrValidationRejected. All five checks in spec.md §4.3 must pass.
func Validate(raw []image.Point, frameW, frameH int, cfg ValidationConfig) (Quad, error) {
	if len(raw) != 4 {
		return Quad{}, ErrValidationRejected
	}

	quad := canonicalize(pointsFromImagePoints(raw))

	w := maxF(DistanceBetweenPoints(quad[TL], quad[TR]), DistanceBetweenPoints(quad[BL], quad[BR]))
	h := maxF(DistanceBetweenPoints(quad[TR], quad[BR]), DistanceBetweenPoints(quad[TL], quad[BL]))
	if w == 0 || h == 0 {
		return Quad{}, ErrValidationRejected
	}
	ratio := w / h
	if ratio < minAspectRatio || ratio > maxAspectRatio {
		return Quad{}, ErrValidationRejected
	}

	area := ShoelaceArea(quad[:])
	if absF(area) < cfg.MinFrameAreaPercent*float64(frameW)*float64(frameH) {
		return Quad{}, ErrValidationRejected
	}

	corners := [4][3]int{
		{BL, TL, TR},
		{TL, TR, BR},
		{TR, BR, BL},
		{BR, BL, TL},
	}
	for _, c := range corners {
		angle := cornerAngleDegrees(quad[c[0]], quad[c[1]], quad[c[2]])
		if angle < minCornerAngle || angle > maxCornerAngle {
			return Quad{}, ErrValidationRejected
		}
	}

	return quad, nil
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
