package vision

import (
	"image"
	"math"
)

// Point is a 2-D coordinate in frame pixel space.
type Point struct {
	X, Y float64
}

// Quad is an ordered 4-tuple of points, canonically
// [top-left, top-right, bottom-right, bottom-left] clockwise from TL.
// Corner order is an invariant once a Quad leaves Validate.
type Quad [4]Point

// Corner indices into a canonical Quad.
const (
	TL = iota
	TR
	BR
	BL
)

// ToImagePoints converts a Quad to integer image.Point, rounding to the
// nearest pixel and clamping to [0,w] x [0,h] per spec Invariant 2.
func (q Quad) ToImagePoints(w, h int) []image.Point {
	pts := make([]image.Point, 4)
	for i, p := range q {
		pts[i] = image.Pt(clampInt(round(p.X), 0, w), clampInt(round(p.Y), 0, h))
	}
	return pts
}

// pointsFromImagePoints converts raw (unordered) image points into Points.
func pointsFromImagePoints(pts []image.Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point{X: float64(p.X), Y: float64(p.Y)}
	}
	return out
}

func round(f float64) int {
	return int(math.Round(f))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DistanceBetweenPoints calculates the Euclidean distance between two points.
func DistanceBetweenPoints(p1, p2 Point) float64 {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// ShoelaceArea returns the signed area of a simple polygon via the shoelace
// formula. The sign reflects winding order; callers that want a magnitude
// take math.Abs of the result.
func ShoelaceArea(pts []Point) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return sum / 2
}

// cornerAngleDegrees computes the interior angle at b formed by edges
// b->a and b->c, via the dot product of the two adjacent edge vectors.
func cornerAngleDegrees(a, b, c Point) float64 {
	v1x, v1y := a.X-b.X, a.Y-b.Y
	v2x, v2y := c.X-b.X, c.Y-b.Y
	mag1 := math.Hypot(v1x, v1y)
	mag2 := math.Hypot(v2x, v2y)
	if mag1 == 0 || mag2 == 0 {
		return 0
	}
	cosTheta := (v1x*v2x + v1y*v2y) / (mag1 * mag2)
	cosTheta = math.Max(-1, math.Min(1, cosTheta))
	return math.Acos(cosTheta) * 180 / math.Pi
}

// canonicalize orders four arbitrary points as TL, TR, BR, BL using the
// sum/diff rule from spec.md §4.3, expressed in frame pixel space (y
// increases downward):
//
//	TL = argmin(x+y)     BR = argmax(x+y)
//	TR = argmin(y-x)     BL = argmax(y-x)
//
// Robust to rotation up to ±45°; larger rotations are rejected later by the
// corner-angle check in Validate.
func canonicalize(pts []Point) Quad {
	tl, tr, br, bl := pts[0], pts[0], pts[0], pts[0]
	minSum, maxSum := pts[0].X+pts[0].Y, pts[0].X+pts[0].Y
	minDiff, maxDiff := pts[0].Y-pts[0].X, pts[0].Y-pts[0].X

	for _, p := range pts {
		sum := p.X + p.Y
		diff := p.Y - p.X

		if sum < minSum {
			minSum = sum
			tl = p
		}
		if sum > maxSum {
			maxSum = sum
			br = p
		}
		if diff < minDiff {
			minDiff = diff
			tr = p
		}
		if diff > maxDiff {
			maxDiff = diff
			bl = p
		}
	}

	return Quad{tl, tr, br, bl}
}
