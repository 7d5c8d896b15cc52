package vision

import (
	"errors"
	"image"
	"math"
	"sort"

	"gocv.io/x/gocv"
)

// ErrNoCandidate signals that none of the three extraction strategies
// produced a quadrilateral that survived Validate. It is not an error in
// the usual sense — callers treat it as "no detection this frame".
var ErrNoCandidate = errors.New("vision: no document candidate found")

// ExtractConfig carries the tuning knobs ExtractQuad needs from
// scanner.Config, kept separate so this package has no dependency on the
// scanner package.
type ExtractConfig struct {
	MinContourArea      float64
	MinFrameAreaPercent float64
}

// houghRhoResolution, houghThetaResolution and houghVoteThreshold are the
// probabilistic Hough line transform parameters suggested in spec.md
// §4.2 Strategy C.
const (
	houghRhoResolution   = 1.0
	houghThetaResolution = math.Pi / 180
	houghVoteThreshold   = 60
	houghMinLineLength   = 40
	houghMaxLineGap      = 20

	dpEpsilonFactor = 0.02
)

// ExtractQuad runs the three quad-extraction strategies from spec.md §4.2
// in order against the preprocessed edge map, returning the first
// candidate that survives Validate. Returns ErrNoCandidate if all three
// strategies fail.
func ExtractQuad(edges gocv.Mat, frameW, frameH int, cfg ExtractConfig) (Quad, error) {
	vcfg := ValidationConfig{MinFrameAreaPercent: cfg.MinFrameAreaPercent}

	if q, ok := strategyPolygonApprox(edges, frameW, frameH, cfg, vcfg); ok {
		return q, nil
	}
	if q, ok := strategyMinAreaRect(edges, frameW, frameH, cfg, vcfg); ok {
		return q, nil
	}
	if q, ok := strategyHoughIntersection(edges, frameW, frameH, vcfg); ok {
		return q, nil
	}
	return Quad{}, ErrNoCandidate
}

// strategyPolygonApprox is Strategy A: Douglas-Peucker simplification of
// external contours sorted by area, descending. The first contour whose
// simplification yields exactly 4 vertices AND survives Validate wins.
func strategyPolygonApprox(edges gocv.Mat, frameW, frameH int, cfg ExtractConfig, vcfg ValidationConfig) (Quad, bool) {
	contours := gocv.FindContours(edges, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	type scored struct {
		idx  int
		area float64
	}
	ranked := make([]scored, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area < cfg.MinContourArea {
			continue
		}
		ranked = append(ranked, scored{idx: i, area: area})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].area > ranked[j].area })

	for _, r := range ranked {
		cnt := contours.At(r.idx)
		peri := gocv.ArcLength(cnt, true)
		approx := gocv.ApproxPolyDP(cnt, dpEpsilonFactor*peri, true)

		if !approx.IsNil() && approx.Size() == 4 {
			pts := approx.ToPoints()
			approx.Close()
			if q, err := Validate(pts, frameW, frameH, vcfg); err == nil {
				return q, true
			}
			continue
		}
		if !approx.IsNil() {
			approx.Close()
		}
	}
	return Quad{}, false
}

// strategyMinAreaRect is Strategy B: fit a minimum-area rotated rectangle
// to the largest contour, recovering curved or slightly-occluded edges
// that Douglas-Peucker simplification could not reduce to 4 vertices.
func strategyMinAreaRect(edges gocv.Mat, frameW, frameH int, cfg ExtractConfig, vcfg ValidationConfig) (Quad, bool) {
	contours := gocv.FindContours(edges, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	bestIdx := -1
	bestArea := 0.0
	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area > bestArea {
			bestArea = area
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestArea <= cfg.MinContourArea {
		return Quad{}, false
	}

	rect := gocv.MinAreaRect(contours.At(bestIdx))
	if len(rect.Points) != 4 {
		return Quad{}, false
	}

	q, err := Validate(rect.Points, frameW, frameH, vcfg)
	if err != nil {
		return Quad{}, false
	}
	return q, true
}

// line2D is a line segment in image space, classified as "horizontal" or
// "vertical" by the absolute angle of its direction vector.
type line2D struct {
	x1, y1, x2, y2 float64
}

func (l line2D) meanY() float64 { return (l.y1 + l.y2) / 2 }
func (l line2D) meanX() float64 { return (l.x1 + l.x2) / 2 }

func (l line2D) angleDegrees() float64 {
	return math.Atan2(l.y2-l.y1, l.x2-l.x1) * 180 / math.Pi
}

// strategyHoughIntersection is Strategy C: cluster probabilistic Hough
// lines into two orthogonal groups and intersect their outermost members.
func strategyHoughIntersection(edges gocv.Mat, frameW, frameH int, vcfg ValidationConfig) (Quad, bool) {
	lines := gocv.NewMat()
	defer lines.Close()
	gocv.HoughLinesPWithParams(edges, &lines, houghRhoResolution, houghThetaResolution,
		houghVoteThreshold, houghMinLineLength, houghMaxLineGap)

	var horizontals, verticals []line2D
	for i := 0; i < lines.Rows(); i++ {
		v := lines.GetVeciAt(i, 0)
		l := line2D{x1: float64(v[0]), y1: float64(v[1]), x2: float64(v[2]), y2: float64(v[3])}

		angle := math.Abs(l.angleDegrees())
		if angle > 90 {
			angle = 180 - angle
		}
		if angle <= 45 {
			horizontals = append(horizontals, l)
		} else {
			verticals = append(verticals, l)
		}
	}

	if len(horizontals) < 2 || len(verticals) < 2 {
		return Quad{}, false
	}

	top := outermost(horizontals, func(l line2D) float64 { return l.meanY() }, false)
	bottom := outermost(horizontals, func(l line2D) float64 { return l.meanY() }, true)
	left := outermost(verticals, func(l line2D) float64 { return l.meanX() }, false)
	right := outermost(verticals, func(l line2D) float64 { return l.meanX() }, true)

	tl, ok1 := intersect(top, left)
	tr, ok2 := intersect(top, right)
	br, ok3 := intersect(bottom, right)
	bl, ok4 := intersect(bottom, left)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return Quad{}, false
	}

	margin := float64(frameW + frameH)
	for _, p := range []image.Point{tl, tr, br, bl} {
		if float64(p.X) < -margin || float64(p.X) > float64(frameW)+margin ||
			float64(p.Y) < -margin || float64(p.Y) > float64(frameH)+margin {
			return Quad{}, false
		}
	}

	q, err := Validate([]image.Point{tl, tr, br, bl}, frameW, frameH, vcfg)
	if err != nil {
		return Quad{}, false
	}
	return q, true
}

// outermost returns the line with the smallest (wantMax=false) or largest
// (wantMax=true) value of key among lines.
func outermost(lines []line2D, key func(line2D) float64, wantMax bool) line2D {
	best := lines[0]
	bestKey := key(best)
	for _, l := range lines[1:] {
		k := key(l)
		if (wantMax && k > bestKey) || (!wantMax && k < bestKey) {
			bestKey = k
			best = l
		}
	}
	return best
}

// intersect computes the intersection of two line segments treated as
// infinite lines. Returns ok=false for (near-)parallel lines.
func intersect(a, b line2D) (image.Point, bool) {
	x1, y1, x2, y2 := a.x1, a.y1, a.x2, a.y2
	x3, y3, x4, y4 := b.x1, b.y1, b.x2, b.y2

	denom := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if math.Abs(denom) < 1e-9 {
		return image.Point{}, false
	}

	t := ((x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)) / denom
	px := x1 + t*(x2-x1)
	py := y1 + t*(y2-y1)
	return image.Pt(int(math.Round(px)), int(math.Round(py))), true
}
