package vision

import (
	"errors"
	"image"
	"math"

	"gocv.io/x/gocv"
)

// ErrRectificationFailed signals a degenerate quad (zero-area, non-finite
// transform) during warp. Per spec.md §7 the capture callback must not
// fire, but the detection callback still reports the smoothed quad.
var ErrRectificationFailed = errors.New("vision: rectification failed on a degenerate quad")

// Rectify computes the destination size from a canonicalized quad and
// warps the source frame to an axis-aligned crop, per spec.md §4.5.
func Rectify(frame gocv.Mat, quad Quad) (gocv.Mat, error) {
	wOut := round(maxF(DistanceBetweenPoints(quad[TL], quad[TR]), DistanceBetweenPoints(quad[BL], quad[BR])))
	hOut := round(maxF(DistanceBetweenPoints(quad[TR], quad[BR]), DistanceBetweenPoints(quad[TL], quad[BL])))
	if wOut < 1 {
		wOut = 1
	}
	if hOut < 1 {
		hOut = 1
	}

	for _, p := range quad {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return gocv.NewMat(), ErrRectificationFailed
		}
	}

	srcPts := quad.ToImagePoints(frame.Cols(), frame.Rows())
	src := gocv.NewPointVectorFromPoints(srcPts)
	defer src.Close()

	dst := gocv.NewPointVectorFromPoints([]image.Point{
		{X: 0, Y: 0}, {X: wOut, Y: 0}, {X: wOut, Y: hOut}, {X: 0, Y: hOut},
	})
	defer dst.Close()

	transform := gocv.GetPerspectiveTransform(src, dst)
	defer transform.Close()
	if transform.Empty() {
		return gocv.NewMat(), ErrRectificationFailed
	}

	warped := gocv.NewMat()
	gocv.WarpPerspective(frame, &warped, transform, image.Pt(wOut, hOut))
	if warped.Empty() {
		warped.Close()
		return gocv.NewMat(), ErrRectificationFailed
	}
	return warped, nil
}
