package vision

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// OverlayStyle carries the stroke/fill rendering hints from
// scanner.Config's stroke_color and fill_alpha fields. They have no
// detection semantics — purely a UI convenience per spec.md §6.
type OverlayStyle struct {
	StrokeColor color.RGBA
	StrokeWidth int
	FillAlpha   float64 // 0 disables the translucent fill
}

// DefaultOverlayStyle mirrors the teacher's hard-coded highlight colours.
func DefaultOverlayStyle() OverlayStyle {
	return OverlayStyle{
		StrokeColor: color.RGBA{R: 0, G: 200, B: 0, A: 255},
		StrokeWidth: 3,
		FillAlpha:   0.15,
	}
}

// DrawPolygonOverlay draws the quad's outline and an optional translucent
// fill onto img in place. Pure rendering — no detection semantics.
func DrawPolygonOverlay(img *gocv.Mat, quad Quad, style OverlayStyle) {
	pts := quad.ToImagePoints(img.Cols(), img.Rows())

	if style.FillAlpha > 0 {
		overlay := img.Clone()
		defer overlay.Close()

		poly := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
		defer poly.Close()
		gocv.FillPoly(&overlay, poly, style.StrokeColor)

		gocv.AddWeighted(overlay, style.FillAlpha, *img, 1-style.FillAlpha, 0, img)
	}

	for i := 0; i < len(pts); i++ {
		next := pts[(i+1)%len(pts)]
		gocv.Line(img, pts[i], next, style.StrokeColor, style.StrokeWidth)
	}
}
