package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// bilateralDiameter, bilateralSigma, cannyLow and cannyHigh are the fixed
// pipeline parameters from spec.md §4.1. The Canny thresholds are
// intentionally low to catch soft edges on low-contrast paper — lower than
// those of the high-contrast chessboard pipeline this was adapted from.
const (
	bilateralDiameter = 9
	bilateralSigma    = 75
	gaussianKernel    = 5
	cannyLow          = 30
	cannyHigh         = 100
	dilateKernel      = 5
)

// Stages holds the intermediate buffers of Preprocess, retained for callers
// that want to show a debug view (e.g. a demo app's grey/edge preview
// panes). Callers own the returned Mats and must Close them.
type Stages struct {
	Grey  gocv.Mat
	Edges gocv.Mat
}

// Close releases the Mats held by Stages.
func (s Stages) Close() {
	s.Grey.Close()
	s.Edges.Close()
}

// Preprocess runs the fixed five-stage pipeline from spec.md §4.1 and
// returns the dilated edge map. All intermediate buffers are released
// before return; the edge map is the only Mat the caller owns.
func Preprocess(input gocv.Mat) gocv.Mat {
	stages := PreprocessStages(input)
	stages.Grey.Close()
	return stages.Edges
}

// PreprocessStages runs the same pipeline as Preprocess but also returns
// the intermediate grayscale buffer, for callers that want to render a
// debug view alongside the edge map. The caller owns both returned Mats.
func PreprocessStages(input gocv.Mat) Stages {
	if input.Empty() {
		fmt.Println("vision: preprocess received an empty frame")
		return Stages{Grey: gocv.NewMat(), Edges: gocv.NewMat()}
	}

	grey := gocv.NewMat()
	if input.Channels() > 1 {
		gocv.CvtColor(input, &grey, gocv.ColorBGRToGray)
	} else {
		input.CopyTo(&grey)
	}

	denoised := gocv.NewMat()
	defer denoised.Close()
	gocv.BilateralFilter(grey, &denoised, bilateralDiameter, bilateralSigma, bilateralSigma)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(denoised, &blurred, image.Pt(gaussianKernel, gaussianKernel), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, cannyLow, cannyHigh)

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(dilateKernel, dilateKernel))
	defer kernel.Close()

	dilated := gocv.NewMat()
	gocv.Dilate(edges, &dilated, kernel)

	return Stages{Grey: grey, Edges: dilated}
}
