package vision

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"
)

// TestRectifyRoundTrip covers part of invariant 5: rectifying the known
// corners of a 600x800 rectangle rendered into a synthetic image yields an
// output image of that size, within 1px in each dimension.
func TestRectifyRoundTrip(t *testing.T) {
	frame := gocv.NewMatWithSize(1000, 1000, gocv.MatTypeCV8UC3)
	defer frame.Close()
	frame.SetTo(gocv.NewScalar(0, 0, 0, 0))

	corners := []image.Point{{200, 100}, {800, 100}, {800, 900}, {200, 900}}
	pv := gocv.NewPointVectorFromPoints(corners)
	defer pv.Close()
	pvs := gocv.NewPointsVectorFromPoints([][]image.Point{corners})
	defer pvs.Close()
	gocv.FillPoly(&frame, pvs, color.RGBA{255, 255, 255, 0})

	quad := Quad{{200, 100}, {800, 100}, {800, 900}, {200, 900}}
	warped, err := Rectify(frame, quad)
	assert.NoError(t, err)
	defer warped.Close()

	assert.InDelta(t, 600, warped.Cols(), 1)
	assert.InDelta(t, 800, warped.Rows(), 1)
}

func TestRectifyRejectsNonFiniteQuad(t *testing.T) {
	frame := gocv.NewMatWithSize(100, 100, gocv.MatTypeCV8UC3)
	defer frame.Close()

	degenerate := Quad{{0, 0}, {math.NaN(), 0}, {100, 100}, {0, 100}}
	_, err := Rectify(frame, degenerate)
	assert.ErrorIs(t, err, ErrRectificationFailed)
}
