package vision

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeOrdersCornersTLTRBRBL(t *testing.T) {
	tests := []struct {
		name string
		pts  []Point
	}{
		{"already ordered", []Point{{0, 0}, {100, 0}, {100, 100}, {0, 100}}},
		{"shuffled", []Point{{100, 100}, {0, 0}, {0, 100}, {100, 0}}},
		{"slightly rotated", []Point{{10, 2}, {108, 12}, {98, 110}, {2, 100}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := canonicalize(tt.pts)

			sumTL := q[TL].X + q[TL].Y
			sumTR := q[TR].X + q[TR].Y
			sumBR := q[BR].X + q[BR].Y
			if sumTL > sumTR || sumTR > sumBR {
				t.Errorf("expected sum(TL) <= sum(TR) <= sum(BR), got %v <= %v <= %v", sumTL, sumTR, sumBR)
			}

			// cross product of (TR-TL) x (BL-TL) should be positive for a
			// clockwise-from-TL winding in image coordinates (y-down).
			v1x, v1y := q[TR].X-q[TL].X, q[TR].Y-q[TL].Y
			v2x, v2y := q[BL].X-q[TL].X, q[BL].Y-q[TL].Y
			cross := v1x*v2y - v1y*v2x
			if cross <= 0 {
				t.Errorf("expected positive cross product for TL-TR-BR-BL winding, got %v", cross)
			}
		})
	}
}

func TestShoelaceAreaMatchesCanonicalizedMagnitude(t *testing.T) {
	raw := []Point{{100, 100}, {100, 0}, {0, 0}, {0, 100}} // unit square * 100, counter-clockwise from BR
	rawArea := math.Abs(ShoelaceArea(raw))

	canon := canonicalize(raw)
	canonArea := math.Abs(ShoelaceArea(canon[:]))

	assert.InDelta(t, rawArea, canonArea, 1e-6, "canonicalizing a quad must not change its area magnitude")
	assert.InDelta(t, 10000.0, canonArea, 1e-6)
}

func TestDistanceBetweenPoints(t *testing.T) {
	d := DistanceBetweenPoints(Point{0, 0}, Point{3, 4})
	assert.InDelta(t, 5.0, d, 1e-9)
}

func TestToImagePointsClampsToFrameBounds(t *testing.T) {
	q := Quad{{-10, -10}, {2000, -5}, {2000, 2000}, {-5, 2000}}
	pts := q.ToImagePoints(1000, 800)

	want := []image.Point{{0, 0}, {1000, 0}, {1000, 800}, {0, 800}}
	for i, p := range pts {
		if p != want[i] {
			t.Errorf("point %d: got %v, want %v", i, p, want[i])
		}
	}
}

func TestCornerAngleDegreesRightAngle(t *testing.T) {
	// A square corner: b at origin, a along +x, c along +y.
	angle := cornerAngleDegrees(Point{10, 0}, Point{0, 0}, Point{0, 10})
	assert.InDelta(t, 90.0, angle, 1e-6)
}
