package counter

import (
	"gonum.org/v1/gonum/floats"

	"github.com/ayusman/mudra/internal/detector"
)

// Displacement returns how far, in pixels, the centroid moved since the
// previous sample. Without a previous sample the displacement is zero.
func Displacement(prev *detector.Point2D, cur detector.Point2D) float64 {
	if prev == nil {
		return 0
	}
	return floats.Distance(
		[]float64{prev.X, prev.Y},
		[]float64{cur.X, cur.Y},
		2,
	)
}

// Trusted reports whether a frame with the given displacement is steady
// enough for its count to be used.
func Trusted(displacement, threshold float64) bool {
	return displacement < threshold
}
