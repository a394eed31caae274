// Package digits classifies which digits of a detected hand are extended.
package digits

import (
	"math"
	"strings"

	"github.com/ayusman/mudra/internal/detector"
)

// Digit positions within a Vector.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Little
	NumDigits
)

// tipIDs maps each digit to its fingertip landmark.
var tipIDs = [NumDigits]int{
	detector.ThumbTip,
	detector.IndexTip,
	detector.MiddleTip,
	detector.RingTip,
	detector.PinkyTip,
}

// thumbReference is the thumb MCP joint (landmark 2), the keypoint the
// thumb tip is compared against.
const thumbReference = detector.ThumbMCP

// Vector records which digits are extended, ordered thumb, index, middle,
// ring, little.
type Vector [NumDigits]bool

// Count returns the number of extended digits.
func (v Vector) Count() int {
	n := 0
	for _, up := range v {
		if up {
			n++
		}
	}
	return n
}

// String renders the vector as five 0/1 characters.
func (v Vector) String() string {
	var b strings.Builder
	for _, up := range v {
		if up {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Classify returns the digit vector for one hand.
//
// The thumb extends sideways, so it counts as up when its tip is further
// from the wrist horizontally than the reference joint is, and also sits
// above that joint. Both handedness labels use the same predicate.
//
// The other four fingers are up when the tip is above (smaller y than) the
// joint two positions back along the same finger.
func Classify(h detector.Hand) Vector {
	var v Vector
	p := h.Points

	wrist := p[detector.Wrist]
	thumbTip := p[tipIDs[Thumb]]
	ref := p[thumbReference]

	wristThumb := math.Abs(thumbTip.X - wrist.X)
	wristRef := math.Abs(ref.X - wrist.X)
	v[Thumb] = wristThumb > wristRef && thumbTip.Y < ref.Y

	for d := Index; d < NumDigits; d++ {
		tip := tipIDs[d]
		v[d] = p[tip].Y < p[tip-2].Y
	}

	return v
}

// Count classifies a hand and returns its number of extended digits.
func Count(h detector.Hand) int {
	return Classify(h).Count()
}
