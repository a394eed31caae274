// Package detector provides the hand landmark source used by the finger counter.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Handedness labels a detected hand as left or right.
type Handedness string

const (
	Left  Handedness = "Left"
	Right Handedness = "Right"
)

// ParseHandedness maps a classifier label to a Handedness.
// Anything other than "Right" is treated as Left.
func ParseHandedness(label string) Handedness {
	if label == string(Right) {
		return Right
	}
	return Left
}

// Point3D is a keypoint: x and y in frame pixels, z relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Point2D is a position in frame pixels.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingBox is the axis-aligned box around a hand's keypoints.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Hand is one detected hand in one frame.
type Hand struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness Handedness            `json:"handedness"`
	Score      float64               `json:"score"`
	Box        BoundingBox           `json:"box"`
	Centroid   Point2D               `json:"centroid"`
}

// NewHand builds a Hand from its keypoints, deriving the bounding box and
// centroid. The centroid offsets are halved with integer truncation so that
// it always lands on a whole pixel.
func NewHand(points [NumLandmarks]Point3D, handedness Handedness, score float64) Hand {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	box := BoundingBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}

	return Hand{
		Points:     points,
		Handedness: handedness,
		Score:      score,
		Box:        box,
		Centroid: Point2D{
			X: box.X + math.Floor(box.Width/2),
			Y: box.Y + math.Floor(box.Height/2),
		},
	}
}
