package digits

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/ayusman/mudra/internal/detector"
)

var wrist = detector.Point2D{X: 320, Y: 400}

func TestClassify_SyntheticHands(t *testing.T) {
	tests := []struct {
		name string
		up   detector.Digits
		want Vector
	}{
		{name: "fist", up: detector.Digits{}, want: Vector{}},
		{name: "open palm", up: detector.Digits{true, true, true, true, true}, want: Vector{true, true, true, true, true}},
		{name: "peace sign", up: detector.Digits{false, true, true, false, false}, want: Vector{false, true, true, false, false}},
		{name: "thumb only", up: detector.Digits{true, false, false, false, false}, want: Vector{true, false, false, false, false}},
		{name: "little only", up: detector.Digits{false, false, false, false, true}, want: Vector{false, false, false, false, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(detector.SyntheticHand(detector.Right, wrist, tt.up))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassify_ThumbRule(t *testing.T) {
	base := func() [detector.NumLandmarks]detector.Point3D {
		var p [detector.NumLandmarks]detector.Point3D
		p[detector.Wrist] = detector.Point3D{X: 100, Y: 300}
		p[detector.ThumbMCP] = detector.Point3D{X: 130, Y: 260}
		return p
	}

	tests := []struct {
		name     string
		thumbTip detector.Point3D
		want     bool
	}{
		{name: "far and above", thumbTip: detector.Point3D{X: 180, Y: 240}, want: true},
		{name: "far on the other side and above", thumbTip: detector.Point3D{X: 40, Y: 240}, want: true},
		{name: "far but below", thumbTip: detector.Point3D{X: 180, Y: 270}, want: false},
		{name: "above but close", thumbTip: detector.Point3D{X: 120, Y: 200}, want: false},
		{name: "equal horizontal distance", thumbTip: detector.Point3D{X: 130, Y: 200}, want: false},
		{name: "level with reference", thumbTip: detector.Point3D{X: 180, Y: 260}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			p[detector.ThumbTip] = tt.thumbTip
			v := Classify(detector.NewHand(p, detector.Right, 1))
			assert.Equal(t, tt.want, v[Thumb])
		})
	}
}

func TestClassify_ThumbIgnoresHandedness(t *testing.T) {
	up := detector.Digits{true, false, true, false, true}
	right := Classify(detector.SyntheticHand(detector.Right, wrist, up))
	left := Classify(detector.SyntheticHand(detector.Left, wrist, up))
	assert.Equal(t, right, left)
}

func TestClassify_FingersOnlyUseVerticalOrder(t *testing.T) {
	hand := detector.Fist(detector.Right, wrist)
	p := hand.Points

	// Push the index tip far sideways but keep it above the PIP joint.
	p[detector.IndexTip] = detector.Point3D{X: p[detector.IndexTip].X + 500, Y: p[detector.IndexPIP].Y - 1}
	// Move the middle DIP and MCP around; only tip vs PIP matters.
	p[detector.MiddleDIP] = detector.Point3D{X: 0, Y: 0}
	p[detector.MiddleMCP] = detector.Point3D{X: 0, Y: 0}

	v := Classify(detector.NewHand(p, detector.Right, 1))
	assert.True(t, v[Index])
	assert.False(t, v[Middle])
	assert.False(t, v[Ring])
	assert.False(t, v[Little])
}

func TestVector_CountAndString(t *testing.T) {
	v := Vector{true, false, true, true, false}
	assert.Equal(t, 3, v.Count())
	assert.Equal(t, "10110", v.String())
	assert.Equal(t, 0, Vector{}.Count())
	assert.Equal(t, 5, Count(detector.OpenPalm(detector.Left, wrist)))
}
