package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []Hand
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []Hand) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Hand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Digits selects which digits SyntheticHand extends, in the order
// thumb, index, middle, ring, little.
type Digits [5]bool

// SyntheticHand builds an upright hand with its wrist at the given pixel
// position and the selected digits extended. Extended fingers put the tip
// 40px above the PIP joint; folded fingers curl the tip 25px below it. An
// extended thumb reaches 80px sideways and 20px above its MCP joint.
func SyntheticHand(handedness Handedness, wrist Point2D, up Digits) Hand {
	var p [NumLandmarks]Point3D
	at := func(dx, dy float64) Point3D {
		return Point3D{X: wrist.X + dx, Y: wrist.Y + dy}
	}

	p[Wrist] = at(0, 0)
	p[ThumbCMC] = at(15, -20)
	p[ThumbMCP] = at(30, -40)
	if up[0] {
		p[ThumbIP] = at(55, -50)
		p[ThumbTip] = at(80, -60)
	} else {
		p[ThumbIP] = at(28, -35)
		p[ThumbTip] = at(20, -30)
	}

	for f := 0; f < 4; f++ {
		mcp := IndexMCP + f*4
		dx := 20 - float64(f)*15
		p[mcp] = at(dx, -80)
		p[mcp+1] = at(dx, -110)
		if up[f+1] {
			p[mcp+2] = at(dx, -130)
			p[mcp+3] = at(dx, -150)
		} else {
			p[mcp+2] = at(dx, -95)
			p[mcp+3] = at(dx, -85)
		}
	}

	return NewHand(p, handedness, 0.95)
}

// OpenPalm returns a hand with all five digits extended.
func OpenPalm(handedness Handedness, wrist Point2D) Hand {
	return SyntheticHand(handedness, wrist, Digits{true, true, true, true, true})
}

// Fist returns a hand with every digit folded.
func Fist(handedness Handedness, wrist Point2D) Hand {
	return SyntheticHand(handedness, wrist, Digits{})
}
