package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand landmark sources.
type Detector interface {
	// Detect analyzes a video frame and returns the detected hands in
	// frame pixel coordinates. Returns an empty slice if no hands are
	// detected; that is not an error.
	Detect(frame *gocv.Mat) ([]Hand, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns the settings the finger counter runs with.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.85,
		MinTrackingConf: 0.7,
	}
}
