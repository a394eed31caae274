// Package counter turns noisy per-frame finger counts into a stable,
// rate-limited stream of values for a downstream device.
//
// Each frame goes through three stages:
//  1. the motion gate decides whether the frame's count can be trusted
//  2. trusted counts enter a bounded history whose floored mean is the
//     stabilized count
//  3. the limiter emits on change, and re-emits an unchanged value as a
//     heartbeat once the heartbeat interval has passed
//
// All state lives in a State value that Step takes and returns, so the
// frame loop is the only owner of it.
package counter

import "time"

// Tuning defaults.
const (
	// HistorySize is the number of trusted counts averaged together.
	HistorySize = 10
	// DefaultMotionThreshold is the centroid displacement, in pixels, at
	// which a frame stops being trusted.
	DefaultMotionThreshold = 15.0
	// DefaultHeartbeatInterval is how long an unchanged value waits before
	// it is sent again.
	DefaultHeartbeatInterval = 500 * time.Millisecond
)

// Config holds the counter's tuning parameters.
type Config struct {
	MotionThreshold   float64
	HeartbeatInterval time.Duration
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		MotionThreshold:   DefaultMotionThreshold,
		HeartbeatInterval: DefaultHeartbeatInterval,
	}
}

// withDefaults fills unset or invalid fields.
func (c Config) withDefaults() Config {
	if c.MotionThreshold <= 0 {
		c.MotionThreshold = DefaultMotionThreshold
	}
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = DefaultHeartbeatInterval
	}
	return c
}
