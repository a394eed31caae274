package counter

import "time"

// Emission is a value the limiter decided to send downstream.
type Emission struct {
	Value     int       `json:"value"`
	At        time.Time `json:"at"`
	Heartbeat bool      `json:"heartbeat"`
}

// EmissionState is the limiter's memory between frames.
type EmissionState struct {
	// Current is the latest stabilized value. It starts at zero, so a
	// stabilized zero before any change is never sent.
	Current int
	// LastSent is the most recently emitted value; valid only if Sent.
	LastSent   int
	LastSentAt time.Time
	Sent       bool
}

// Decide returns the updated state and, when ok is true, the emission to
// dispatch for this frame.
func (s EmissionState) Decide(stabilized int, now time.Time, heartbeat time.Duration) (EmissionState, Emission, bool) {
	switch {
	case stabilized != s.Current:
		s.Current = stabilized
		s.LastSent = stabilized
		s.LastSentAt = now
		s.Sent = true
		return s, Emission{Value: stabilized, At: now}, true

	case s.Sent && now.Sub(s.LastSentAt) >= heartbeat:
		s.LastSentAt = now
		return s, Emission{Value: s.LastSent, At: now, Heartbeat: true}, true
	}

	return s, Emission{}, false
}
