package counter

import (
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/digits"
)

// MaxHands is the number of hands that contribute to a frame's total.
const MaxHands = 2

// State is everything the counter remembers between frames.
type State struct {
	// Prev is the primary hand's centroid from the last frame that had a
	// hand. It survives frames without hands.
	Prev     *detector.Point2D
	History  History
	Emission EmissionState
}

// Result describes what happened to a single frame.
type Result struct {
	Hands        int             `json:"hands"`
	Digits       []digits.Vector `json:"-"`
	Raw          int             `json:"raw"`
	Displacement float64         `json:"displacement"`
	Trusted      bool            `json:"trusted"`
	Stabilized   int             `json:"stabilized"`
	Emitted      bool            `json:"emitted"`
	Emission     Emission        `json:"emission"`
}

// RawTotal sums the digit counts of up to two hands. When both hands carry
// the same handedness label the second is taken to be a duplicate
// detection and contributes nothing.
func RawTotal(hands []detector.Hand, vectors []digits.Vector) int {
	if len(hands) == 0 {
		return 0
	}
	total := vectors[0].Count()
	if len(hands) >= 2 && hands[1].Handedness != hands[0].Handedness {
		total += vectors[1].Count()
	}
	return total
}

// Step runs one frame through the gate, the history and the limiter and
// returns the updated state along with a description of the frame.
//
// A frame without hands counts as a trusted zero. A frame whose hand moved
// too far keeps the previous stabilized value and leaves the history as it
// was.
func Step(st State, hands []detector.Hand, now time.Time, cfg Config) (State, Result) {
	cfg = cfg.withDefaults()

	if len(hands) > MaxHands {
		hands = hands[:MaxHands]
	}

	res := Result{Hands: len(hands), Trusted: true}
	var stabilized int

	if len(hands) == 0 {
		st.History = st.History.Push(0)
		stabilized = st.History.Stabilized()
	} else {
		cur := hands[0].Centroid
		res.Displacement = Displacement(st.Prev, cur)
		st.Prev = &cur

		res.Digits = make([]digits.Vector, len(hands))
		for i, h := range hands {
			res.Digits[i] = digits.Classify(h)
		}
		res.Raw = RawTotal(hands, res.Digits)
		res.Trusted = Trusted(res.Displacement, cfg.MotionThreshold)

		if res.Trusted {
			st.History = st.History.Push(res.Raw)
			stabilized = st.History.Stabilized()
		} else {
			stabilized = st.Emission.Current
		}
	}

	res.Stabilized = stabilized
	st.Emission, res.Emission, res.Emitted = st.Emission.Decide(stabilized, now, cfg.HeartbeatInterval)

	return st, res
}
