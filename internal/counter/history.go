package counter

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// History is a fixed-capacity FIFO of the most recent trusted counts.
// It is a value type: Push returns the updated history and leaves the
// receiver untouched.
type History struct {
	buf  [HistorySize]int
	head int // index of the oldest entry
	n    int
}

// Push appends a count, evicting the oldest one when the history is full.
func (h History) Push(count int) History {
	if h.n < HistorySize {
		h.buf[(h.head+h.n)%HistorySize] = count
		h.n++
		return h
	}
	h.buf[h.head] = count
	h.head = (h.head + 1) % HistorySize
	return h
}

// Len returns the number of counts held.
func (h History) Len() int {
	return h.n
}

// Values returns the held counts, oldest first.
func (h History) Values() []int {
	out := make([]int, h.n)
	for i := range out {
		out[i] = h.buf[(h.head+i)%HistorySize]
	}
	return out
}

// Stabilized returns the floor of the mean of the held counts, or 0 for
// an empty history.
func (h History) Stabilized() int {
	if h.n == 0 {
		return 0
	}
	xs := make([]float64, h.n)
	for i, v := range h.Values() {
		xs[i] = float64(v)
	}
	return int(math.Floor(stat.Mean(xs, nil)))
}
