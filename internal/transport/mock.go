package transport

import (
	"bytes"
	"errors"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/counter"
)

// TestablePort implements Port with configurable behaviour for testing.
type TestablePort struct {
	mu sync.Mutex

	// WriteBuffer captures data written to the port
	WriteBuffer *bytes.Buffer

	// WriteLatency adds a delay to each Write call
	WriteLatency time.Duration

	// WriteError is returned by every Write call while set
	WriteError error

	// CloseError is returned by Close if set
	CloseError error

	// Closed indicates whether Close was called
	Closed bool

	// WriteCalls records the number of Write calls
	WriteCalls int
}

// NewTestablePort creates a new TestablePort for testing.
func NewTestablePort() *TestablePort {
	return &TestablePort{WriteBuffer: bytes.NewBuffer(nil)}
}

// Write appends to the write buffer, optionally simulating latency and errors.
func (t *TestablePort) Write(p []byte) (int, error) {
	t.mu.Lock()
	latency := t.WriteLatency
	t.mu.Unlock()

	if latency > 0 {
		time.Sleep(latency)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.WriteCalls++

	if t.Closed {
		return 0, errors.New("serial port closed")
	}
	if t.WriteError != nil {
		return 0, t.WriteError
	}

	return t.WriteBuffer.Write(p)
}

// Close marks the port as closed.
func (t *TestablePort) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.Closed = true
	return t.CloseError
}

// SetWriteError sets the error returned by Write.
func (t *TestablePort) SetWriteError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.WriteError = err
}

// Written returns a copy of everything written so far.
func (t *TestablePort) Written() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.WriteBuffer.String()
}

// Calls returns the number of Write calls so far.
func (t *TestablePort) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.WriteCalls
}

// RecordingSink collects emissions synchronously; it is meant for tests.
type RecordingSink struct {
	mu        sync.Mutex
	emissions []counter.Emission
}

// Send records the emission.
func (r *RecordingSink) Send(e counter.Emission) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emissions = append(r.emissions, e)
}

// Emissions returns the recorded emissions in send order.
func (r *RecordingSink) Emissions() []counter.Emission {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]counter.Emission, len(r.emissions))
	copy(out, r.emissions)
	return out
}

// Values returns the recorded emission values in send order.
func (r *RecordingSink) Values() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.emissions))
	for i, e := range r.emissions {
		out[i] = e.Value
	}
	return out
}
