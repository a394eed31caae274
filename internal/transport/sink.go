package transport

import (
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/ayusman/mudra/internal/counter"
)

// Sink accepts emissions from the frame loop. Send must not block.
type Sink interface {
	Send(e counter.Emission)
}

// Encode renders a count as decimal ASCII. The sink appends the newline.
func Encode(value int) []byte {
	return strconv.AppendInt(nil, int64(value), 10)
}

// MaxPendingWrites caps the writes a SerialSink keeps in flight. Emissions
// sent while the cap is reached are dropped.
const MaxPendingWrites = 8

// SerialSink writes each emission to a serial port on its own goroutine.
// Writes are never retried and failures are only logged. Delivery order
// between emissions is not guaranteed.
type SerialSink struct {
	port Port
	path string

	// writeMu keeps a single line from being interleaved with another; it
	// does not order emissions.
	writeMu sync.Mutex
	pending atomic.Int32
}

// NewSerialSink wraps an already open port.
func NewSerialSink(port Port, path string) *SerialSink {
	return &SerialSink{port: port, path: path}
}

// Send dispatches the emission and returns immediately. If the port has
// stalled with MaxPendingWrites writes outstanding, the emission is dropped.
func (s *SerialSink) Send(e counter.Emission) {
	if s.pending.Add(1) > MaxPendingWrites {
		s.pending.Add(-1)
		log.Printf("Dropping %d for %s: %d writes pending", e.Value, s.path, MaxPendingWrites)
		return
	}
	go s.write(e.Value)
}

// Pending returns the number of writes in flight.
func (s *SerialSink) Pending() int {
	return int(s.pending.Load())
}

func (s *SerialSink) write(value int) {
	defer s.pending.Add(-1)

	line := append(Encode(value), '\n')

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	n, err := s.port.Write(line)
	if err != nil {
		log.Printf("Error sending %d to %s: %v", value, s.path, err)
		return
	}
	if n != len(line) {
		log.Printf("Short write to %s: %d of %d bytes", s.path, n, len(line))
	}
}

// Path returns the port path the sink writes to.
func (s *SerialSink) Path() string {
	return s.path
}

// Close closes the underlying port. In-flight writes are not waited for.
func (s *SerialSink) Close() error {
	return s.port.Close()
}

// Discard is the sink used when no serial device is connected. Emissions
// are dropped silently.
type Discard struct{}

// Send drops the emission.
func (Discard) Send(counter.Emission) {}

// Fanout forwards each emission to every sink in order.
type Fanout []Sink

// Send forwards e to all sinks.
func (f Fanout) Send(e counter.Emission) {
	for _, s := range f {
		s.Send(e)
	}
}
