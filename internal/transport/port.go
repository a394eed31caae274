// Package transport delivers counter emissions to a serial device.
package transport

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"go.bug.st/serial"
)

// ErrNoPorts is returned when no serial ports are available.
var ErrNoPorts = errors.New("no serial ports found")

// Port is the minimal interface the sink needs from a serial port.
type Port interface {
	io.Writer
	io.Closer
}

// Opener opens a serial port at path with the given options.
type Opener func(path string, opts PortOptions) (Port, error)

// Lister enumerates the serial ports currently available.
type Lister func() ([]string, error)

// Open opens a real serial port using go.bug.st/serial.
func Open(path string, opts PortOptions) (Port, error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	return port, nil
}

// ListPorts returns the available serial ports in a stable order.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerate serial ports: %w", err)
	}
	sort.Strings(ports)
	return ports, nil
}
