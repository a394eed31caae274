package transport

import (
	"fmt"
	"io"
)

// Connector picks and opens the serial device at startup.
type Connector struct {
	In   io.Reader
	Out  io.Writer
	List Lister
	Open Opener
}

// Connect opens path with opts and returns a sink writing to it. With an
// empty path the operator chooses from the listed ports, with lastPort
// offered as the default and opts.BaudRate as the default baud. The
// returned options carry the baud rate actually used.
func (c Connector) Connect(path string, opts PortOptions, lastPort string) (*SerialSink, PortOptions, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return nil, opts, err
	}

	if path == "" {
		ports, err := c.List()
		if err != nil {
			return nil, opts, fmt.Errorf("list serial ports: %w", err)
		}
		sel, err := Prompt(c.In, c.Out, ports, lastPort, opts.BaudRate)
		if err != nil {
			return nil, opts, err
		}
		path, opts.BaudRate = sel.Path, sel.BaudRate
	}

	port, err := c.Open(path, opts)
	if err != nil {
		fmt.Fprintf(c.Out, "Failed to connect to %s: %v\n", path, err)
		return nil, opts, err
	}

	fmt.Fprintf(c.Out, "Connected to %s at %d baud.\n", path, opts.BaudRate)
	return NewSerialSink(port, path), opts, nil
}
