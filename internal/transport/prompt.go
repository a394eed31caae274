package transport

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Selection is the outcome of the interactive port prompt.
type Selection struct {
	Path     string
	BaudRate int
}

// Prompt lists ports on out and reads the operator's choice of port index
// and baud rate from in. An empty baud answer falls back to defaultBaud.
// If lastPort is among the listed ports an empty index answer selects it.
func Prompt(in io.Reader, out io.Writer, ports []string, lastPort string, defaultBaud int) (Selection, error) {
	if len(ports) == 0 {
		fmt.Fprintln(out, "No serial ports found.")
		return Selection{}, ErrNoPorts
	}
	if defaultBaud <= 0 {
		defaultBaud = DefaultBaudRate
	}

	lastIndex := -1
	fmt.Fprintln(out, "Available Serial Ports:")
	for i, p := range ports {
		marker := ""
		if p == lastPort {
			lastIndex = i
			marker = " (last used)"
		}
		fmt.Fprintf(out, "%d: %s%s\n", i, p, marker)
	}

	r := bufio.NewReader(in)

	fmt.Fprintf(out, "Select a port by number (0 to %d): ", len(ports)-1)
	answer, err := readLine(r)
	if err != nil {
		return Selection{}, err
	}

	var index int
	switch {
	case answer == "" && lastIndex >= 0:
		index = lastIndex
	default:
		index, err = strconv.Atoi(answer)
		if err != nil || index < 0 || index >= len(ports) {
			return Selection{}, fmt.Errorf("invalid port selection %q", answer)
		}
	}

	fmt.Fprintf(out, "Enter baud rate (default is %d): ", defaultBaud)
	answer, err = readLine(r)
	if err != nil {
		return Selection{}, err
	}

	baud := defaultBaud
	if answer != "" {
		baud, err = strconv.Atoi(answer)
		if err != nil || baud <= 0 {
			return Selection{}, fmt.Errorf("invalid baud rate %q", answer)
		}
	}

	return Selection{Path: ports[index], BaudRate: baud}, nil
}

// readLine reads one line, tolerating a missing trailing newline at EOF.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
