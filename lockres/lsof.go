package lockres

import (
	"bufio"
	"io"
	"strconv"
)

// parseLsof reads the field output produced by "lsof -F pcn" and calls fn
// for each named file. Process sets begin with a 'p' line and carry the
// command name on a 'c' line.
func parseLsof(r io.Reader, fn func(Handle) error) error {
	var (
		pid  int
		name string
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 2 {
			continue
		}
		value := line[1:]
		switch line[0] {
		case 'p':
			n, err := strconv.Atoi(value)
			if err != nil {
				pid = 0
				continue
			}
			pid, name = n, ""
		case 'c':
			name = value
		case 'n':
			if pid <= 0 {
				continue
			}
			if err := fn(Handle{PID: pid, Name: name, Path: value}); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}
