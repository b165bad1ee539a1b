package release

import ps "github.com/mitchellh/go-ps"

// lookup returns the executable name of pid.
func lookup(pid int) (string, error) {
	p, err := ps.FindProcess(pid)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", ErrProcessNotFound
	}
	return p.Executable(), nil
}
