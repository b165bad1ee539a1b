package elevate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Request describes the work handed to the elevated helper.
type Request struct {
	ID      string    `json:"id"`
	Targets []string  `json:"targets"`
	PIDs    []int     `json:"pids"`
	Stream  string    `json:"stream"`
	Created time.Time `json:"created"`
}

// Validate returns an error if r cannot be acted upon.
func (r Request) Validate() error {
	switch {
	case r.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidRequest)
	case r.Stream == "":
		return fmt.Errorf("%w: missing stream path", ErrInvalidRequest)
	case len(r.PIDs) == 0:
		return fmt.Errorf("%w: %v", ErrInvalidRequest, ErrNoProcesses)
	}
	return nil
}

// StreamPath returns the location of the result stream for the session id
// within dir.
func StreamPath(dir, id string) string {
	return filepath.Join(dir, "unlock-"+id+".jsonl")
}

// RequestPath returns the location of the request file for the session id
// within dir.
func RequestPath(dir, id string) string {
	return filepath.Join(dir, "unlock-"+id+".request.json")
}

// WriteRequest writes r to a new file at path as JSON. The file is readable
// only by its owner and an existing file at path is never reused.
func WriteRequest(path string, r Request) error {
	data, err := json.MarshalIndent(r, "", "\t")
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// ReadRequest reads and validates the request stored at path.
func ReadRequest(path string) (Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Request{}, err
	}
	var r Request
	if err := json.Unmarshal(data, &r); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := r.Validate(); err != nil {
		return Request{}, err
	}
	return r, nil
}
