// Package deps resolves the external programs the harvester shells out to.
package deps

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var errNotConfigured = errors.New("command not configured")

// Requirement names an executable and what the run loses without it.
type Requirement struct {
	Name    string
	Command string
	Impact  string
}

// Status is the lookup result for one Requirement. Path is set when the
// command resolved; Err is set otherwise.
type Status struct {
	Requirement
	Path string
	Err  error
}

// Available reports whether the command resolved to an executable.
func (s Status) Available() bool {
	return s.Err == nil
}

// Resolve looks up each requirement on PATH, or as given when the command
// contains a path separator.
func Resolve(requirements []Requirement) []Status {
	out := make([]Status, len(requirements))
	for i, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		out[i].Requirement = req
		if req.Command == "" {
			out[i].Err = errNotConfigured
			continue
		}
		path, err := exec.LookPath(req.Command)
		if err != nil {
			out[i].Err = fmt.Errorf("%s not found: %w", req.Command, err)
			continue
		}
		out[i].Path = path
	}
	return out
}
