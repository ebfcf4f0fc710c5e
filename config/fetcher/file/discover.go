package file

import (
	"errors"
	"fmt"
	"os"
)

// ErrNoCandidate is returned by Discover when none of the candidate paths can be read.
var ErrNoCandidate = errors.New("no readable configuration file")

// Discovery describes where to look for a configuration file.
type Discovery struct {
	// Path is an explicit file, tried first.
	Path string
	// EnvVar names an environment variable holding a file path, tried second.
	EnvVar string
	// Defaults are well-known locations, tried last in order.
	Defaults []string
}

// Candidates returns the paths Discover tries, in order. Empty entries are skipped.
func (d Discovery) Candidates() []string {
	var candidates []string

	if d.Path != "" {
		candidates = append(candidates, d.Path)
	}

	if d.EnvVar != "" {
		if path, ok := os.LookupEnv(d.EnvVar); ok && path != "" {
			candidates = append(candidates, path)
		}
	}

	for _, path := range d.Defaults {
		if path != "" {
			candidates = append(candidates, path)
		}
	}

	return candidates
}

// Discover returns a Fetcher for the first candidate that can be read.
// When every candidate fails the returned error matches ErrNoCandidate and
// carries the individual failures.
func Discover(d Discovery) (*Fetcher, error) {
	candidates := d.Candidates()
	errs := make([]error, 0, len(candidates))

	for _, path := range candidates {
		fetcher, err := NewFetcher(path)()
		if err == nil {
			return fetcher, nil
		}

		errs = append(errs, err)
	}

	return nil, fmt.Errorf("%w: tried %q: %w", ErrNoCandidate, candidates, errors.Join(errs...))
}
