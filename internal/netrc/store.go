// Package netrc exposes the user's netrc file as a read-only credential
// store indexed by machine name.
package netrc

import (
	"fmt"
	"io"
	"os"

	"github.com/bgentry/go-netrc/netrc"
)

// Record is a single netrc entry. Account and Password are empty when the
// entry omits them.
type Record struct {
	Machine  string
	Login    string
	Account  string
	Password string
}

// Store holds the parsed netrc entries. It is immutable after construction
// and safe to share for the lifetime of the process.
type Store struct {
	rc *netrc.Netrc
}

// LoadError reports a netrc file that is missing, unreadable or
// malformed. The message names the path but never credential values.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load netrc file %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load parses the netrc file at path. A missing, unreadable or malformed
// file is a configuration error.
func Load(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	rc, err := netrc.ParseFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	return &Store{rc: rc}, nil
}

// Parse builds a Store from netrc content read from r.
func Parse(r io.Reader) (*Store, error) {
	rc, err := netrc.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse netrc: %w", err)
	}

	return &Store{rc: rc}, nil
}

// Lookup returns the first entry whose machine name exactly matches host,
// in file order. Matching is case-sensitive; registry hosts arrive
// lowercased from URL parsing, so entries should use lowercase machine
// names. A `default` entry is never returned: handing a catch-all
// credential to an arbitrary registry would defeat per-host scoping.
func (s *Store) Lookup(host string) (Record, bool) {
	m := s.rc.FindMachine(host)
	if m == nil || m.IsDefault() {
		return Record{}, false
	}

	return Record{
		Machine:  m.Name,
		Login:    m.Login,
		Account:  m.Account,
		Password: m.Password,
	}, true
}
