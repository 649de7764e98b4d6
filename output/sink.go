// Package output writes diff artifacts: to stdout or to files that are replaced atomically,
// optionally minified, and bundled into tar archives.
package output

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sink is the destination of a diff. Output to a file goes to a temporary file next to it that
// replaces the file on Commit, so that failed runs leave no partial output behind.
type Sink struct {
	f    *os.File
	path string // empty for stdout
}

// Create creates a sink for path. An empty path or "-" writes to stdout.
func Create(path string) (*Sink, error) {
	if path == "" || path == "-" {
		return &Sink{f: os.Stdout}, nil
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, fmt.Errorf("creating output: %v", err)
	}
	return &Sink{f: f, path: path}, nil
}

func (s *Sink) Write(b []byte) (int, error) { return s.f.Write(b) }

// Fd returns the file descriptor of the sink, it allows encoders to detect terminals.
func (s *Sink) Fd() uintptr { return s.f.Fd() }

// Commit makes the output visible.
func (s *Sink) Commit() error {
	if s.path == "" {
		return nil
	}
	if err := s.f.Chmod(0o644); err != nil {
		s.Abort()
		return fmt.Errorf("committing output: %v", err)
	}
	if err := s.f.Close(); err != nil {
		os.Remove(s.f.Name())
		return fmt.Errorf("committing output: %v", err)
	}
	if err := os.Rename(s.f.Name(), s.path); err != nil {
		os.Remove(s.f.Name())
		return fmt.Errorf("committing output: %v", err)
	}
	return nil
}

// Abort discards the output. It does nothing for stdout.
func (s *Sink) Abort() {
	if s.path == "" {
		return
	}
	s.f.Close()
	os.Remove(s.f.Name())
}

// WriteFile atomically replaces the file at path with b.
func WriteFile(path string, b []byte) error {
	s, err := Create(path)
	if err != nil {
		return err
	}
	if _, err := s.Write(b); err != nil {
		s.Abort()
		return fmt.Errorf("writing output: %v", err)
	}
	return s.Commit()
}
