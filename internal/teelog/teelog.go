// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package teelog provides a duplicated-output stream: a writer that mirrors
// everything it receives to both the console and a log file for the
// duration of a run.
//
// The stream is an explicit scoped resource. Callers acquire it with Open,
// hand the returned *Stream down the call chain as an io.Writer, and
// release it with Close (normally deferred), after which console output is
// no longer mirrored. Nothing here touches os.Stdout globally.
package teelog

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Stream mirrors writes to a console writer and a log file, in the order
// produced. It implements io.Writer.
type Stream struct {
	console io.Writer
	file    *os.File
	tee     io.Writer

	closeOnce sync.Once
	closeErr  error
}

// Open creates (or appends to) the log file at path and returns a stream
// that duplicates writes to console and the file.
func Open(path string, console io.Writer) (*Stream, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	return &Stream{
		console: console,
		file:    f,
		tee:     io.MultiWriter(console, f),
	}, nil
}

// Write sends p to both sinks. A short write to either sink is an error.
func (s *Stream) Write(p []byte) (int, error) {
	return s.tee.Write(p)
}

// Close flushes and closes the log file. It is safe to call more than
// once; later calls return the first result. Writes after Close fail.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.file.Close()
		// Fall back to console-only so a stray write after release
		// cannot reach the closed file.
		s.tee = closedTee{}
	})
	return s.closeErr
}

// Path returns the log file path.
func (s *Stream) Path() string {
	return s.file.Name()
}

type closedTee struct{}

func (closedTee) Write([]byte) (int, error) {
	return 0, fmt.Errorf("write to released log stream")
}
